package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRotationScale = 1.0
	DefaultSpeedScale    = 1.0
	DefaultPeriod        = 100 * time.Millisecond
	DefaultSensor        = "fixed"
	DefaultSink          = "stdout"
	DefaultX             = 1.0
	DefaultY             = 2.0
	DefaultRadius        = 2.0
	DefaultStep          = 0.1
	DefaultOmega         = 1.0
	DefaultDt            = 0.1
	DefaultTopic         = "polarctl/cmd"
	DefaultClientID      = "polarctl"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvBroker        = "POLARCTL_MQTT_BROKER"
	EnvTopic         = "POLARCTL_MQTT_TOPIC"
	EnvRotationScale = "POLARCTL_ROTATION_SCALE"
	EnvSpeedScale    = "POLARCTL_SPEED_SCALE"
)

type Config struct {
	Name     string        `yaml:"name"`
	Scale    ScaleConfig   `yaml:"scale"`
	Period   time.Duration `yaml:"period"`
	Ticks    int           `yaml:"ticks"`
	Duration time.Duration `yaml:"duration"`
	Sensor   SensorConfig  `yaml:"sensor"`
	Sink     SinkConfig    `yaml:"sink"`
	LogLevel string        `yaml:"log_level"`
}

type ScaleConfig struct {
	Rotation float64 `yaml:"rotation"`
	Speed    float64 `yaml:"speed"`
}

type SensorConfig struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Step   float64 `yaml:"step"`
	Omega  float64 `yaml:"omega"`
	Dt     float64 `yaml:"dt"`
	// Integrator steps the oscillator: "rk4" (default) or "euler".
	Integrator string  `yaml:"integrator"`
	Noise      float64 `yaml:"noise"`
	FailEvery  int     `yaml:"fail_every"`
	Seed       int64   `yaml:"seed"`
	Loop       bool    `yaml:"loop"`
	Run        string  `yaml:"run"`
}

type SinkConfig struct {
	Kind     string `yaml:"kind"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "run",
		Scale: ScaleConfig{
			Rotation: DefaultRotationScale,
			Speed:    DefaultSpeedScale,
		},
		Period: DefaultPeriod,
		Sensor: SensorConfig{
			Kind:   DefaultSensor,
			X:      DefaultX,
			Y:      DefaultY,
			Radius: DefaultRadius,
			Step:   DefaultStep,
			Omega:  DefaultOmega,
			Dt:     DefaultDt,
		},
		Sink: SinkConfig{
			Kind:     DefaultSink,
			Topic:    DefaultTopic,
			ClientID: DefaultClientID,
		},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file over cfg. Fields the file omits keep their
// current values, so a preset can sit underneath.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv reads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from POLARCTL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvBroker); ok {
		c.Sink.Broker = v
	}
	if v, ok := os.LookupEnv(EnvTopic); ok {
		c.Sink.Topic = v
	}
	if v, ok := os.LookupEnv(EnvRotationScale); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRotationScale, err)
		}
		c.Scale.Rotation = f
	}
	if v, ok := os.LookupEnv(EnvSpeedScale); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSpeedScale, err)
		}
		c.Scale.Speed = f
	}
	return nil
}

func (c *Config) Validate() error {
	if math.IsNaN(c.Scale.Rotation) || math.IsInf(c.Scale.Rotation, 0) {
		return fmt.Errorf("scale.rotation must be finite, got %v", c.Scale.Rotation)
	}
	if math.IsNaN(c.Scale.Speed) || math.IsInf(c.Scale.Speed, 0) {
		return fmt.Errorf("scale.speed must be finite, got %v", c.Scale.Speed)
	}
	if c.Period <= 0 {
		return fmt.Errorf("period must be positive, got %s", c.Period)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	if c.Sensor.Noise < 0 {
		return fmt.Errorf("sensor.noise must not be negative, got %v", c.Sensor.Noise)
	}
	if c.Sensor.Kind == "oscillator" && c.Sensor.Dt <= 0 {
		return fmt.Errorf("sensor.dt must be positive for oscillator, got %v", c.Sensor.Dt)
	}
	switch c.Sensor.Integrator {
	case "", "rk4", "euler":
	default:
		return fmt.Errorf("sensor.integrator must be rk4 or euler, got %q", c.Sensor.Integrator)
	}
	if c.Sensor.Kind == "replay" && c.Sensor.Run == "" {
		return fmt.Errorf("sensor.run is required for replay")
	}
	if c.Sink.Kind == "mqtt" && c.Sink.Broker == "" {
		return fmt.Errorf("sink.broker is required for mqtt (or set %s)", EnvBroker)
	}
	if c.Sink.QoS > 2 {
		return fmt.Errorf("sink.qos must be 0, 1 or 2, got %d", c.Sink.QoS)
	}
	return nil
}
