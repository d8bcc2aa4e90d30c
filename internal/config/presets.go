package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"identity": {
		Name:   "identity",
		Scale:  ScaleConfig{Rotation: 1.0, Speed: 1.0},
		Period: DefaultPeriod, Ticks: 10,
		Sensor: SensorConfig{Kind: "fixed", X: 1.0, Y: 2.0},
	},
	"double-rotation": {
		Name:   "double-rotation",
		Scale:  ScaleConfig{Rotation: 2.0, Speed: 1.0},
		Period: DefaultPeriod, Ticks: 10,
		Sensor: SensorConfig{Kind: "fixed", X: 1.0, Y: 2.0},
	},
	"slow-orbit": {
		Name:   "slow-orbit",
		Scale:  ScaleConfig{Rotation: 0.5, Speed: 0.25},
		Period: 50 * time.Millisecond, Ticks: 126,
		Sensor: SensorConfig{Kind: "orbit", Radius: 3.0, Step: 0.05},
	},
	"spring-target": {
		Name:   "spring-target",
		Scale:  ScaleConfig{Rotation: 1.0, Speed: 0.5},
		Period: 20 * time.Millisecond, Ticks: 300,
		Sensor: SensorConfig{Kind: "oscillator", X: 2.0, Y: 0.5, Omega: 0.8, Dt: 0.02},
	},
	"flaky-bench": {
		Name:   "flaky-bench",
		Scale:  ScaleConfig{Rotation: 1.0, Speed: 1.0},
		Period: 10 * time.Millisecond, Ticks: 100,
		Sensor: SensorConfig{Kind: "fixed", X: 1.0, Y: 2.0, Noise: 0.05, FailEvery: 4, Seed: 7},
	},
}

// GetPreset returns a full config built from the named preset, or nil.
// Fields the preset leaves empty keep their defaults.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.Scale = p.Scale
	cfg.Period = p.Period
	cfg.Ticks = p.Ticks
	cfg.Duration = p.Duration

	s := p.Sensor
	cfg.Sensor.Kind = s.Kind
	setIfNonZero(&cfg.Sensor.X, s.X)
	setIfNonZero(&cfg.Sensor.Y, s.Y)
	setIfNonZero(&cfg.Sensor.Radius, s.Radius)
	setIfNonZero(&cfg.Sensor.Step, s.Step)
	setIfNonZero(&cfg.Sensor.Omega, s.Omega)
	setIfNonZero(&cfg.Sensor.Dt, s.Dt)
	cfg.Sensor.Noise = s.Noise
	cfg.Sensor.FailEvery = s.FailEvery
	cfg.Sensor.Seed = s.Seed

	return cfg
}

func setIfNonZero(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
