package experiment

import (
	"context"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/config"
	"github.com/san-kum/polarctl/internal/control"
	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/metrics"
	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/sim"
	"github.com/san-kum/polarctl/internal/sinks"
	"github.com/san-kum/polarctl/internal/storage"
)

// MQTTClient is the subset of mqtt.Client the mqtt sink uses.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

func dialPaho(opts sinks.MQTTOptions) (MQTTClient, error) {
	c, err := sinks.DialMQTT(opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Experiment is a controller wired to its sensor, sink, runner and metrics.
type Experiment struct {
	cfg     *config.Config
	ctrl    *control.Polar
	runner  *sim.Runner
	closers []func()
	log     *zap.Logger
}

func (r *Registry) Build(cfg *config.Config, env Env) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}
	env.Log = logging.OrNop(env.Log)

	scale := motion.Scale{Rotation: cfg.Scale.Rotation, Speed: cfg.Scale.Speed}
	if err := scale.Validate(); err != nil {
		return nil, err
	}

	sensor, err := r.GetSensor(cfg.Sensor, env)
	if err != nil {
		return nil, err
	}
	sink, closeSink, err := r.GetSink(cfg.Sink, env)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg: cfg,
		log: env.Log.With(zap.String("run", cfg.Name)),
	}
	if closeSink != nil {
		e.closers = append(e.closers, closeSink)
	}

	e.ctrl = control.NewPolar(scale, sensor, sink)
	e.runner = sim.New(e.ctrl, e.log)
	for _, m := range metrics.Defaults() {
		e.runner.AddMetric(m)
	}

	e.log.Debug("experiment built",
		zap.String("sensor", cfg.Sensor.Kind),
		zap.String("sink", cfg.Sink.Kind),
		zap.Float64("rotation_scale", scale.Rotation),
		zap.Float64("speed_scale", scale.Speed),
	)
	return e, nil
}

// Build uses the default registry.
func Build(cfg *config.Config, env Env) (*Experiment, error) {
	return NewRegistry().Build(cfg, env)
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Period:   e.cfg.Period,
		Ticks:    e.cfg.Ticks,
		Duration: e.cfg.Duration,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.runner.Run(ctx, e.SimConfig())
}

func (e *Experiment) Tick(ctx context.Context) (motion.Command, bool) {
	return e.runner.RunOnce(ctx)
}

func (e *Experiment) Controller() *control.Polar { return e.ctrl }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes the experiment for the run store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Name:     e.cfg.Name,
		Sensor:   e.cfg.Sensor.Kind,
		Sink:     e.cfg.Sink.Kind,
		Rotation: e.cfg.Scale.Rotation,
		Speed:    e.cfg.Scale.Speed,
		Period:   e.cfg.Period,
	}
}

// Close releases sinks in reverse order of creation. It is safe to call twice.
func (e *Experiment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func (e *Experiment) String() string {
	return fmt.Sprintf("%s: %s -> %s (rotation=%g speed=%g period=%s)",
		e.cfg.Name, e.cfg.Sensor.Kind, e.cfg.Sink.Kind, e.cfg.Scale.Rotation, e.cfg.Scale.Speed, e.cfg.Period)
}
