package experiment

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/config"
	"github.com/san-kum/polarctl/internal/integrators"
	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/sensors"
	"github.com/san-kum/polarctl/internal/sinks"
	"github.com/san-kum/polarctl/internal/storage"
)

// Env carries the collaborators factories may need.
type Env struct {
	Out   io.Writer
	Log   *zap.Logger
	Store *storage.Store
	// DialMQTT is swapped in tests; defaults to sinks.DialMQTT.
	DialMQTT func(opts sinks.MQTTOptions) (MQTTClient, error)
}

// SinkFactory returns the publisher and an optional close hook.
type SinkFactory func(cfg config.SinkConfig, env Env) (motion.Publisher, func(), error)

type SensorFactory func(cfg config.SensorConfig, env Env) (motion.Sensor, error)

type Registry struct {
	sensors     map[string]SensorFactory
	sinks       map[string]SinkFactory
	integrators map[string]func() integrators.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		sensors: make(map[string]SensorFactory),
		sinks:   make(map[string]SinkFactory),
		integrators: map[string]func() integrators.Integrator{
			"rk4":   func() integrators.Integrator { return integrators.NewRK4() },
			"euler": func() integrators.Integrator { return integrators.NewEuler() },
		},
	}

	r.sensors["fixed"] = func(c config.SensorConfig, _ Env) (motion.Sensor, error) {
		return sensors.NewFixed(c.X, c.Y), nil
	}
	r.sensors["orbit"] = func(c config.SensorConfig, _ Env) (motion.Sensor, error) {
		return sensors.NewOrbit(c.Radius, c.Step), nil
	}
	r.sensors["oscillator"] = func(c config.SensorConfig, _ Env) (motion.Sensor, error) {
		osc := sensors.NewOscillator(c.X, c.Y, c.Omega, c.Dt)
		if c.Integrator == "" {
			return osc, nil
		}
		integ, err := r.GetIntegrator(c.Integrator)
		if err != nil {
			return nil, err
		}
		return osc.WithIntegrator(integ), nil
	}
	r.sensors["replay"] = func(c config.SensorConfig, env Env) (motion.Sensor, error) {
		if env.Store == nil {
			return nil, fmt.Errorf("replay sensor needs a run store")
		}
		samples, err := env.Store.LoadSamples(c.Run)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", c.Run, err)
		}
		rep := sensors.NewReplay(samples, c.Loop)
		logging.OrNop(env.Log).Info("replay loaded",
			zap.String("run", c.Run),
			zap.Int("samples", rep.Remaining()),
			zap.Bool("loop", c.Loop),
		)
		return rep, nil
	}

	r.sinks["stdout"] = func(_ config.SinkConfig, env Env) (motion.Publisher, func(), error) {
		return sinks.NewPrinter(env.Out, env.Log), nil, nil
	}
	r.sinks["log"] = func(_ config.SinkConfig, env Env) (motion.Publisher, func(), error) {
		return sinks.NewLogSink(env.Log), nil, nil
	}
	r.sinks["none"] = func(config.SinkConfig, Env) (motion.Publisher, func(), error) {
		return motion.PublisherFunc(func(motion.Command) {}), nil, nil
	}
	r.sinks["mqtt"] = func(c config.SinkConfig, env Env) (motion.Publisher, func(), error) {
		opts := sinks.MQTTOptions{
			Broker:   c.Broker,
			ClientID: c.ClientID,
			Topic:    c.Topic,
			QoS:      c.QoS,
		}
		dial := env.DialMQTT
		if dial == nil {
			dial = dialPaho
		}
		client, err := dial(opts)
		if err != nil {
			return nil, nil, err
		}
		return sinks.NewMQTT(client, opts, env.Log), func() { client.Disconnect(250) }, nil
	}

	return r
}

// wrapSensor applies the noise and failure-injection wrappers.
func wrapSensor(s motion.Sensor, c config.SensorConfig) motion.Sensor {
	if c.Noise > 0 {
		s = sensors.NewNoisy(s, c.Noise, c.Seed)
	}
	if c.FailEvery > 0 {
		s = sensors.NewFlaky(s, c.FailEvery)
	}
	return s
}

func (r *Registry) GetSensor(cfg config.SensorConfig, env Env) (motion.Sensor, error) {
	fn, ok := r.sensors[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown sensor: %s (available: %v)", cfg.Kind, r.ListSensors())
	}
	s, err := fn(cfg, env)
	if err != nil {
		return nil, err
	}
	return wrapSensor(s, cfg), nil
}

func (r *Registry) GetSink(cfg config.SinkConfig, env Env) (motion.Publisher, func(), error) {
	fn, ok := r.sinks[cfg.Kind]
	if !ok {
		return nil, nil, fmt.Errorf("unknown sink: %s (available: %v)", cfg.Kind, r.ListSinks())
	}
	return fn(cfg, env)
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) RegisterSensor(name string, fn SensorFactory) { r.sensors[name] = fn }

func (r *Registry) RegisterSink(name string, fn SinkFactory) { r.sinks[name] = fn }

func (r *Registry) ListSensors() []string {
	return sortedKeys(r.sensors)
}

func (r *Registry) ListSinks() []string {
	return sortedKeys(r.sinks)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
