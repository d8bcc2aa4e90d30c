package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/polarctl/internal/config"
	"github.com/san-kum/polarctl/internal/experiment"
	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/sim"
	"github.com/san-kum/polarctl/internal/storage"
)

var ErrUnbounded = errors.New("automation: step has neither ticks nor duration")

// Scenario defines a scripted sequence of controller runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides
// whatever fields are non-zero. The scales are pointers since 0 is a
// valid gain.
type ScenarioStep struct {
	Preset    string        `yaml:"preset"`
	Sensor    string        `yaml:"sensor"`
	Sink      string        `yaml:"sink"`
	Rotation  *float64      `yaml:"rotation"`
	Speed     *float64      `yaml:"speed"`
	Period    time.Duration `yaml:"period"`
	Ticks     int           `yaml:"ticks"`
	Duration  time.Duration `yaml:"duration"`
	FailEvery int           `yaml:"fail_every"`
	SaveAs    string        `yaml:"save_as"`
}

type StepResult struct {
	Step   int
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Config resolves the step to a full controller config. Steps default to
// the "none" sink.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	cfg.Sink.Kind = "none"

	if s.Sensor != "" {
		cfg.Sensor.Kind = s.Sensor
	}
	if s.Sink != "" {
		cfg.Sink.Kind = s.Sink
	}
	if s.Rotation != nil {
		cfg.Scale.Rotation = *s.Rotation
	}
	if s.Speed != nil {
		cfg.Scale.Speed = *s.Speed
	}
	if s.Period != 0 {
		cfg.Period = s.Period
	}
	if s.Ticks != 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.FailEvery != 0 {
		cfg.Sensor.FailEvery = s.FailEvery
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}

	if cfg.Ticks == 0 && cfg.Duration == 0 {
		return nil, ErrUnbounded
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order, stopping at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, env experiment.Env) ([]StepResult, error) {
	log := logging.OrNop(env.Log).With(zap.String("scenario", scenario.Name))
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.Info("running step", zap.Int("step", i+1), zap.Int("of", len(scenario.Steps)), zap.String("sensor", cfg.Sensor.Kind))

		result, meta, err := runOnce(ctx, registry, cfg, env)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Config: cfg, Result: result}
		if step.SaveAs != "" && env.Store != nil {
			if err := env.Store.Init(); err != nil {
				return results, err
			}
			sr.RunID, err = env.Store.Save(meta, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ScaleSweep runs the same sensor across evenly spaced values of one
// scale factor.
type ScaleSweep struct {
	Base     *config.Config
	Param    string // "rotation" or "speed"
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	Value       float64
	Published   int
	Skipped     int
	MeanAngular float64
	MeanLinear  float64
}

// RunSweep executes a scale sweep. With a deterministic sensor the mean
// outputs grow linearly in the swept factor.
func RunSweep(ctx context.Context, sweep *ScaleSweep, registry *experiment.Registry, env experiment.Env) ([]SweepResult, error) {
	if sweep.Param != "rotation" && sweep.Param != "speed" {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.Param)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if base.Ticks == 0 && base.Duration == 0 {
		return nil, ErrUnbounded
	}

	log := logging.OrNop(env.Log)
	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.Min + float64(i)*step

		cfg := *base
		cfg.Sink.Kind = "none"
		if sweep.Param == "rotation" {
			cfg.Scale.Rotation = value
		} else {
			cfg.Scale.Speed = value
		}

		result, _, err := runOnce(ctx, registry, &cfg, env)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sweep.Param, value, err)
		}

		sr := SweepResult{Value: value, Published: len(result.Records), Skipped: result.Skipped}
		for _, cmd := range result.Commands() {
			sr.MeanAngular += cmd.Angular
			sr.MeanLinear += cmd.Linear
		}
		if n := float64(sr.Published); n > 0 {
			sr.MeanAngular /= n
			sr.MeanLinear /= n
		}
		results = append(results, sr)

		log.Debug("sweep step", zap.Int("step", i+1), zap.String("param", sweep.Param), zap.Float64("value", value))
	}

	return results, nil
}

func runOnce(ctx context.Context, registry *experiment.Registry, cfg *config.Config, env experiment.Env) (*sim.Result, storage.RunMetadata, error) {
	e, err := registry.Build(cfg, env)
	if err != nil {
		return nil, storage.RunMetadata{}, err
	}
	defer e.Close()

	result, err := e.Run(ctx)
	if err != nil {
		return nil, storage.RunMetadata{}, err
	}
	return result, e.Metadata(), nil
}
