package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/motion"
)

// Records grow past this on demand; Ticks alone may be arbitrarily large.
const maxPrealloc = 1024

// Runner fires the controller on a periodic trigger. Ticks run one at a
// time on the goroutine that called Run.
type Runner struct {
	ctrl       Controller
	newTrigger func(period time.Duration) Trigger
	metrics    []motion.Metric
	log        *zap.Logger
	now        func() time.Time

	// per-run state, written by the observer hook
	result *Result
	start  time.Time
}

func New(ctrl Controller, log *zap.Logger) *Runner {
	r := &Runner{
		ctrl:       ctrl,
		newTrigger: NewTickerTrigger,
		metrics:    make([]motion.Metric, 0),
		log:        logging.OrNop(log),
		now:        time.Now,
	}
	ctrl.AddObserver(r)
	return r
}

// WithTrigger replaces the ticker-backed trigger.
func (r *Runner) WithTrigger(fn func(period time.Duration) Trigger) *Runner {
	r.newTrigger = fn
	return r
}

func (r *Runner) AddMetric(m motion.Metric) {
	r.metrics = append(r.metrics, m)
	r.ctrl.AddObserver(m)
}

func (r *Runner) OnTick(tick int, s motion.Sample, cmd motion.Command) {
	if r.result == nil {
		return
	}
	r.result.Ticks++
	r.result.Records = append(r.result.Records, Record{
		Tick:    tick,
		Elapsed: r.now().Sub(r.start),
		Sample:  s,
		Command: cmd,
	})
}

func (r *Runner) OnSkip(tick int, err error) {
	if r.result == nil {
		return
	}
	r.result.Ticks++
	r.result.Skipped++
	r.log.Debug("tick skipped", zap.Int("tick", tick), zap.Error(err))
}

// Run ticks until cfg.Ticks ticks have been attempted, cfg.Duration has
// passed, or ctx is done. Zero limits mean unbounded.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.start = r.now()
	r.result = &Result{
		Records: make([]Record, 0, min(cfg.Ticks, maxPrealloc)),
		Metrics: make(map[string]float64),
	}
	res := r.result
	defer func() { r.result = nil }()

	trig := r.newTrigger(cfg.Period)
	defer trig.Stop()

	var deadline <-chan time.Time
	if cfg.Duration > 0 {
		timer := time.NewTimer(cfg.Duration)
		defer timer.Stop()
		deadline = timer.C
	}

	r.log.Info("run started",
		zap.Duration("period", cfg.Period),
		zap.Int("ticks", cfg.Ticks),
		zap.Duration("duration", cfg.Duration),
	)

	var err error
loop:
	for cfg.Ticks == 0 || res.Ticks < cfg.Ticks {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case <-deadline:
			break loop
		case <-trig.C():
		}

		r.ctrl.Tick(ctx)
	}

	r.finish(res)
	r.log.Info("run finished",
		zap.Int("ticks", res.Ticks),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, err
}

// RunOnce performs a single tick outside of any trigger.
func (r *Runner) RunOnce(ctx context.Context) (motion.Command, bool) {
	return r.ctrl.Tick(ctx)
}

func (r *Runner) finish(res *Result) {
	res.Elapsed = r.now().Sub(r.start)
	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Period <= 0 {
		return fmt.Errorf("period must be positive, got %s", cfg.Period)
	}
	if cfg.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", cfg.Ticks)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", cfg.Duration)
	}
	return nil
}
