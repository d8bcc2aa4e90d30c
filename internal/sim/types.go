package sim

import (
	"context"
	"time"

	"github.com/san-kum/polarctl/internal/motion"
)

// Controller is what the runner drives once per trigger fire.
type Controller interface {
	Tick(ctx context.Context) (motion.Command, bool)
	AddObserver(o motion.Observer)
}

// Trigger delivers the periodic fires that start ticks.
type Trigger interface {
	C() <-chan time.Time
	Stop()
}

type tickerTrigger struct {
	t *time.Ticker
}

func NewTickerTrigger(period time.Duration) Trigger {
	return &tickerTrigger{t: time.NewTicker(period)}
}

func (t *tickerTrigger) C() <-chan time.Time { return t.t.C }
func (t *tickerTrigger) Stop()               { t.t.Stop() }

type Config struct {
	Period   time.Duration
	Ticks    int
	Duration time.Duration
}

func DefaultConfig() Config {
	return Config{
		Period: 100 * time.Millisecond,
	}
}

// Record is one published tick.
type Record struct {
	Tick    int
	Elapsed time.Duration
	Sample  motion.Sample
	Command motion.Command
}

type Result struct {
	Records []Record
	Ticks   int
	Skipped int
	Elapsed time.Duration
	Metrics map[string]float64
}

func (r *Result) Commands() []motion.Command {
	out := make([]motion.Command, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.Command
	}
	return out
}

func (r *Result) Samples() []motion.Sample {
	out := make([]motion.Sample, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.Sample
	}
	return out
}
