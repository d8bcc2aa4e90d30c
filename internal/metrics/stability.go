package metrics

import (
	"math"

	"github.com/san-kum/polarctl/internal/motion"
)

// SkipRate is the fraction of ticks dropped because the sensor read failed.
type SkipRate struct {
	name    string
	skipped int
	total   int
}

func NewSkipRate() *SkipRate {
	return &SkipRate{name: "skip_rate"}
}

func (s *SkipRate) Name() string { return s.name }

func (s *SkipRate) OnTick(tick int, _ motion.Sample, _ motion.Command) { s.total++ }

func (s *SkipRate) OnSkip(tick int, err error) {
	s.total++
	s.skipped++
}

func (s *SkipRate) Value() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.skipped) / float64(s.total)
}

func (s *SkipRate) Reset() {
	s.skipped = 0
	s.total = 0
}

// PeakSpeed tracks the largest linear command.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) OnTick(tick int, _ motion.Sample, cmd motion.Command) {
	p.peak = math.Max(p.peak, math.Abs(cmd.Linear))
}

func (p *PeakSpeed) OnSkip(int, error) {}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// HeadingSpread is the population standard deviation of angular commands.
// Welford's update keeps it stable over long runs.
type HeadingSpread struct {
	name string
	n    int
	mean float64
	m2   float64
}

func NewHeadingSpread() *HeadingSpread {
	return &HeadingSpread{name: "heading_spread"}
}

func (h *HeadingSpread) Name() string { return h.name }

func (h *HeadingSpread) OnTick(tick int, _ motion.Sample, cmd motion.Command) {
	h.n++
	delta := cmd.Angular - h.mean
	h.mean += delta / float64(h.n)
	h.m2 += delta * (cmd.Angular - h.mean)
}

func (h *HeadingSpread) OnSkip(int, error) {}

func (h *HeadingSpread) Value() float64 {
	if h.n == 0 {
		return 0
	}
	return math.Sqrt(h.m2 / float64(h.n))
}

func (h *HeadingSpread) Reset() {
	h.n = 0
	h.mean = 0
	h.m2 = 0
}

// Defaults returns the metric set attached to every run.
func Defaults() []motion.Metric {
	return []motion.Metric{
		NewControlEffort(),
		NewSkipRate(),
		NewPeakSpeed(),
		NewHeadingSpread(),
	}
}
