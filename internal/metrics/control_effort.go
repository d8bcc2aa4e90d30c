package metrics

import (
	"math"

	"github.com/san-kum/polarctl/internal/motion"
)

// ControlEffort is the mean of |angular| + |linear| over published ticks.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) OnTick(tick int, s motion.Sample, cmd motion.Command) {
	c.sum += math.Abs(cmd.Angular) + math.Abs(cmd.Linear)
	c.samples++
}

func (c *ControlEffort) OnSkip(tick int, err error) {}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
