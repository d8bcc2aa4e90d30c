package sensors

import (
	"context"
	"fmt"

	"github.com/san-kum/polarctl/internal/motion"
)

// Replay serves recorded samples in order. Once exhausted it fails every
// read unless Loop is set.
type Replay struct {
	samples []motion.Sample
	Loop    bool
	pos     int
}

func NewReplay(samples []motion.Sample, loop bool) *Replay {
	cp := make([]motion.Sample, len(samples))
	copy(cp, samples)
	return &Replay{samples: cp, Loop: loop}
}

func (r *Replay) Read(ctx context.Context) (motion.Sample, error) {
	if err := ctx.Err(); err != nil {
		return motion.Sample{}, readErr(err)
	}
	if r.pos >= len(r.samples) {
		if !r.Loop || len(r.samples) == 0 {
			return motion.Sample{}, fmt.Errorf("%w: replay exhausted after %d samples", motion.ErrSensorRead, len(r.samples))
		}
		r.pos = 0
	}
	s := r.samples[r.pos]
	r.pos++
	return s, nil
}

func (r *Replay) Remaining() int {
	return len(r.samples) - r.pos
}
