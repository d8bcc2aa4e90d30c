package sensors

import (
	"context"
	"fmt"

	"github.com/san-kum/polarctl/internal/motion"
)

// Flaky fails every Nth read of the wrapped sensor. N <= 0 never fails.
type Flaky struct {
	inner motion.Sensor
	N     int
	reads int
}

func NewFlaky(inner motion.Sensor, every int) *Flaky {
	return &Flaky{inner: inner, N: every}
}

func (f *Flaky) Read(ctx context.Context) (motion.Sample, error) {
	f.reads++
	if f.N > 0 && f.reads%f.N == 0 {
		return motion.Sample{}, fmt.Errorf("%w: injected failure on read %d", motion.ErrSensorRead, f.reads)
	}
	return f.inner.Read(ctx)
}
