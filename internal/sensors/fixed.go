package sensors

import (
	"context"
	"fmt"

	"github.com/san-kum/polarctl/internal/motion"
)

const (
	DefaultX = 1.0
	DefaultY = 2.0
)

// Fixed reports the same offset on every read.
type Fixed struct {
	X, Y float64
}

func NewFixed(x, y float64) *Fixed {
	return &Fixed{X: x, Y: y}
}

func (f *Fixed) Read(ctx context.Context) (motion.Sample, error) {
	if err := ctx.Err(); err != nil {
		return motion.Sample{}, readErr(err)
	}
	return motion.Sample{X: f.X, Y: f.Y}, nil
}

func readErr(err error) error {
	return fmt.Errorf("%w: %w", motion.ErrSensorRead, err)
}
