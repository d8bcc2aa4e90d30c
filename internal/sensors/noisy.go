package sensors

import (
	"context"
	"math/rand"

	"github.com/san-kum/polarctl/internal/motion"
)

// Noisy adds zero-mean Gaussian noise to another sensor's readings.
type Noisy struct {
	inner motion.Sensor
	Sigma float64
	rng   *rand.Rand
}

func NewNoisy(inner motion.Sensor, sigma float64, seed int64) *Noisy {
	return &Noisy{
		inner: inner,
		Sigma: sigma,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (n *Noisy) Read(ctx context.Context) (motion.Sample, error) {
	s, err := n.inner.Read(ctx)
	if err != nil {
		return s, err
	}
	s.X += n.rng.NormFloat64() * n.Sigma
	s.Y += n.rng.NormFloat64() * n.Sigma
	return s, nil
}
