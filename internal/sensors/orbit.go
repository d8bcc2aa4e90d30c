package sensors

import (
	"context"
	"math"

	"github.com/san-kum/polarctl/internal/motion"
)

// Orbit walks a circle of the given radius, advancing Step radians per read.
type Orbit struct {
	Radius float64
	Step   float64
	phase  float64
}

func NewOrbit(radius, step float64) *Orbit {
	return &Orbit{Radius: radius, Step: step}
}

func (o *Orbit) Read(ctx context.Context) (motion.Sample, error) {
	if err := ctx.Err(); err != nil {
		return motion.Sample{}, readErr(err)
	}
	s := motion.Sample{
		X: o.Radius * math.Cos(o.phase),
		Y: o.Radius * math.Sin(o.phase),
	}
	o.phase = math.Mod(o.phase+o.Step, 2*math.Pi)
	return s, nil
}
