package sensors

import (
	"context"

	"github.com/san-kum/polarctl/internal/integrators"
	"github.com/san-kum/polarctl/internal/motion"
)

// Oscillator simulates a target on a 2-D isotropic spring. Each read
// advances the target by Dt using the configured integrator.
//
// State layout: [x, y, vx, vy].
type Oscillator struct {
	Omega float64
	Dt    float64

	integ integrators.Integrator
	state integrators.State
	t     float64
}

func NewOscillator(x0, y0, omega, dt float64) *Oscillator {
	return &Oscillator{
		Omega: omega,
		Dt:    dt,
		integ: integrators.NewRK4(),
		// start with a tangential velocity so the path is an ellipse, not a line
		state: integrators.State{x0, y0, -omega * y0, omega * x0},
	}
}

// WithIntegrator swaps the stepping scheme.
func (o *Oscillator) WithIntegrator(integ integrators.Integrator) *Oscillator {
	o.integ = integ
	return o
}

func (o *Oscillator) derive(x integrators.State, t float64) integrators.State {
	w2 := o.Omega * o.Omega
	return integrators.State{x[2], x[3], -w2 * x[0], -w2 * x[1]}
}

func (o *Oscillator) Read(ctx context.Context) (motion.Sample, error) {
	if err := ctx.Err(); err != nil {
		return motion.Sample{}, readErr(err)
	}
	s := motion.Sample{X: o.state[0], Y: o.state[1]}
	o.state = o.integ.Step(o.derive, o.state, o.t, o.Dt)
	o.t += o.Dt
	return s, nil
}
