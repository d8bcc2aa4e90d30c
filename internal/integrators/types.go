package integrators

// State is the flat vector stepped by an integrator.
type State []float64

// Derivative returns dX/dt at (x, t).
type Derivative func(x State, t float64) State

type Integrator interface {
	Step(f Derivative, x State, t, dt float64) State
}
