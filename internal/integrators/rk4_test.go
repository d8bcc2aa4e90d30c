package integrators

import (
	"math"
	"testing"
)

func harmonic(x State, t float64) State {
	return State{x[1], -x[0]}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(harmonic, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	x := State{1.0, 0.0}
	_ = integ.Step(harmonic, x, 0, 0.1)
	if x[0] != 1.0 || x[1] != 0.0 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()
	x := integ.Step(harmonic, State{1.0, 0.0}, 0, 0.1)
	if x[0] != 1.0 || math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("unexpected euler step: %v", x)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	rk4 := NewRK4()
	euler := NewEuler()

	xr := State{1.0, 0.0}
	xe := State{1.0, 0.0}
	dt := 0.05
	for i := 0; i < 200; i++ {
		xr = rk4.Step(harmonic, xr, float64(i)*dt, dt)
		xe = euler.Step(harmonic, xe, float64(i)*dt, dt)
	}

	want := math.Cos(200 * dt)
	if math.Abs(xr[0]-want) >= math.Abs(xe[0]-want) {
		t.Errorf("rk4 error %.6f not below euler error %.6f", math.Abs(xr[0]-want), math.Abs(xe[0]-want))
	}
}
