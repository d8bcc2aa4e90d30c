// Package control provides the heading controller driven by the runner.
//
// [Polar] turns one position sample into one angular/linear command:
//
//	angular = Rotation * atan2(y, x)
//	linear  = Speed * sqrt(x² + y²)
//
// # Usage
//
//	ctrl := control.NewPolar(motion.Scale{Rotation: 0.5, Speed: 1.0}, sensor, sink)
//	ctrl.AddObserver(metrics.NewSkipRate())
//	// Tick is called once per timer fire
//	ctrl.Tick(ctx)
//
// A failed sensor read skips the tick: nothing is published and the caller
// only sees ok=false.
package control
