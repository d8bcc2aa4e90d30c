// Package motion provides the core types shared by the heading controller.
//
// The package defines the data that flows through one controller tick and
// the collaborator interfaces the tick depends on:
//
//   - [Sample]: a 2-D position offset read from a sensor
//   - [Command]: the angular/linear pair derived from a sample
//   - [Scale]: immutable gains applied to the derived pair
//   - [Sensor]: source of samples, may fail
//   - [Publisher]: fire-and-forget sink for commands
//   - [Observer]: per-tick notification hook used by metrics and the runner
//
// # Example
//
//	sensor := sensors.NewFixed(1, 2)
//	sink := sinks.NewPrinter(os.Stdout)
//	ctrl := control.NewPolar(motion.DefaultScale(), sensor, sink)
//	cmd, ok := ctrl.Tick(ctx)
//
// # Thread Safety
//
// Values in this package are plain data and safe to copy. Sensors and
// publishers are NOT assumed to be thread-safe; the runner drives a single
// tick at a time.
package motion
