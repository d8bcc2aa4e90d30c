// Package sensors provides simulated position sensors.
//
// Base sensors ([Fixed], [Orbit], [Oscillator], [Replay]) produce samples;
// wrappers ([Noisy], [Flaky]) alter another sensor's output. Every sensor
// reports failure through an error wrapping [motion.ErrSensorRead].
package sensors
