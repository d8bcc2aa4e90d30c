// Package viz provides terminal views of a running heading controller.
//
// The live view is a Bubble Tea program that ticks the controller on its
// own timer and shows:
//
//   - a Braille radar with the latest offset and heading ray
//   - last command, tick and skip counters
//   - rolling asciigraph plots of angular and linear output
//
// # Key Bindings
//
//	Space - Pause/Resume ticking
//	R     - Clear history
//	Q     - Quit
package viz
