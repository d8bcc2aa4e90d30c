package motion

import (
	"errors"
	"fmt"
)

// Domain errors for controller operations.
var (
	// ErrSensorRead indicates the sensor could not produce a sample.
	ErrSensorRead = errors.New("motion: sensor read failed")

	// ErrInvalidSample indicates a sensor reported success with NaN or Inf coordinates.
	ErrInvalidSample = errors.New("motion: invalid sample (NaN or Inf detected)")

	// ErrInvalidScale indicates a scale factor that is not a finite number.
	ErrInvalidScale = errors.New("motion: scale factor must be finite")
)

// TickError wraps an error with the tick it occurred on.
type TickError struct {
	Tick    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
