package motion

import (
	"context"
	"fmt"
	"math"
)

// Sample is a 2-D offset reported by a position sensor.
type Sample struct {
	X float64
	Y float64
}

func (s Sample) IsValid() bool {
	for _, v := range [2]float64{s.X, s.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Heading is atan2(y, x) in (-π, π].
func (s Sample) Heading() float64 {
	return math.Atan2(s.Y, s.X)
}

// Range is the Euclidean magnitude of the offset.
func (s Sample) Range() float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y)
}

func (s Sample) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", s.X, s.Y)
}

// Command is the angular rate / linear speed pair sent to a publisher.
type Command struct {
	Angular float64
	Linear  float64
}

func (c Command) String() string {
	return fmt.Sprintf("%.3f, %.3f", c.Angular, c.Linear)
}

// Scale holds the gains applied to heading and range. It is fixed once a
// controller is built.
type Scale struct {
	Rotation float64
	Speed    float64
}

func DefaultScale() Scale {
	return Scale{Rotation: 1.0, Speed: 1.0}
}

func (s Scale) Validate() error {
	for name, v := range map[string]float64{"rotation": s.Rotation, "speed": s.Speed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidScale, name, v)
		}
	}
	return nil
}

type Sensor interface {
	Read(ctx context.Context) (Sample, error)
}

type Publisher interface {
	Publish(cmd Command)
}

type Observer interface {
	OnTick(tick int, s Sample, cmd Command)
	OnSkip(tick int, err error)
}

type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// SensorFunc adapts a plain function to the Sensor interface.
type SensorFunc func(ctx context.Context) (Sample, error)

func (f SensorFunc) Read(ctx context.Context) (Sample, error) {
	return f(ctx)
}

// PublisherFunc adapts a plain function to the Publisher interface.
type PublisherFunc func(cmd Command)

func (f PublisherFunc) Publish(cmd Command) {
	f(cmd)
}
