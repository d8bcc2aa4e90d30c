package control

import (
	"context"
	"fmt"

	"github.com/san-kum/polarctl/internal/motion"
)

type Polar struct {
	scale     motion.Scale
	sensor    motion.Sensor
	publisher motion.Publisher
	observers []motion.Observer
	tick      int
}

func NewPolar(scale motion.Scale, sensor motion.Sensor, publisher motion.Publisher) *Polar {
	return &Polar{
		scale:     scale,
		sensor:    sensor,
		publisher: publisher,
		observers: make([]motion.Observer, 0),
	}
}

func (p *Polar) AddObserver(o motion.Observer) { p.observers = append(p.observers, o) }

// Scale returns the gains captured at construction.
func (p *Polar) Scale() motion.Scale { return p.scale }

// Compute is the pure sample-to-command transform.
func (p *Polar) Compute(s motion.Sample) motion.Command {
	return motion.Command{
		Angular: p.scale.Rotation * s.Heading(),
		Linear:  p.scale.Speed * s.Range(),
	}
}

// Tick reads one sample and publishes the derived command. It reports
// ok=false when the read failed; in that case nothing was published.
func (p *Polar) Tick(ctx context.Context) (motion.Command, bool) {
	p.tick++
	n := p.tick

	s, err := p.sensor.Read(ctx)
	if err == nil && !s.IsValid() {
		err = fmt.Errorf("%w: %v", motion.ErrInvalidSample, s)
	}
	if err != nil {
		for _, obs := range p.observers {
			obs.OnSkip(n, &motion.TickError{Tick: n, Wrapped: err})
		}
		return motion.Command{}, false
	}

	cmd := p.Compute(s)
	p.publisher.Publish(cmd)

	for _, obs := range p.observers {
		obs.OnTick(n, s, cmd)
	}
	return cmd, true
}

// Ticks returns how many ticks have been attempted.
func (p *Polar) Ticks() int { return p.tick }
