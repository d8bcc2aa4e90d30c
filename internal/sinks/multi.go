package sinks

import "github.com/san-kum/polarctl/internal/motion"

// Multi forwards each command to every publisher in order.
type Multi []motion.Publisher

func NewMulti(pubs ...motion.Publisher) Multi {
	out := make(Multi, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m Multi) Publish(cmd motion.Command) {
	for _, p := range m {
		p.Publish(cmd)
	}
}
