package sinks

import "github.com/san-kum/polarctl/internal/motion"

// Recorder keeps every published command in memory.
type Recorder struct {
	commands []motion.Command
}

func NewRecorder() *Recorder {
	return &Recorder{commands: make([]motion.Command, 0)}
}

func (r *Recorder) Publish(cmd motion.Command) {
	r.commands = append(r.commands, cmd)
}

// Commands returns a copy of what has been published so far.
func (r *Recorder) Commands() []motion.Command {
	out := make([]motion.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *Recorder) Len() int { return len(r.commands) }

func (r *Recorder) Reset() { r.commands = r.commands[:0] }
