package sinks

import (
	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/motion"
)

// LogSink emits each command as a structured log entry.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: logging.OrNop(log)}
}

func (l *LogSink) Publish(cmd motion.Command) {
	l.log.Info("command",
		zap.Float64("angular", cmd.Angular),
		zap.Float64("linear", cmd.Linear),
	)
}
