package sinks

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/motion"
)

// Printer writes "angular, linear" lines with three decimals.
type Printer struct {
	w   io.Writer
	log *zap.Logger
}

func NewPrinter(w io.Writer, log *zap.Logger) *Printer {
	return &Printer{w: w, log: logging.OrNop(log)}
}

func (p *Printer) Publish(cmd motion.Command) {
	if _, err := fmt.Fprintf(p.w, "%.3f, %.3f\n", cmd.Angular, cmd.Linear); err != nil {
		p.log.Warn("printer write failed", zap.Error(err))
	}
}
