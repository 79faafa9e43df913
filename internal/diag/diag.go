// Package diag records internal-error diagnostics. Sinks are advisory:
// they never block, never fail, and never abort the analysis that called
// them.
package diag

import (
	"log/slog"

	"github.com/google/uuid"

	"inscope/internal/shared/observability"
	"inscope/internal/syntax"
)

// Sink receives internal-error events with the offending node attached.
type Sink interface {
	InternalError(label string, node syntax.Node)
}

// LogSink writes diagnostics through slog and counts them per label.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) InternalError(label string, node syntax.Node) {
	observability.DiagnosticsTotal.WithLabelValues(label).Inc()

	attrs := []any{
		"event_id", uuid.NewString(),
		"label", label,
	}
	if node != nil {
		loc := node.Pos()
		attrs = append(attrs,
			"file", loc.File,
			"line", loc.Line,
			"column", loc.Column,
			"node", clip(node.Text(), 120),
		)
	}
	s.logger.Error("internal analysis error", attrs...)
}

// Discard is a Sink that drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) InternalError(string, syntax.Node) {}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
