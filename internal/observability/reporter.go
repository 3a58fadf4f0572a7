package observability

import (
	"github.com/rs/zerolog"

	"github.com/rendkit/ribflow/internal/ri"
)

// LogReporter surfaces recoverable stream conditions through zerolog.
// Reporting never alters stream control flow.
type LogReporter struct {
	log zerolog.Logger
}

func NewLogReporter(log zerolog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(kind ri.ErrorKind, msg string) {
	r.log.Warn().Str("kind", kind.String()).Msg(msg)
}
