package cli

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stackdown/stackdown/internal/engine"
)

const timeRounding = 100 * time.Millisecond

// logEvent maps an engine event onto a leveled status line: escalations warn,
// failures error, everything else informs.
func logEvent(logger *logrus.Logger, evt engine.Event) {
	fields := logrus.Fields{"role": evt.Role}
	if evt.PID > 0 {
		fields["pid"] = evt.PID
	}
	entry := logger.WithFields(fields)
	if evt.Err != nil {
		entry = entry.WithError(evt.Err)
	}

	switch evt.Type {
	case engine.EventTypeFailed:
		entry.Error(evt.Message)
	case engine.EventTypeError, engine.EventTypeKilled:
		entry.Warn(evt.Message)
	default:
		entry.Info(evt.Message)
	}
}
