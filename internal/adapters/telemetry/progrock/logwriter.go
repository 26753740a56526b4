package progrock

import (
	"sync/atomic"

	"github.com/vito/progrock"
	"go.trai.ch/shelf/internal/core/ports"
)

// LogWriter is a progrock.Writer that reports finished vertices to a logger.
// Failures are logged at warn level, everything else at debug level.
type LogWriter struct {
	log    ports.Logger
	closed atomic.Bool
}

// NewLogWriter creates a LogWriter reporting to log.
func NewLogWriter(log ports.Logger) *LogWriter {
	return &LogWriter{log: log}
}

// WriteStatus logs every vertex of update that has completed.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	if w.closed.Load() {
		return nil
	}
	for _, v := range update.GetVertexes() {
		if v.GetCompleted() == nil {
			continue
		}
		duration := v.GetCompleted().AsTime().Sub(v.GetStarted().AsTime())

		switch {
		case v.GetError() != "":
			w.log.Warn("vertex failed", "name", v.GetName(), "duration", duration, "error", v.GetError())
		case v.GetCanceled():
			w.log.Debug("vertex canceled", "name", v.GetName(), "duration", duration)
		case v.GetCached():
			w.log.Debug("vertex cached", "name", v.GetName(), "duration", duration)
		default:
			w.log.Debug("vertex completed", "name", v.GetName(), "duration", duration)
		}
	}
	return nil
}

// Close stops reporting. Later updates are dropped.
func (w *LogWriter) Close() error {
	w.closed.Store(true)
	return nil
}
