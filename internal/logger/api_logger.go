package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// APILogger provides dedicated logging for the projection API.
type APILogger struct {
	*logrus.Entry
}

// NewAPILogger creates a new API logger.
func NewAPILogger(baseLogger *logrus.Logger) *APILogger {
	return &APILogger{
		Entry: baseLogger.WithField("component", "api"),
	}
}

// LogRequest logs a completed HTTP request.
func (al *APILogger) LogRequest(method, path string, status int, duration time.Duration) {
	entry := al.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	})
	switch {
	case status >= 500:
		entry.Error("Request failed")
	case status >= 400:
		entry.Warn("Request rejected")
	default:
		entry.Info("Request completed")
	}
}

// LogSession logs a session lifecycle event.
func (al *APILogger) LogSession(sessionID, event string) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"event_type": event,
	}).Info("Session event")
}

// LogProjection logs the outcome of a projection run.
func (al *APILogger) LogProjection(sessionID, operation string, freedomAge *int, shockApplied bool) {
	fields := logrus.Fields{
		"session_id":    sessionID,
		"operation":     operation,
		"shock_applied": shockApplied,
		"achieved":      freedomAge != nil,
	}
	if freedomAge != nil {
		fields["freedom_age"] = *freedomAge
	}
	al.WithFields(fields).Info("Projection computed")
}
