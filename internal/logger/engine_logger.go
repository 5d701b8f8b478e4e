package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger routes projection engine messages through logrus with a component field.
// It satisfies calculation.Logger.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// WithSession tags every engine message with a session id.
func (el *EngineLogger) WithSession(sessionID string) *EngineLogger {
	return &EngineLogger{Entry: el.Entry.WithField("session_id", sessionID)}
}
