package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLoggerTo(buf, "debug", "json"), buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLoggerTo(&bytes.Buffer{}, "warn", "text")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLoggerTo(&bytes.Buffer{}, "nonsense", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestEngineLogger(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log).WithSession("abc")

	engineLogger.Debugf("age %d done", 42)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, "abc", logEntry["session_id"])
	assert.Equal(t, "age 42 done", logEntry["msg"])
}

func TestAPILoggerRequest(t *testing.T) {
	log, buf := setupTestLogger()
	NewAPILogger(log).LogRequest("POST", "/v1/montecarlo", 400, 1500*time.Microsecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "api", logEntry["component"])
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, float64(400), logEntry["status"])
	assert.Equal(t, 1.5, logEntry["duration_ms"])
}

func TestAPILoggerProjection(t *testing.T) {
	log, buf := setupTestLogger()
	age := 47
	NewAPILogger(log).LogProjection("s1", "baseline", &age, false)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(47), logEntry["freedom_age"])
	assert.Equal(t, true, logEntry["achieved"])

	buf.Reset()
	NewAPILogger(log).LogProjection("s1", "shock", nil, true)
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	_, present := logEntry["freedom_age"]
	assert.False(t, present)
}
