package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestSlogAdapterFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Info("run started session_id=%s days=%d", "s1", 3)

	line := decodeLine(t, &buf)
	assert.Equal(t, "run started session_id=s1 days=3", line["msg"])
	assert.NotContains(t, buf.String(), "BADKEY")
}

func TestSlogAdapterPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Warn("no operands here")

	line := decodeLine(t, &buf)
	assert.Equal(t, "no operands here", line["msg"])
}

func TestPlannerLoggerAttachesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})
	logger = logger.WithComponent("orchestrator").WithSession("s1", "r1").WithContext("user_id", "alice")

	logger.Info("planning %d days", 3)

	line := decodeLine(t, &buf)
	assert.Equal(t, "planning 3 days", line["msg"])
	assert.Equal(t, "orchestrator", line["component"])
	assert.Equal(t, "s1", line["session_id"])
	assert.Equal(t, "r1", line["run_id"])
	assert.Equal(t, "alice", line["user_id"])
}

func TestPlannerLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestLogStageExecution(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf}).WithSession("s1", "r1")

	logger.LogStageExecution("meal_planning", 25*time.Millisecond, "ok", nil)

	line := decodeLine(t, &buf)
	assert.Equal(t, "Stage execution completed", line["msg"])
	assert.Equal(t, "meal_planning", line["stage"])
	assert.Equal(t, "ok", line["status"])
	assert.Equal(t, "s1", line["session_id"])
	assert.NotContains(t, line, "error")
}

func TestLogStageExecutionFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogStageExecution("recipe_search", time.Millisecond, "failed", errors.New("catalog down"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "Stage execution failed", line["msg"])
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "catalog down", line["error"])
}

func TestLogPortCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogPortCall("text_completion", 5*time.Millisecond, false, errors.New("timeout"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "Port call failed", line["msg"])
	assert.Equal(t, "text_completion", line["port"])
	assert.Equal(t, false, line["success"])
	assert.Equal(t, "timeout", line["error"])
}

func TestStartTimer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	done := logger.StartTimer("plan_meals")
	done()

	line := decodeLine(t, &buf)
	assert.Equal(t, "Operation completed", line["msg"])
	assert.Equal(t, "plan_meals", line["operation"])
	assert.Contains(t, line, "duration")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("anything"))
}

func TestNoOpLoggerDiscards(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("ignored %d", 1)
	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored %v", errors.New("x"))
}
