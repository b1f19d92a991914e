package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withObserver(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	previous := log
	setLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(helperCallerSkip)))
	t.Cleanup(func() { setLogger(previous) })
	return logs
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "", formatMessage())
	assert.Equal(t, "plain", formatMessage("plain"))
	assert.Equal(t, "[Ingestion] loaded 3 rows", formatMessage("[Ingestion] loaded %d rows", 3))
	assert.Equal(t, "42", formatMessage(42))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestLogMessage_CarriesRequestID(t *testing.T) {
	logs := withObserver(t)

	ctx := WithRequestID(context.Background(), "req-123")
	Info(ctx, "[Loan] created loan %d", 9)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "[Loan] created loan 9", entries[0].Message)
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	}
	assert.Equal(t, "req-123", RequestID(ctx))
}

func TestLogMessage_WithoutContext(t *testing.T) {
	logs := withObserver(t)

	Warn("[Cache] unavailable: %v", "refused")
	Error("boom")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Empty(t, entries[0].ContextMap())
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

func TestCallerPointsAtLoggingSite(t *testing.T) {
	logs := withObserver(t)

	Info("[Test] helper")
	L().Info("[Test] typed")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.True(t, strings.HasSuffix(entries[0].Caller.File, "logger_test.go"), entries[0].Caller.File)
		assert.True(t, strings.HasSuffix(entries[1].Caller.File, "logger_test.go"), entries[1].Caller.File)
	}
}

func TestInit(t *testing.T) {
	previous := log
	t.Cleanup(func() { setLogger(previous) })

	assert.NoError(t, Init("debug", "console"))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}
