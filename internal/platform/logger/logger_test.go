// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskgate/internal/config"
	"github.com/phrazzld/taskgate/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		got, ok := logger.ParseLevel(tc.name)
		assert.Equal(t, tc.want, got, tc.name)
		assert.Equal(t, tc.wantOK, ok, tc.name)
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hidden message")
	l.Warn("visible message", "task_id", "abc")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1, "info should be filtered at warn level")
	assert.Equal(t, "visible message", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["task_id"])

	// The configured logger becomes the process default
	slog.Warn("via default")
	logger.AssertLogContains(t, buf, "via default")
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), l.With("component", "test"))
	logger.FromContext(ctx).Info("scoped")
	logger.AssertLogContains(t, buf, `"component":"test"`)

	fallback, _ := logger.GetTestLogger(t)
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))
}

func TestTestLogBuffer_EntriesWithMessage(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	l.Info("task accepted", "task_id", "1")
	l.Info("task accepted", "task_id", "2")
	l.Debug("queue drained")

	entries, err := buf.EntriesWithMessage("task accepted")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[1]["task_id"])

	_, _ = buf.Write([]byte("not json\n"))
	_, err = buf.GetLogEntries()
	assert.ErrorContains(t, err, "log line 4")
}
