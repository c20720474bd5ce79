package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	defer func() { os.Stdout = orig }()

	r, w, err := os.Pipe()
	require.NoError(t, err, "failed to create stdout pipe")
	os.Stdout = w

	fn()

	err = w.Close()
	require.NoError(t, err, "failed to close stdout pipe")
	out, err := io.ReadAll(r)
	require.NoError(t, err, "failed to read stdout pipe")

	return string(out)
}

func TestLogger_parseLevelString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"debug uppercase", "DEBUG", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "whatever", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevelString(tt.input)

			require.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_New(t *testing.T) {
	t.Run("production logs json", func(t *testing.T) {
		out := captureStdout(t, func() {
			l, err := New(EnvProduction, LevelInfo)
			require.NoError(t, err)
			l.Info("hello", "key", "value")
		})

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &record), "production log should be json")
		require.Equal(t, "hello", record["msg"])
		require.Equal(t, "value", record["key"])
	})

	t.Run("development logs text", func(t *testing.T) {
		out := captureStdout(t, func() {
			l, err := New(EnvDevelopment, LevelInfo)
			require.NoError(t, err)
			l.Info("hello", "key", "value")
		})

		require.Contains(t, out, "msg=hello")
		require.Contains(t, out, "key=value")
	})

	t.Run("unknown environment fails", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.Error(t, err)
	})
}

func TestLogger_LevelFiltering(t *testing.T) {
	out := captureStdout(t, func() {
		l := NewLogger(LevelWarn)
		l.Debug("too noisy")
		l.Info("still too noisy")
		l.Warn("important")
	})

	require.NotContains(t, out, "too noisy")
	require.Contains(t, out, "important")
}
