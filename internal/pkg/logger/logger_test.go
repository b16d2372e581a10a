package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, got)
}

func TestInitRoutesSlogThroughZap(t *testing.T) {
	zl, err := Init("debug", "console")
	require.NoError(t, err)
	require.NotNil(t, zl)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	l := Named("test")
	assert.NotPanics(t, func() {
		l.Debug("debug message", "k", 1)
		l.Info("info message")
		l.Warn("warn message")
		l.Error("error message", "error", "boom")
	})
}
