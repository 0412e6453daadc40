package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_JSONWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Level: "info", Format: "json", Component: "api"}, &buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, 42)
	l.WithContext(ctx).WithError(errors.New("boom")).Info("borrow failed", slog.Uint64("book_id", 7))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "borrow failed", entry["msg"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(42), entry["user_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(7), entry["book_id"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Level: "warn", Format: "text"}, &buf)

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithContextWithoutFields(t *testing.T) {
	l := newWithWriter(Config{}, &bytes.Buffer{})
	assert.Same(t, l, l.WithContext(context.Background()))
	assert.Same(t, l, l.WithError(nil))
}
