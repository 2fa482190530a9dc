package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInitWriter_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", true)
	t.Cleanup(func() { InitWriter(&bytes.Buffer{}, "info", false) })

	Info("hidden")
	Warn("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, float64(1), rec["k"])
}

func TestWithContext_AddsSession(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", true)
	t.Cleanup(func() { InitWriter(&bytes.Buffer{}, "info", false) })

	ctx := ContextWithSession(context.Background(), "abc")
	WithContext(ctx).Info("tagged")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc", rec["session"])

	buf.Reset()
	WithContext(context.Background()).Info("plain")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "plain", rec["msg"])
}
