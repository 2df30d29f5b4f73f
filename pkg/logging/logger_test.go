package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "icons", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.EqualValues(t, 3, record["icons"])
}

func TestNewLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "info", Pretty: true, Output: &buf})

	logger.Info("Server listening", "addr", ":3000")

	out := buf.String()
	assert.Contains(t, out, "Server listening")
	assert.Contains(t, out, "addr=")
	assert.Contains(t, out, ":3000")
	assert.NotContains(t, out, `"msg"`)
}
