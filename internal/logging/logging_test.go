package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewWritesJSONWithBaseAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{App: "dailyop", Version: "test", Env: "development", Level: "info"})
	logger.Debug("hidden")
	logger.Info("hello", "indicator", "VPML")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"indicator":"VPML"`)
	assert.Contains(t, out, `"app":"dailyop"`)
}
