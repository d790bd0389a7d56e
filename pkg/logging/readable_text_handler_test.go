package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerFormatsLine(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(NewReadableTextHandler(&buf, nil))
	logger.Info("Refreshed release", slog.String("project", "keep"), slog.Int("platforms", 4))

	line := strings.TrimSpace(buf.String())
	parts := strings.Split(line, "|")
	assert.Len(parts, 5)
	assert.Equal("INFO", parts[2])
	assert.Equal("Refreshed release", parts[3])
	assert.Equal("project=keep, platforms=4", parts[4])
}

func TestHandlerRespectsLevel(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	assert.Empty(buf.String())

	logger = NewLogger(&buf, slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(buf.String(), "|DEBUG|shown")
}

func TestHandlerGroupsAndAttrs(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).
		With(slog.String("component", "cache")).
		WithGroup("entry").
		With(slog.String("key", "keep"))
	logger.Warn("Upstream unavailable", slog.String("error", "status 503"), slog.Group("limit", slog.Int("remaining", 0)))

	assert.Contains(buf.String(), `component=cache, entry.key=keep, entry.error="status 503", entry.limit.remaining=0`)
}

func TestHandlerWithDoesNotLeakBetweenLoggers(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	base := NewLogger(&buf, slog.LevelInfo).With(slog.String("a", "1"))
	first := base.With(slog.String("b", "2"))
	second := base.With(slog.String("c", "3"))
	first.Info("first")
	second.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(lines, 2)
	assert.True(strings.HasSuffix(lines[0], "a=1, b=2"))
	assert.True(strings.HasSuffix(lines[1], "a=1, c=3"))
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
