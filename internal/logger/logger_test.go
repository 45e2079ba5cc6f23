package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debug := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warn := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	log := slog.New(NewMultiHandler(debug, warn)).With("user.id", 7)
	log.Info("task created")
	log.Warn("ignoring change")

	assert.Contains(t, debugBuf.String(), "task created")
	assert.Contains(t, debugBuf.String(), "ignoring change")
	assert.NotContains(t, warnBuf.String(), "task created")
	assert.Contains(t, warnBuf.String(), "ignoring change")
	assert.Contains(t, warnBuf.String(), "user.id=7")
}

func TestMultiHandler_Enabled(t *testing.T) {
	warn := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	h := NewMultiHandler(warn)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
