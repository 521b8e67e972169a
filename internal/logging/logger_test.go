package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		assert.Equal(t, want, Level(), "LOG_LEVEL=%q", value)
	}
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h failingHandler) WithGroup(string) slog.Handler           { return h }

func TestMultiHandlerDeliversPastFailingSink(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(
		failingHandler{},
		slog.NewJSONHandler(&buf, nil),
	)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	err := multi.Handle(context.Background(), record)

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "hello")
}
