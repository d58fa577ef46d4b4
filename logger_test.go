package eventengine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_SatisfiesLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	var _ Logger = l

	l.Info("hello", "key", "value")
	l.Warn("careful")
	l.Error("boom", "err", "oops")
	l.Debug("trace")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	l := NewSlogLogger(nil)
	assert.NotNil(t, l)
}
