package eventengine

import (
	"log/slog"
	"os"
)

// SlogLogger adapts log/slog to the Logger interface. It is not
// installed automatically: an engine, hook or timer service given a nil
// logger skips logging.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger. Passing nil uses a new slog text handler
// writing to stderr.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}
