package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type implLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a new Logger instance writing to stdout.
// format is "text" for human-readable console output or "json".
func New(level, format string) Logger {
	return newWithWriter(level, format, os.Stdout)
}

// NewWithWriter creates a Logger writing to w. Interactive runs point it at a
// log file so console output does not interfere with the progress display.
func NewWithWriter(level, format string, w io.Writer) Logger {
	return newWithWriter(level, format, w)
}

func newWithWriter(level, format string, w io.Writer) *implLogger {
	lvl := parseLevel(level)

	out := w
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true}
	}

	return &implLogger{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
		level:  lvl,
	}
}

// parseLevel maps the configured level name; unknown names default to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.level
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.DebugLevel) {
		l.logger.Debug().Msgf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.InfoLevel) {
		l.logger.Info().Msgf(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.WarnLevel) {
		l.logger.Warn().Msgf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.ErrorLevel) {
		l.logger.Error().Msgf(msg, args...)
	}
}

// Nop returns a Logger that discards everything. Used by tests and --quiet runs.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop(), level: zerolog.Disabled}
}
