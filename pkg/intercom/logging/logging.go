package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

const redactedPlaceholder = "[redacted]"

// Logger is the subset of structured logging used by the runtime. It is
// small enough for applications to adapt their own logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil binds to
// slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// NewZerolog returns a Logger that writes through zl. Arguments follow the
// slog convention: alternating keys and values, or slog.Attr values.
func NewZerolog(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, args ...any) { l.zl.Debug().Fields(fields(args)).Msg(msg) }
func (l *zerologLogger) Info(msg string, args ...any)  { l.zl.Info().Fields(fields(args)).Msg(msg) }
func (l *zerologLogger) Warn(msg string, args ...any)  { l.zl.Warn().Fields(fields(args)).Msg(msg) }
func (l *zerologLogger) Error(msg string, args ...any) { l.zl.Error().Fields(fields(args)).Msg(msg) }

func (l *zerologLogger) With(args ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields(args)).Logger()}
}

// fields flattens slog-style arguments into a zerolog field map.
func fields(args []any) map[string]any {
	out := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case slog.Attr:
			out[a.Key] = a.Value.Any()
		case string:
			if i+1 < len(args) {
				out[a] = args[i+1]
				i++
			} else {
				out["!BADKEY"] = a
			}
		default:
			out["!BADKEY"] = fmt.Sprint(a)
		}
	}
	return out
}

// ParseLevel maps a configuration level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", name)
}

// ZerologLevel converts a slog level to the matching zerolog level.
func ZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Redacted marks an attribute whose value was intentionally left out, such as
// the text of a string payload crossing the boundary.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted value.
func Placeholder() string {
	return redactedPlaceholder
}
