// Package logging provides the levelled structured logger used across
// textcore. It is a thin layer over log/slog that adds the component and
// document fields the engine tags its records with.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures a Logger.
type Config struct {
	// Level is the minimum level: "debug", "info", "warn" or "error".
	Level string
	// Format is "text" (default) or "json".
	Format string
	// Output is where records are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix, if set, is added to every record as the "app" attribute.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
		Prefix: "textcore",
	}
}

// ParseLevel parses a level name. Unknown names yield slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is a structured logger. The zero value is not usable; use New or
// Discard. A nil *Logger discards everything.
type Logger struct {
	l *slog.Logger
}

// New creates a logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	l := slog.New(h)
	if cfg.Prefix != "" {
		l = l.With("app", cfg.Prefix)
	}
	return &Logger{l: l}
}

// FromSlog wraps an existing slog logger.
func FromSlog(l *slog.Logger) *Logger {
	return &Logger{l: l}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{l: slog.New(discardHandler{})}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{l: l.l.With(args...)}
}

// WithComponent returns a logger with the component attribute set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Enabled reports whether records at level are emitted.
func (l *Logger) Enabled(level slog.Level) bool {
	return l != nil && l.l.Enabled(context.Background(), level)
}

// Slog returns the underlying slog logger.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.New(discardHandler{})
	}
	return l.l
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *Logger) log(level slog.Level, msg string, args []any) {
	if l == nil {
		return
	}
	l.l.Log(context.Background(), level, msg, args...)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
