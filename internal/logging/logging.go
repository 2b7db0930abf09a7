// Package logging configures the zerolog logger used across onepm.
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = zerolog.WarnLevel

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name; empty means DefaultLevel.
	Level string
	// Verbose forces debug level.
	Verbose bool
	// Output receives log lines, normally stderr.
	Output io.Writer
	// Color enables ANSI colors in console output.
	Color bool
}

// New builds a console logger tagged with a fresh run id.
func New(cfg Config) zerolog.Logger {
	level := ParseLevel(cfg.Level)
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !cfg.Color,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("run_id", NewRunID()).
		Logger()
}

// ParseLevel converts a level name, falling back to DefaultLevel.
func ParseLevel(name string) zerolog.Level {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return DefaultLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return DefaultLevel
	}
	return level
}

// NewRunID returns a lowercase ULID identifying one invocation.
func NewRunID() string {
	return strings.ToLower(ulid.Make().String())
}

// ComponentLogger returns a child logger with the component field set.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
