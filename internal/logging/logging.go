// Package logging builds the structured loggers used across gmpe.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/gestao-mpe/gmpe/internal/config"
)

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Component string
	Output    io.Writer
}

// FromConfig maps the log section of gmpe.yaml onto a logger Config.
func FromConfig(c config.LogConfig, component string) Config {
	level, _ := c.SlogLevel()
	return Config{Level: level, Format: c.Format, Component: component, Output: os.Stderr}
}

// New creates a logger that tags every record with its component.
func New(c Config) *slog.Logger {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: c.Level}

	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if c.Component != "" {
		logger = logger.With("component", c.Component)
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component derives a child logger for a subsystem.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger.With("component", name)
}
