// Package logging provides the structured logger the CLI plugs into the
// calculation engine.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Logger adapts a phuslu logger to calculation.Logger.
type Logger struct {
	log log.Logger
}

// Options configures New.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string
	// Format is "console" (default) or "json".
	Format string
	// Writer defaults to stderr.
	Writer io.Writer
}

// New creates a logger from opts.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}

	var writer log.Writer
	if strings.EqualFold(opts.Format, "json") {
		writer = &log.IOWriter{Writer: w}
	} else {
		writer = &log.ConsoleWriter{Writer: w}
	}

	return &Logger{log: log.Logger{
		Level:      log.ParseLevel(strings.ToLower(level)),
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Writer:     writer,
	}}
}

func (l *Logger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
