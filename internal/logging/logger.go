// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package logging provides centralized zerolog-based logging for GiftGenie.
//
// Initialize once at startup, then use the package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("component", "enrich").Msg("pipeline ready")
//
// Components that want their own sub-logger should call Logger() and add
// fields with With(); the enrichment pipeline does this to tag every line
// with its run ID.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Output is the writer for log output. Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var (
	mu     sync.RWMutex
	logger = newLogger(DefaultConfig())
)

// Init configures the global logger. Safe to call multiple times; the last
// call wins. Components holding a sub-logger from an earlier Logger() call
// keep their old settings.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(cfg)
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// parseLevel maps a level string to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger for building sub-loggers.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Trace starts a trace-level log event.
func Trace() *zerolog.Event { l := Logger(); return l.Trace() }

// Debug starts a debug-level log event.
func Debug() *zerolog.Event { l := Logger(); return l.Debug() }

// Info starts an info-level log event.
func Info() *zerolog.Event { l := Logger(); return l.Info() }

// Warn starts a warn-level log event.
func Warn() *zerolog.Event { l := Logger(); return l.Warn() }

// Error starts an error-level log event.
func Error() *zerolog.Event { l := Logger(); return l.Error() }

// Fatal starts a fatal-level log event. The event's Msg call exits the
// process.
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }
