// Package logging is the ambient slog wrapper the engine and the request
// cache log through, grounded on makestatic-droplink's internal/log
// package: a small global logger with level/format options and a lazy
// stderr default so packages never need a nil check before logging.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level is an alias for slog.Level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options configures the global logger.
type Options struct {
	Level Level
	JSON  bool
}

var (
	mu   sync.RWMutex
	base *slog.Logger
)

// Init sets up the global logger. Safe to call multiple times.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(os.Stderr, opts)
}

func newLogger(w io.Writer, opts Options) *slog.Logger {
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}
	return slog.New(h)
}

// Default ensures there's always a usable logger, lazily initialized to
// stderr at info level.
func Default() *slog.Logger {
	mu.RLock()
	b := base
	mu.RUnlock()
	if b != nil {
		return b
	}
	Init(Options{Level: LevelInfo})
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a logger with a "component" field, the convention the cache
// tiers and the engine use to tag their log lines.
func Named(component string) *slog.Logger {
	return Default().With("component", component)
}

// ParseLevel maps a level name ("debug"/"info"/"warn"/"error") to a Level,
// defaulting to LevelInfo for unrecognized input.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
