// Package logger builds the zerolog logger used to trace a generation pass.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// VerboseEnv forces debug tracing when set to a true value
const VerboseEnv = "ROUTECTL_VERBOSE"

var callerMarshalOnce sync.Once

// New creates a logger writing to stderr with the specified level.
// If pretty is true, output is formatted for human readability.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, pretty)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			base := filepath.Base(file)
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + base + ":" + strconv.Itoa(line)
			}
			return base + ":" + strconv.Itoa(line)
		}
	})

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger()

	return l.Level(ParseLevel(level))
}

// ParseLevel resolves a level name, honoring ROUTECTL_VERBOSE.
// Unknown names fall back to warn.
func ParseLevel(level string) zerolog.Level {
	if verbose, err := strconv.ParseBool(os.Getenv(VerboseEnv)); err == nil && verbose {
		return zerolog.DebugLevel
	}
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return zLevel
}

// Nop returns a disabled logger
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
