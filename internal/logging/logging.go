// Package logging configures the diagnostic logger.
//
// User-facing progress goes through internal/output. The zerolog logger set
// up here records what the runner does underneath: commands, paths, fallbacks.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where diagnostics go.
type Options struct {
	// Verbose enables debug output on the console.
	Verbose bool
	// File, if set, receives JSON log lines at debug level.
	File string
	// Console overrides the console destination (defaults to os.Stderr).
	Console io.Writer
	// NoColor disables ANSI colours in console output.
	NoColor bool
}

// The logger stays silent until Setup installs a destination.
func init() {
	Disable()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the global zerolog logger according to opts.
// The returned io.Closer releases the log file, if any.
func Setup(opts Options) (io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.Verbose {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		})
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if len(writers) == 0 {
		log.Logger = zerolog.Nop()
		return closer, nil
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
	return closer, nil
}

// Disable silences the global logger.
func Disable() {
	log.Logger = zerolog.Nop()
}
