// Package logging builds the zerolog logger used across arch-repro-status.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Format selects the log line encoding
type Format string

// Formats
const (
	FormatAuto    Format = "auto"
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds logger configuration options
type Config struct {
	// Quiet disables logging entirely
	Quiet bool

	// Verbosity raises the level: 1 for debug, 2 or more for trace
	Verbosity int

	// Format is auto, console or json. Auto picks console on a terminal.
	Format Format

	// Output defaults to stderr
	Output io.Writer

	// NoColor disables color in console mode
	NoColor bool
}

// DefaultConfig returns the configuration used without any flags
func DefaultConfig() Config {
	return Config{
		Format:  FormatAuto,
		Output:  os.Stderr,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// Level maps the quiet flag and verbosity count to a zerolog level
func Level(quiet bool, verbosity int) zerolog.Level {
	switch {
	case quiet:
		return zerolog.Disabled
	case verbosity >= 2:
		return zerolog.TraceLevel
	case verbosity == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger from cfg
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := Level(cfg.Quiet, cfg.Verbosity)

	logger := zerolog.New(writer(out, cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.TraceLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func writer(out io.Writer, cfg Config) io.Writer {
	format := Format(strings.ToLower(string(cfg.Format)))
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if IsTerminal(out) {
			format = FormatConsole
		}
	}

	if format == FormatConsole {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}
	return out
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
