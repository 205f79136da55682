// Package logging builds the zerolog logger shared by the editor.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/milk9111/worldmap/config"
	"github.com/rs/zerolog"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "LOG_LEVEL"

// New creates a logger writing to out, or to stderr when out is nil. The
// "auto" format picks the console writer when out is a terminal.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := parseLevel(cfg.Level)
	if env := os.Getenv(EnvLevel); env != "" {
		level = parseLevel(env)
	}

	var w io.Writer = out
	if useConsole(cfg.Format, out) {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "console", "pretty":
		return true
	case "json":
		return false
	default:
		return IsTerminal(out)
	}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}
