package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// New returns a logger writing to w (stderr when nil). Unknown levels fall back to info.
func New(w io.Writer, level string) *charmlog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
	})
}

// Discard is for tests and callers that do not want diagnostics.
func Discard() *charmlog.Logger {
	return charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel})
}
