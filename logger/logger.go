// Package logger provides a configurable logger across the hint engine
//
// Default logger writes to stdout with a console writer and timestamps;
// it can be replaced or silenced at process start, before any hint runs.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()
}

// SetOutput changes the output of the global logger
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allows a caller to override the global logger
func Set(l zerolog.Logger) {
	logger = l
}

// Disable the logger
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the global logger
func Logger() *zerolog.Logger {
	return &logger
}
