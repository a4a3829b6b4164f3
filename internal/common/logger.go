// Package common holds process-wide helpers shared by the commands.
package common

import (
	"io"
	"strings"

	"github.com/phuslu/log"
)

// NewLogger returns a console logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLogger(level string, w io.Writer) *log.Logger {
	return &log.Logger{
		Level: parseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:         w,
			EndWithMessage: true,
		},
	}
}

// NewNoOpLogger returns a logger that discards everything.
func NewNoOpLogger() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
