// Package logging provides the charm logger objreloc reports progress with.
// It is configured from OBJRELOC_LOG_* environment variables.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	// Set log level from environment
	level := os.Getenv("OBJRELOC_LOG_LEVEL")
	switch level {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "warn":
		lg.SetLevel(log.WarnLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	default:
		lg.SetLevel(log.InfoLevel)
	}

	// Set prefix from environment
	prefix := os.Getenv("OBJRELOC_LOG_PREFIX")
	if prefix == "" {
		prefix = "objreloc "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger writing to w, configured from environment variables
// OBJRELOC_LOG_LEVEL: debug, info, warn, error (default: info)
// OBJRELOC_LOG_PREFIX: prefix for log messages (default: "objreloc ")
// OBJRELOC_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of w
func NewLogger(w io.Writer) *LoggerCloser {
	output := w

	// Check if we should log to file
	if os.Getenv("OBJRELOC_LOG_TO_FILE") == "1" {
		// Create timestamped log file
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("objreloc-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to w
	}

	return NewLoggerWithWriter(output)
}

// NewDebugLogger is NewLogger forced to debug level, for --debug.
func NewDebugLogger(w io.Writer) *LoggerCloser {
	lc := NewLogger(w)
	lc.SetLevel(log.DebugLevel)
	return lc
}
