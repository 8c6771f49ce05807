package log

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
)

var initialized atomic.Bool

// Setup installs the default slog handler, replacing any earlier one.
func Setup(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})

	slog.SetDefault(slog.New(logger))
	initialized.Store(true)
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
