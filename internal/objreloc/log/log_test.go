package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupAndRecoverPanic(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)
	if !Initialized() {
		t.Fatal("Initialized() = false after Setup")
	}

	slog.Debug("parsed", "functions", 2)
	if !strings.Contains(buf.String(), "functions=2") {
		t.Errorf("debug record not written: %q", buf.String())
	}

	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	if !cleaned {
		t.Error("cleanup not called")
	}
	if !strings.Contains(buf.String(), "Panic in test") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestSetupReplacesHandler(t *testing.T) {
	var first, second bytes.Buffer
	Setup(&first, false)
	slog.Debug("suppressed")

	Setup(&second, true)
	slog.Debug("redefined", "name", "f")

	if first.Len() != 0 {
		t.Errorf("info-level handler wrote debug record: %q", first.String())
	}
	if !strings.Contains(second.String(), "name=f") {
		t.Errorf("debug handler did not receive record: %q", second.String())
	}
}
