package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		prefix    string
		wantDebug bool
		wantInfo  bool
		wantPre   string
	}{
		{name: "default", wantInfo: true, wantPre: "objreloc"},
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true, wantPre: "objreloc"},
		{name: "error only", level: "error", wantPre: "objreloc"},
		{name: "custom prefix", prefix: "test ", wantInfo: true, wantPre: "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OBJRELOC_LOG_LEVEL", tt.level)
			t.Setenv("OBJRELOC_LOG_PREFIX", tt.prefix)

			var buf bytes.Buffer
			lg := NewLoggerWithWriter(&buf)
			lg.Debug("debug message")
			lg.Info("info message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v\n%s", got, tt.wantInfo, out)
			}
			if tt.wantInfo && !strings.Contains(out, tt.wantPre) {
				t.Errorf("missing prefix %q in %q", tt.wantPre, out)
			}
			if err := lg.Close(); err != nil {
				t.Errorf("Close() = %v", err)
			}
		})
	}
}

func TestNewDebugLoggerWritesToWriter(t *testing.T) {
	t.Setenv("OBJRELOC_LOG_LEVEL", "")
	t.Setenv("OBJRELOC_LOG_TO_FILE", "")

	var buf bytes.Buffer
	lg := NewDebugLogger(&buf)
	lg.Debug("loaded object", "functions", 2)
	if !strings.Contains(buf.String(), "loaded object") {
		t.Errorf("debug message not written: %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("NewLogger should default to info level, got %q", buf.String())
	}
}
