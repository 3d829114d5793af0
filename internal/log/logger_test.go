package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestAppLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLoggerWithConfig(&buf, true)

	logger.Debug("debug %d", 1)
	logger.Info("info %s", "msg")
	logger.Warn("warn")
	logger.Error("error")

	out := buf.String()
	for _, want := range []string{"[DEBUG] debug 1", "[INFO] info msg", "[WARN] warn", "[ERROR] error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestAppLogger_DebugSuppressedWithoutDebugMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLoggerWithConfig(&buf, false)

	logger.Debug("should not appear")
	logger.Info("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("debug output present despite debug mode off:\n%s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("info output missing:\n%s", out)
	}
}

func TestContainsPathTraversal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"debug.log", false},
		{"logs/debug.log", false},
		{"../etc/passwd", true},
		{"./debug.log", true},
		{"..\\windows", true},
	}

	for _, tt := range tests {
		if got := containsPathTraversal(tt.path); got != tt.want {
			t.Errorf("containsPathTraversal(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAppLogger_CloseNil(t *testing.T) {
	var logger *AppLogger
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger returned error: %v", err)
	}
}
