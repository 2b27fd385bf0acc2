package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marketpulse.log")
	if err := InitFile("info", path); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	Get().With("component", "test").Infow("refresh completed", "articles", 42)
	Get().Debugw("hidden")
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"refresh completed"`) || !strings.Contains(out, `"articles":42`) {
		t.Errorf("log missing entry: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log missing With field: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestGetFallback(t *testing.T) {
	set(nil)
	if Get() == nil {
		t.Fatal("Get returned nil")
	}
}

func TestNop(t *testing.T) {
	Nop().Infow("discarded", "k", "v")
}
