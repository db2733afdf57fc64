package logging

import (
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(tt.level)
			if logger == nil || logger.Logger == nil {
				t.Fatal("expected logger")
			}
			if !logger.Enabled(nil, tt.enabled) {
				t.Fatalf("expected level %v enabled for %q", tt.enabled, tt.level)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("expected logger")
	}
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Fatal("debug should be disabled by default")
	}
}
