package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xodimov/relaybot/internal/logger"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		wantDebug   bool
		wantWarning bool
	}{
		{"debug enables everything", "debug", true, true},
		{"info suppresses debug", "info", false, true},
		{"error suppresses warn", "error", false, false},
		{"uppercase accepted", "WARN", false, true},
		{"unknown falls back to info", "chatty", false, true},
		{"empty falls back to info", "", false, true},
	}

	ctx := context.Background()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := logger.NewLogger(tc.level, false)
			if got := log.Enabled(ctx, slog.LevelDebug); got != tc.wantDebug {
				t.Errorf("Enabled(debug) = %v, want %v", got, tc.wantDebug)
			}
			if got := log.Enabled(ctx, slog.LevelWarn); got != tc.wantWarning {
				t.Errorf("Enabled(warn) = %v, want %v", got, tc.wantWarning)
			}
		})
	}
}
