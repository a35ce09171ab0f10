package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // Defaults to info
		{"", slog.LevelInfo},        // Defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer

	NewWithWriter(&jsonBuf, "info", "json").Info("hello", "k", "v")
	NewWithWriter(&textBuf, "info", "text").Info("hello", "k", "v")

	if !strings.HasPrefix(jsonBuf.String(), "{") {
		t.Errorf("expected JSON output, got %q", jsonBuf.String())
	}
	if !strings.Contains(textBuf.String(), "k=v") {
		t.Errorf("expected text output, got %q", textBuf.String())
	}
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "text")

	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn record, got %q", buf.String())
	}
}
