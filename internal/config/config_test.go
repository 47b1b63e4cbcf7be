package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vart.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "alloc_limit: 4096\nprompt: \"> \"\nlog_level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AllocLimit != 4096 {
		t.Errorf("AllocLimit = %d, want 4096", cfg.AllocLimit)
	}
	if cfg.Prompt != "> " {
		t.Errorf("Prompt = %q, want %q", cfg.Prompt, "> ")
	}
	if cfg.History != Default().History {
		t.Errorf("History = %q, want the default", cfg.History)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", lvl)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad_yaml", "alloc_limit: [1", "parsing"},
		{"negative_limit", "alloc_limit: -1", "must not be negative"},
		{"bad_level", "log_level: loud", "unknown log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing explicit file should fail")
	}
}

func TestLoad_MissingDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Prompt != "vart> " {
		t.Errorf("Prompt = %q, want default", cfg.Prompt)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := Config{LogLevel: tt.in}.Level()
		if err != nil || got != tt.want {
			t.Errorf("Level(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
