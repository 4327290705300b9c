package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := len(cfg.Freqs()); got != 7 {
		t.Fatalf("%d pitches, want 7", got)
	}
	if got := strings.Join(cfg.Labels(), ""); got != "5612356" {
		t.Fatalf("labels %q", got)
	}
	if cfg.ClipDuration() != 200*time.Millisecond {
		t.Fatalf("clip %v", cfg.ClipDuration())
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tempo != 120 || cfg.Steps != 15 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "go-pentaseq")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"tempo": 90, "steps": 16}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tempo != 90 || cfg.Steps != 16 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// untouched fields keep defaults
	if cfg.MaxTempo != 600 || len(cfg.Pitches) != 7 || cfg.Audio.SampleRate != 48000 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"syntax":     `{"tempo": `,
		"no pitches": `{"pitches": []}`,
		"bad freq":   `{"pitches": [{"label": "x", "freq": 0}]}`,
		"steps":      `{"steps": 0}`,
		"tempo":      `{"minTempo": 700}`,
		"rate":       `{"audio": {"enabled": true, "sampleRate": 0, "clipMillis": 200}}`,
		"channel":    `{"midi": {"channel": 17}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Fatalf("expected error for %s", body)
			}
		})
	}
}
