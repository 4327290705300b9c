package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PitchConfig is one grid row: a label for the UI and a frequency in Hz.
type PitchConfig struct {
	Label string  `json:"label"`
	Freq  float64 `json:"freq"`
}

// AudioConfig controls the speaker output
type AudioConfig struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sampleRate"`
	ClipMillis int  `json:"clipMillis"`
}

// MIDIConfig controls the optional MIDI mirror and Launchpad surface
type MIDIConfig struct {
	OutputPort  string `json:"outputPort,omitempty"` // empty = no note output
	Channel     int    `json:"channel,omitempty"`    // 1-16
	AutoConnect bool   `json:"autoConnect"`          // pick up Launchpads as they appear
}

// Config is the main configuration structure
type Config struct {
	Tempo    int           `json:"tempo"`
	MinTempo int           `json:"minTempo"`
	MaxTempo int           `json:"maxTempo"`
	Steps    int           `json:"steps"`
	Pitches  []PitchConfig `json:"pitches"`
	Audio    AudioConfig   `json:"audio"`
	MIDI     MIDIConfig    `json:"midi"`
	Palette  string        `json:"palette,omitempty"` // path to a GIMP .gpl file
	Debug    bool          `json:"debug,omitempty"`
}

// DefaultConfig returns the reference setup: sol la do re mi sol la over
// 15 steps at 120 BPM.
func DefaultConfig() *Config {
	return &Config{
		Tempo:    120,
		MinTempo: 60,
		MaxTempo: 600,
		Steps:    15,
		Pitches: []PitchConfig{
			{Label: "5", Freq: 392},
			{Label: "6", Freq: 440},
			{Label: "1", Freq: 523},
			{Label: "2", Freq: 587},
			{Label: "3", Freq: 659},
			{Label: "5", Freq: 392 * 2},
			{Label: "6", Freq: 440 * 2},
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 48000,
			ClipMillis: 200,
		},
		MIDI: MIDIConfig{
			Channel:     1,
			AutoConnect: true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pentaseq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns where debug logging goes when enabled
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Fields missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the sequencer can't run without.
func (c *Config) Validate() error {
	if len(c.Pitches) == 0 {
		return errors.New("no pitches configured")
	}
	for i, p := range c.Pitches {
		if p.Freq <= 0 {
			return fmt.Errorf("pitch %d (%q): frequency must be positive", i, p.Label)
		}
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.MinTempo <= 0 || c.MinTempo > c.MaxTempo {
		return fmt.Errorf("bad tempo range %d-%d", c.MinTempo, c.MaxTempo)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.ClipMillis <= 0 {
		return fmt.Errorf("clip length must be positive, got %dms", c.Audio.ClipMillis)
	}
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi channel must be 1-16, got %d", c.MIDI.Channel)
	}
	return nil
}

// Freqs returns the pitch frequencies in row order.
func (c *Config) Freqs() []float64 {
	freqs := make([]float64, len(c.Pitches))
	for i, p := range c.Pitches {
		freqs[i] = p.Freq
	}
	return freqs
}

// Labels returns the pitch labels in row order.
func (c *Config) Labels() []string {
	labels := make([]string, len(c.Pitches))
	for i, p := range c.Pitches {
		labels[i] = p.Label
	}
	return labels
}

// ClipDuration returns the length of each synthesized clip.
func (c *Config) ClipDuration() time.Duration {
	return time.Duration(c.Audio.ClipMillis) * time.Millisecond
}
