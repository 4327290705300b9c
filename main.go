package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-pentaseq/audio"
	"go-pentaseq/config"
	"go-pentaseq/debug"
	"go-pentaseq/midi"
	"go-pentaseq/sequencer"
	"go-pentaseq/theme"
	"go-pentaseq/tone"
	"go-pentaseq/tui"
)

const audioBuffer = 50 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if path, err := config.LogPath(); err == nil {
			if err := debug.Enable(path); err != nil {
				fmt.Printf("debug log disabled: %v\n", err)
			}
		}
	}
	defer debug.Disable()

	// Every tone is rendered before the UI appears; a failure is fatal
	bank, err := tone.NewBank(cfg.Freqs(), cfg.ClipDuration(), cfg.Audio.SampleRate)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	th := theme.MustDefault()
	if cfg.Palette != "" {
		palette, err := theme.LoadGPL(cfg.Palette)
		if err != nil {
			fmt.Printf("palette %s: %v (using default)\n", cfg.Palette, err)
		} else {
			th = theme.New(palette)
		}
	}

	// Outputs
	var outputs sequencer.Outputs
	if cfg.Audio.Enabled {
		player, err := audio.Open(bank, audioBuffer)
		if err != nil {
			debug.Log("main", "audio disabled: %v", err)
			fmt.Printf("audio disabled: %v\n", err)
		} else {
			defer player.Close()
			outputs = append(outputs, player)
		}
	}
	if cfg.MIDI.OutputPort != "" {
		notes, err := midi.OpenNoteOut(cfg.MIDI.OutputPort, uint8(cfg.MIDI.Channel-1), cfg.Freqs(), cfg.ClipDuration())
		if err != nil {
			debug.Log("main", "midi out disabled: %v", err)
			fmt.Printf("midi out disabled: %v\n", err)
		} else {
			outputs = append(outputs, notes)
		}
	}
	var out sequencer.Output = sequencer.Discard{}
	if len(outputs) > 0 {
		out = outputs
	}

	// Sinks
	board := tui.NewBoard(bank.Len(), cfg.Steps)
	surface := midi.NewGridSurface(th, bank.Len(), cfg.Steps)

	session := sequencer.NewSession(bank, out, sequencer.Sinks{board, surface}, nil, sequencer.Options{
		Steps:  cfg.Steps,
		Tempo:  cfg.Tempo,
		Bounds: sequencer.Bounds{Min: cfg.MinTempo, Max: cfg.MaxTempo},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Run(ctx)
	go surface.Run(ctx)

	m := tui.NewModel(ctx, session, board, th, cfg.Labels())
	m.Surface = surface
	if cfg.MIDI.AutoConnect {
		// Create MIDI device manager (handles hot-plug)
		deviceMgr := midi.NewDeviceManager()
		go deviceMgr.Run(ctx)
		m.DeviceMgr = deviceMgr
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cancel()
	<-session.Done()
}
