package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"go-pentaseq/audio"
	"go-pentaseq/config"
	"go-pentaseq/midi"
	"go-pentaseq/sequencer"
	"go-pentaseq/theme"
	"go-pentaseq/tone"
	"go-pentaseq/widgets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "ports":
		err = listPorts()
	case "tones":
		err = showTones()
	case "play":
		err = playTone(os.Args[2:])
	case "notes":
		err = sendNotes()
	case "leds":
		err = testLEDs()
	default:
		usage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("go-pentaseq tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ports        - List all MIDI ports")
	fmt.Println("  tones        - Synthesize the configured tones and show stats")
	fmt.Println("  play <pitch> - Play one tone on the speakers")
	fmt.Println("  notes        - Send every pitch to the configured MIDI output")
	fmt.Println("  leds         - Show a test pattern on a Launchpad")
}

func loadBank() (*config.Config, *tone.Bank, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	bank, err := tone.NewBank(cfg.Freqs(), cfg.ClipDuration(), cfg.Audio.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, bank, nil
}

func listPorts() error {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, ok := midi.ListPorts()
	if !ok {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return nil
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	return nil
}

func showTones() error {
	start := time.Now()
	cfg, bank, err := loadBank()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var total uint64
	fmt.Printf("%d tones, %dHz, %s each\n\n", bank.Len(), bank.SampleRate(), widgets.FormatDuration(bank.Duration()))
	for p := 0; p < bank.Len(); p++ {
		buf, _ := bank.Buffer(p)
		pcm, _ := bank.PCM(p)
		total += uint64(len(pcm))
		pc := cfg.Pitches[p]
		fmt.Printf("  %d: %-3s %7.2fHz  note %3d  %6d samples  peak %5d  %s\n",
			p, pc.Label, pc.Freq, midi.FreqToNote(pc.Freq), len(buf), buf.Peak(), humanize.Bytes(uint64(len(pcm))))
	}
	fmt.Printf("\ncache %s, built in %s\n", humanize.Bytes(total), widgets.FormatDuration(elapsed))
	fmt.Printf("step interval at %d bpm: %s\n", cfg.Tempo, widgets.FormatDuration(sequencer.Interval(cfg.Tempo)))
	return nil
}

func playTone(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: seqtool play <pitch>")
	}
	pitch, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("pitch %q: %w", args[0], err)
	}

	_, bank, err := loadBank()
	if err != nil {
		return err
	}
	buf, ok := bank.Buffer(pitch)
	if !ok {
		return fmt.Errorf("pitch %d out of range 0-%d", pitch, bank.Len()-1)
	}

	player, err := audio.Open(bank, 50*time.Millisecond)
	if err != nil {
		return err
	}
	defer player.Close()

	player.Play(pitch, buf)
	fmt.Printf("playing pitch %d (%s), %d voice(s) open\n", pitch, humanize.Bytes(uint64(2*len(buf))), player.Voices())
	// let the clip and the device buffer drain
	time.Sleep(bank.Duration() + 200*time.Millisecond)
	return nil
}

func sendNotes() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.MIDI.OutputPort == "" {
		return fmt.Errorf("no midi.outputPort in config")
	}

	gate := cfg.ClipDuration()
	out, err := midi.OpenNoteOut(cfg.MIDI.OutputPort, uint8(cfg.MIDI.Channel-1), cfg.Freqs(), gate)
	if err != nil {
		return err
	}

	for p, pc := range cfg.Pitches {
		note, _ := out.Note(p)
		fmt.Printf("  %d: %-3s note %d\n", p, pc.Label, note)
		out.Play(p, nil)
		time.Sleep(gate + 50*time.Millisecond)
	}
	return nil
}

func testLEDs() error {
	fmt.Println("Looking for Launchpad X...")

	lp, err := midi.OpenLaunchpad()
	if err != nil {
		return err
	}
	defer lp.Close()
	fmt.Printf("Using %s\n", lp.ID())

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// a diagonal per pitch row, in the row colors
	surface := midi.NewGridSurface(theme.MustDefault(), len(cfg.Pitches), cfg.Steps)
	for p := range cfg.Pitches {
		surface.ShowCell(p, p, true, false)
	}
	if err := lp.SetLEDBatch(surface.Render()); err != nil {
		return err
	}
	fmt.Println(widgets.RenderPadGrid(widgets.PadGrid(surface.Render())))

	fmt.Println("\nPress pads (Enter to quit)...")
	go func() {
		for ev := range lp.PadEvents() {
			fmt.Printf("  pad %d,%d -> %+v\n", ev.Row, ev.Col, surface.Pad(ev))
		}
	}()
	fmt.Scanln()
	return nil
}
