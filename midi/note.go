package midi

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go-pentaseq/debug"
	"go-pentaseq/tone"

	gomidi "gitlab.com/gomidi/midi/v2"
)

const noteVelocity = 100

// FreqToNote returns the nearest MIDI note number for freq (A4 = 440Hz = 69).
func FreqToNote(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	n := math.Round(69 + 12*math.Log2(freq/440))
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

// NoteOut mirrors pattern steps to an external synth as NoteOn/NoteOff pairs.
// Overlapping hits of one pitch extend the note; NoteOff goes out when the
// last gate closes.
type NoteOut struct {
	send    func(msg gomidi.Message) error
	channel uint8
	notes   []uint8
	gate    time.Duration

	mu     sync.Mutex
	held   map[uint8]int
	errLog *debug.Throttle
}

// NewNoteOut wraps a send func, e.g. one returned by gomidi.SendTo.
func NewNoteOut(send func(msg gomidi.Message) error, channel uint8, freqs []float64, gate time.Duration) *NoteOut {
	notes := make([]uint8, len(freqs))
	for i, f := range freqs {
		notes[i] = FreqToNote(f)
	}
	return &NoteOut{
		send:    send,
		channel: channel & 0x0F,
		notes:   notes,
		gate:    gate,
		held:    make(map[uint8]int),
		errLog:  debug.NewThrottle(time.Second),
	}
}

// OpenNoteOut finds the output port named portName and opens it.
func OpenNoteOut(portName string, channel uint8, freqs []float64, gate time.Duration) (*NoteOut, error) {
	_, outs, ok := ListPorts()
	if !ok {
		return nil, fmt.Errorf("midi port scan timed out")
	}
	for _, port := range outs {
		if port.String() == portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("open %q: %w", portName, err)
			}
			debug.Log("midi", "note out on %q channel %d", portName, channel)
			return NewNoteOut(send, channel, freqs, gate), nil
		}
	}
	return nil, fmt.Errorf("midi output %q not found", portName)
}

// Note returns the MIDI note for a pitch row.
func (n *NoteOut) Note(pitch int) (uint8, bool) {
	if pitch < 0 || pitch >= len(n.notes) {
		return 0, false
	}
	return n.notes[pitch], true
}

// Play sends NoteOn now and NoteOff after the gate. The clip is ignored.
func (n *NoteOut) Play(pitch int, _ tone.Buffer) {
	note, ok := n.Note(pitch)
	if !ok {
		return
	}

	n.mu.Lock()
	n.held[note]++
	n.mu.Unlock()

	if err := n.send(gomidi.NoteOn(n.channel, note, noteVelocity)); err != nil {
		n.errLog.Log("midi", "note on %d: %v", note, err)
	}
	time.AfterFunc(n.gate, func() { n.release(note) })
}

func (n *NoteOut) release(note uint8) {
	n.mu.Lock()
	n.held[note]--
	last := n.held[note] <= 0
	if last {
		delete(n.held, note)
	}
	n.mu.Unlock()

	if !last {
		return
	}
	if err := n.send(gomidi.NoteOff(n.channel, note)); err != nil {
		n.errLog.Log("midi", "note off %d: %v", note, err)
	}
}

// Held returns how many notes are currently sounding.
func (n *NoteOut) Held() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.held)
}
