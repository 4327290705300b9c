package sequencer

import "go-pentaseq/tone"

// DefaultSteps is the pattern length of the reference configuration.
const DefaultSteps = 15

// ToneSource looks up the precomputed clip for a pitch row.
type ToneSource interface {
	Buffer(pitch int) (tone.Buffer, bool)
	Len() int
}

// Output is the audio primitive: start playing buf and return. Play is
// called on its own goroutine per dispatch, so calls may overlap, and buf
// must be treated as read-only.
type Output interface {
	Play(pitch int, buf tone.Buffer)
}

// Outputs fans a dispatch out to several outputs (speakers + MIDI).
type Outputs []Output

func (o Outputs) Play(pitch int, buf tone.Buffer) {
	for _, out := range o {
		out.Play(pitch, buf)
	}
}

// Discard drops every dispatch. Used when no audio device is available.
type Discard struct{}

func (Discard) Play(int, tone.Buffer) {}

// Sink receives display updates. Calls happen on the session goroutine and
// must not block.
type Sink interface {
	HighlightStep(step int) // -1 clears the highlight
	ShowTempo(bpm int)
	ShowPlayState(playing bool)
	ShowCell(pitch, step int, enabled, highlighted bool)
}

// Sinks fans updates out to several displays (terminal + Launchpad).
type Sinks []Sink

func (s Sinks) HighlightStep(step int) {
	for _, sink := range s {
		sink.HighlightStep(step)
	}
}

func (s Sinks) ShowTempo(bpm int) {
	for _, sink := range s {
		sink.ShowTempo(bpm)
	}
}

func (s Sinks) ShowPlayState(playing bool) {
	for _, sink := range s {
		sink.ShowPlayState(playing)
	}
}

func (s Sinks) ShowCell(pitch, step int, enabled, highlighted bool) {
	for _, sink := range s {
		sink.ShowCell(pitch, step, enabled, highlighted)
	}
}

// NopSink ignores all updates.
type NopSink struct{}

func (NopSink) HighlightStep(int)             {}
func (NopSink) ShowTempo(int)                 {}
func (NopSink) ShowPlayState(bool)            {}
func (NopSink) ShowCell(int, int, bool, bool) {}
