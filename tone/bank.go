package tone

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"go-pentaseq/debug"
)

// SynthesisError reports which pitch could not be rendered at startup.
type SynthesisError struct {
	Pitch int
	Freq  float64
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize pitch %d (%g Hz): %v", e.Pitch, e.Freq, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Bank holds one precomputed clip per pitch. It is read-only once built.
type Bank struct {
	buffers    []Buffer
	pcm        [][]byte
	sampleRate int
	duration   time.Duration
}

// NewBank renders every frequency. Any failure fails the whole bank; there is
// no partial tone set.
func NewBank(freqs []float64, duration time.Duration, sampleRate int) (*Bank, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("tone bank: no pitches configured")
	}

	b := &Bank{
		buffers:    make([]Buffer, len(freqs)),
		pcm:        make([][]byte, len(freqs)),
		sampleRate: sampleRate,
		duration:   duration,
	}

	var g errgroup.Group
	for i, f := range freqs {
		i, f := i, f
		g.Go(func() error {
			buf, err := Synthesize(f, duration, sampleRate)
			if err != nil {
				return &SynthesisError{Pitch: i, Freq: f, Err: err}
			}
			if buf.Peak() == 0 {
				debug.Log("tone", "pitch %d (%g Hz) rendered silent", i, f)
			}
			b.buffers[i] = buf
			b.pcm[i] = buf.PCM()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	debug.Log("tone", "bank ready: %d pitches, %d samples each @ %dHz", len(freqs), len(b.buffers[0]), sampleRate)
	return b, nil
}

// Buffer returns the clip for pitch.
func (b *Bank) Buffer(pitch int) (Buffer, bool) {
	if pitch < 0 || pitch >= len(b.buffers) {
		return nil, false
	}
	return b.buffers[pitch], true
}

// PCM returns the clip for pitch as little endian bytes, ready for an audio
// device. The slice is shared; callers must not modify it.
func (b *Bank) PCM(pitch int) ([]byte, bool) {
	if pitch < 0 || pitch >= len(b.pcm) {
		return nil, false
	}
	return b.pcm[pitch], true
}

// Len returns the number of pitches.
func (b *Bank) Len() int { return len(b.buffers) }

func (b *Bank) SampleRate() int { return b.sampleRate }

func (b *Bank) Duration() time.Duration { return b.duration }
