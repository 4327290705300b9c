package sequencer

import (
	"math"
	"time"
)

// Tempo defaults
const (
	DefaultTempo    = 120
	DefaultMinTempo = 60
	DefaultMaxTempo = 600
)

// Bounds is the inclusive BPM range the session accepts.
type Bounds struct {
	Min, Max int
}

// DefaultBounds returns the 60-600 BPM range.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinTempo, Max: DefaultMaxTempo}
}

// Clamp pins bpm to the range. Out of range tempos are never an error.
func (b Bounds) Clamp(bpm int) int {
	if bpm < b.Min {
		return b.Min
	}
	if bpm > b.Max {
		return b.Max
	}
	return bpm
}

// Interval returns the step period for bpm: round(60000/bpm) milliseconds.
func Interval(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = 1
	}
	ms := math.Round(60000 / float64(bpm))
	return time.Duration(ms) * time.Millisecond
}
