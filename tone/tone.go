// Package tone synthesizes the short clips played for each pitch row.
package tone

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// Reference clip parameters
const (
	DefaultSampleRate = 48000
	DefaultDuration   = 200 * time.Millisecond

	// FadeDuration is the linear fade-in applied from the start of every clip.
	FadeDuration = 50 * time.Millisecond

	// SawGain attenuates the sawtooth half relative to the sine half.
	SawGain = 0.2
)

var (
	ErrInvalidFrequency  = errors.New("tone: frequency must be positive and finite")
	ErrInvalidSampleRate = errors.New("tone: sample rate must be positive")
	ErrNoSamples         = errors.New("tone: clip has no samples")
)

// Buffer is a mono clip of signed 16-bit samples. Buffers handed out by this
// package are never modified afterwards and may be shared between goroutines.
type Buffer []int16

// PCM encodes the buffer as signed 16-bit little endian bytes.
func (b Buffer) PCM() []byte {
	pcm := make([]byte, len(b)*2)
	for i, v := range b {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(v))
	}
	return pcm
}

// Peak returns the largest absolute sample value.
func (b Buffer) Peak() int {
	peak := 0
	for _, v := range b {
		a := int(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

// SampleCount returns round(sampleRate × duration).
func SampleCount(duration time.Duration, sampleRate int) int {
	return int(math.Round(float64(sampleRate) * duration.Seconds()))
}

// Synthesize renders a clip at freq Hz: a sine for the first half, an
// attenuated sawtooth for the second, a linear fade-in over the first
// FadeDuration, then peak normalization to int16 full scale.
func Synthesize(freq float64, duration time.Duration, sampleRate int) (Buffer, error) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return nil, ErrInvalidFrequency
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	n := SampleCount(duration, sampleRate)
	if n <= 0 {
		return nil, ErrNoSamples
	}

	raw := render(freq, n, sampleRate)
	fadeIn(raw, fadeLength(sampleRate))
	return normalize(raw), nil
}

// render produces the unscaled sine/saw splice. There is no crossfade at n/2.
func render(freq float64, n, sampleRate int) []float64 {
	out := make([]float64, n)
	half := n / 2
	rate := float64(sampleRate)
	for i := 0; i < half; i++ {
		t := float64(i) / rate
		out[i] = math.Sin(2 * math.Pi * freq * t)
	}
	for i := half; i < n; i++ {
		ft := freq * float64(i) / rate
		out[i] = 2 * (ft - math.Floor(0.5+ft)) * SawGain
	}
	return out
}

func fadeLength(sampleRate int) int {
	return int(float64(sampleRate) * FadeDuration.Seconds())
}

// fadeIn multiplies the first length samples by a 0..1 ramp (both ends
// included). The ramp is cut at the end of short clips.
func fadeIn(samples []float64, length int) {
	if length <= 0 {
		return
	}
	for i := 0; i < length && i < len(samples); i++ {
		samples[i] *= ramp(i, length)
	}
}

func ramp(i, length int) float64 {
	if length == 1 {
		return 0
	}
	return float64(i) / float64(length-1)
}

// normalize scales the signal so its peak lands on math.MaxInt16 and casts
// to int16, truncating toward zero. A silent signal stays silent.
func normalize(samples []float64) Buffer {
	buf := make(Buffer, len(samples))

	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return buf
	}

	// |v| <= peak, so the result is within ±MaxInt16
	for i, v := range samples {
		buf[i] = int16(v * math.MaxInt16 / peak)
	}
	return buf
}
