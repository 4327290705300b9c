package tone

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"
)

func TestSynthesizeSampleCount(t *testing.T) {
	tests := []struct {
		duration   time.Duration
		sampleRate int
		want       int
	}{
		{DefaultDuration, DefaultSampleRate, 9600},
		{10 * time.Millisecond, 44100, 441},
		{time.Millisecond, 48000, 48},
		{25 * time.Microsecond, 48000, 1}, // 1.2 samples
	}
	for _, tt := range tests {
		buf, err := Synthesize(440, tt.duration, tt.sampleRate)
		if err != nil {
			t.Fatalf("%v@%d: %v", tt.duration, tt.sampleRate, err)
		}
		if len(buf) != tt.want {
			t.Errorf("%v@%d: got %d samples, want %d", tt.duration, tt.sampleRate, len(buf), tt.want)
		}
	}
}

func TestSynthesizeNormalizesToFullScale(t *testing.T) {
	for _, f := range []float64{392, 440, 523, 587, 659, 784, 880, 55, 3000} {
		buf, err := Synthesize(f, DefaultDuration, DefaultSampleRate)
		if err != nil {
			t.Fatal(err)
		}
		// the peak sample may land one below full scale after truncation
		if got := buf.Peak(); got < math.MaxInt16-1 {
			t.Errorf("%gHz: peak %d, want %d", f, got, math.MaxInt16)
		}
	}
}

func TestSynthesizeFadeIn(t *testing.T) {
	buf, err := Synthesize(440, DefaultDuration, DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0 {
		t.Fatalf("sample[0] = %d, want 0", buf[0])
	}

	n := len(buf)
	length := fadeLength(DefaultSampleRate)
	if length != 2400 {
		t.Fatalf("fade length %d, want 2400", length)
	}

	raw := render(440, n, DefaultSampleRate)
	faded := slices.Clone(raw)
	fadeIn(faded, length)

	prev := -1.0
	for i := 0; i < length; i++ {
		if math.Abs(raw[i]) < 1e-9 {
			continue
		}
		env := faded[i] / raw[i]
		if env < prev-1e-12 {
			t.Fatalf("envelope decreased at %d: %g < %g", i, env, prev)
		}
		if env < 0 || env > 1 {
			t.Fatalf("envelope out of range at %d: %g", i, env)
		}
		prev = env
	}
	for i := length; i < n; i++ {
		if faded[i] != raw[i] {
			t.Fatalf("sample %d past the fade was modified", i)
		}
	}
}

func TestSynthesizeSawHalfIsAttenuated(t *testing.T) {
	buf, err := Synthesize(440, DefaultDuration, DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	limit := int(math.Ceil(SawGain*math.MaxInt16*1.01)) + 1
	for i := len(buf) / 2; i < len(buf); i++ {
		v := int(buf[i])
		if v > limit || v < -limit {
			t.Fatalf("sample %d = %d exceeds saw limit %d", i, v, limit)
		}
	}
}

func TestRenderSplice(t *testing.T) {
	const rate = 1000
	raw := render(10, 100, rate)

	// first half: sine starting at phase 0
	if raw[0] != 0 {
		t.Fatalf("sine must start at 0, got %g", raw[0])
	}
	if got, want := raw[25], math.Sin(2*math.Pi*10*0.025); math.Abs(got-want) > 1e-12 {
		t.Fatalf("raw[25] = %g, want %g", got, want)
	}

	// second half: 2*(ft - floor(0.5+ft))*0.2
	for _, i := range []int{50, 53, 57, 99} {
		ft := 10 * float64(i) / rate
		want := 2 * (ft - math.Floor(0.5+ft)) * 0.2
		if math.Abs(raw[i]-want) > 1e-12 {
			t.Errorf("raw[%d] = %g, want %g", i, raw[i], want)
		}
	}
}

func TestShortClipFadeIsCut(t *testing.T) {
	buf, err := Synthesize(440, 10*time.Millisecond, DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 480 {
		t.Fatalf("got %d samples", len(buf))
	}
	if buf[0] != 0 {
		t.Fatalf("sample[0] = %d", buf[0])
	}
}

func TestFadeLengthZeroSkipped(t *testing.T) {
	samples := []float64{1, 1, 1}
	fadeIn(samples, 0)
	if !slices.Equal(samples, []float64{1, 1, 1}) {
		t.Fatalf("zero-length fade modified samples: %v", samples)
	}

	// 10 Hz sample rate: 0.05s of fade is 0.5 samples, truncated to none
	if got := fadeLength(10); got != 0 {
		t.Fatalf("fadeLength(10) = %d", got)
	}
	buf, err := Synthesize(1, time.Second, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 10 {
		t.Fatalf("got %d samples", len(buf))
	}
}

func TestNormalizeSilent(t *testing.T) {
	buf := normalize([]float64{0, 0, 0, 0})
	if len(buf) != 4 {
		t.Fatalf("got %d samples", len(buf))
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0", i, v)
		}
	}
}

func TestNormalizeScalesPeak(t *testing.T) {
	buf := normalize([]float64{0, 0.25, -0.5, 0.1, -0.25})
	want := Buffer{0, 16383, -32767, 6553, -16383}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}

func TestNormalizeTruncatesTowardZero(t *testing.T) {
	// 0.9999 of full scale is 32763.72; rounding would give ±32764
	buf := normalize([]float64{1, 0.9999, -0.9999})
	want := Buffer{32767, 32763, -32763}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}

func TestSynthesizeErrors(t *testing.T) {
	tests := []struct {
		name       string
		freq       float64
		duration   time.Duration
		sampleRate int
		want       error
	}{
		{"zero freq", 0, DefaultDuration, DefaultSampleRate, ErrInvalidFrequency},
		{"negative freq", -440, DefaultDuration, DefaultSampleRate, ErrInvalidFrequency},
		{"nan freq", math.NaN(), DefaultDuration, DefaultSampleRate, ErrInvalidFrequency},
		{"inf freq", math.Inf(1), DefaultDuration, DefaultSampleRate, ErrInvalidFrequency},
		{"zero rate", 440, DefaultDuration, 0, ErrInvalidSampleRate},
		{"zero duration", 440, 0, DefaultSampleRate, ErrNoSamples},
		{"sub-sample duration", 440, time.Microsecond, DefaultSampleRate, ErrNoSamples},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.freq, tt.duration, tt.sampleRate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a, _ := Synthesize(523, DefaultDuration, DefaultSampleRate)
	b, _ := Synthesize(523, DefaultDuration, DefaultSampleRate)
	if !slices.Equal(a, b) {
		t.Fatal("same inputs produced different clips")
	}
}

func TestPCMLittleEndian(t *testing.T) {
	pcm := Buffer{1, -1, 0x1234}.PCM()
	want := []byte{0x01, 0x00, 0xff, 0xff, 0x34, 0x12}
	if !slices.Equal(pcm, want) {
		t.Fatalf("got % x, want % x", pcm, want)
	}
}
