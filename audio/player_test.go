package audio

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"go-pentaseq/tone"
)

type fakeVoice struct {
	mu      sync.Mutex
	playing bool
	closed  bool
}

func (v *fakeVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = true
}

func (v *fakeVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.playing = false
	return nil
}

func (v *fakeVoice) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

func TestVoiceSetOverlaps(t *testing.T) {
	s := newVoiceSet()
	a, b := &fakeVoice{}, &fakeVoice{}
	s.start(a)
	s.start(b)

	if !a.IsPlaying() || !b.IsPlaying() {
		t.Fatal("starting a voice stopped another one")
	}
	if s.len() != 2 {
		t.Fatalf("%d voices, want 2", s.len())
	}
}

func TestVoiceSetReapsFinished(t *testing.T) {
	s := newVoiceSet()
	a, b := &fakeVoice{}, &fakeVoice{}
	s.start(a)
	s.start(b)
	a.finish()

	c := &fakeVoice{}
	s.start(c)
	if !a.closed {
		t.Fatal("finished voice not closed")
	}
	if b.closed || c.closed {
		t.Fatal("playing voice was closed")
	}
	if s.len() != 2 {
		t.Fatalf("%d voices, want 2", s.len())
	}
}

func TestVoiceSetCloseAll(t *testing.T) {
	s := newVoiceSet()
	voices := []*fakeVoice{{}, {}, {}}
	for _, v := range voices {
		s.start(v)
	}
	s.closeAll()
	for i, v := range voices {
		if !v.closed {
			t.Errorf("voice %d left open", i)
		}
	}
	if s.len() != 0 {
		t.Fatalf("%d voices after closeAll", s.len())
	}
}

func TestVoiceSetConcurrentStarts(t *testing.T) {
	s := newVoiceSet()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.start(&fakeVoice{})
		}()
	}
	wg.Wait()
	if s.len() != 32 {
		t.Fatalf("%d voices, want 32", s.len())
	}
}

type fakeDevice struct {
	mu     sync.Mutex
	err    error
	played [][]byte
}

func (d *fakeDevice) Err() error { return d.err }

func (d *fakeDevice) newVoice(r io.Reader) voice {
	pcm, _ := io.ReadAll(r)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.played = append(d.played, pcm)
	return &fakeVoice{}
}

// fakeSource serves pcm for pitch 0 only.
type fakeSource struct {
	pcm []byte
}

func (s fakeSource) PCM(pitch int) ([]byte, bool) {
	if pitch != 0 || s.pcm == nil {
		return nil, false
	}
	return s.pcm, true
}

func (s fakeSource) SampleRate() int { return 48000 }

func TestPlayerUsesSourcePCM(t *testing.T) {
	buf := tone.Buffer{1, -2}
	shared := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	dev := &fakeDevice{}
	p := newPlayer(dev, fakeSource{pcm: shared})

	p.Play(0, buf)
	if len(dev.played) != 1 || !bytes.Equal(dev.played[0], shared) {
		t.Fatalf("played %x, want %x", dev.played, shared)
	}
	if p.Voices() != 1 {
		t.Fatalf("%d voices", p.Voices())
	}
}

func TestPlayerFallsBackToBufferPCM(t *testing.T) {
	buf := tone.Buffer{1, -2}
	tests := []struct {
		name  string
		src   fakeSource
		pitch int
	}{
		{"missing", fakeSource{}, 0},
		{"unknown pitch", fakeSource{pcm: []byte{1, 2, 3, 4}}, 3},
		{"wrong length", fakeSource{pcm: []byte{1, 2}}, 0},
	}
	for _, tt := range tests {
		dev := &fakeDevice{}
		p := newPlayer(dev, tt.src)
		p.Play(tt.pitch, buf)
		if len(dev.played) != 1 || !bytes.Equal(dev.played[0], buf.PCM()) {
			t.Errorf("%s: played %x, want %x", tt.name, dev.played, buf.PCM())
		}
	}
}

func TestPlayerDropsOnDeviceError(t *testing.T) {
	dev := &fakeDevice{err: errors.New("device lost")}
	p := newPlayer(dev, fakeSource{})
	p.Play(0, tone.Buffer{1})
	if len(dev.played) != 0 || p.Voices() != 0 {
		t.Fatalf("played %d clips with a failed device", len(dev.played))
	}
}
