// Package audio plays tone clips on the default sound device through oto.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"go-pentaseq/debug"
	"go-pentaseq/tone"
)

// PCMSource hands out clips already encoded as 16-bit little endian bytes.
type PCMSource interface {
	PCM(pitch int) ([]byte, bool)
	SampleRate() int
}

// voice is the part of *oto.Player the voice set needs.
type voice interface {
	Play()
	IsPlaying() bool
	Close() error
}

// device is the part of *oto.Context the player needs.
type device interface {
	Err() error
	newVoice(r io.Reader) voice
}

type otoDevice struct {
	ctx *oto.Context
}

func (d otoDevice) Err() error                 { return d.ctx.Err() }
func (d otoDevice) newVoice(r io.Reader) voice { return d.ctx.NewPlayer(r) }

// Player is a fire-and-forget mono output. Every Play starts a new voice, so
// clips overlap freely; finished voices are closed on the next Play.
type Player struct {
	dev    device
	src    PCMSource
	voices *voiceSet
	errLog *debug.Throttle
}

// Open creates the oto context at the source's sample rate and waits for the
// device to become ready. Only one Player may exist per process.
func Open(src PCMSource, bufferSize time.Duration) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   src.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	debug.Log("audio", "device ready: %dHz mono s16le buffer=%v", op.SampleRate, bufferSize)
	return newPlayer(otoDevice{ctx: ctx}, src), nil
}

func newPlayer(dev device, src PCMSource) *Player {
	return &Player{
		dev:    dev,
		src:    src,
		voices: newVoiceSet(),
		errLog: debug.NewThrottle(time.Second),
	}
}

// Play starts buf on a new voice and returns immediately.
func (p *Player) Play(pitch int, buf tone.Buffer) {
	if err := p.dev.Err(); err != nil {
		p.errLog.Log("audio", "device error, dropping pitch %d: %v", pitch, err)
		return
	}

	pcm, ok := p.src.PCM(pitch)
	if !ok || len(pcm) != 2*len(buf) {
		pcm = buf.PCM()
	}

	// bytes.Reader never writes, so the shared pcm slice stays intact
	p.voices.start(p.dev.newVoice(bytes.NewReader(pcm)))
}

// Voices returns how many voices are still held open.
func (p *Player) Voices() int {
	return p.voices.len()
}

// Close stops and releases every voice.
func (p *Player) Close() error {
	p.voices.closeAll()
	return nil
}

type voiceSet struct {
	mu     sync.Mutex
	voices map[voice]struct{}
}

func newVoiceSet() *voiceSet {
	return &voiceSet{voices: make(map[voice]struct{})}
}

func (s *voiceSet) start(v voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reapLocked()
	s.voices[v] = struct{}{}
	// started under the lock so a concurrent reap can't see it idle
	v.Play()
}

func (s *voiceSet) reapLocked() {
	for v := range s.voices {
		if !v.IsPlaying() {
			v.Close()
			delete(s.voices, v)
		}
	}
}

func (s *voiceSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

func (s *voiceSet) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for v := range s.voices {
		v.Close()
		delete(s.voices, v)
	}
}
