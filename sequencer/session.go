package sequencer

import (
	"context"

	"go-pentaseq/debug"
)

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	Steps  int
	Tempo  int
	Bounds Bounds
}

// Session owns the pattern, tempo and transport. All state changes happen on
// the Run goroutine: UI actions arrive as Commands, steps arrive as clock
// ticks, so no field is ever touched from two goroutines.
type Session struct {
	grid   *Grid
	driver *Driver
	clock  Clock
	sink   Sink
	bounds Bounds

	tempo   int
	playing bool
	cursor  int // next step to play
	active  int // column last played, -1 = none

	requests chan request
	done     chan struct{}
}

// NewSession creates a stopped session with one grid row per tone.
func NewSession(tones ToneSource, out Output, sink Sink, clock Clock, opts Options) *Session {
	if opts.Steps <= 0 {
		opts.Steps = DefaultSteps
	}
	if opts.Bounds == (Bounds{}) {
		opts.Bounds = DefaultBounds()
	}
	if opts.Tempo == 0 {
		opts.Tempo = DefaultTempo
	}
	if sink == nil {
		sink = NopSink{}
	}
	if clock == nil {
		clock = NewTickerClock()
	}

	s := &Session{
		grid:     NewGrid(tones.Len(), opts.Steps),
		clock:    clock,
		sink:     sink,
		bounds:   opts.Bounds,
		tempo:    opts.Bounds.Clamp(opts.Tempo),
		active:   -1,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	s.driver = NewDriver(tones, out, s.highlight)
	return s
}

// Run processes commands and clock ticks until ctx is cancelled. It pushes
// the full state to the sink before handling anything else.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	s.publish()
	debug.Log("session", "running: %dx%d grid, tempo=%d", s.grid.Pitches(), s.grid.Steps(), s.tempo)

	for {
		select {
		case <-ctx.Done():
			if s.playing {
				s.clock.Stop()
			}
			debug.Log("session", "stopped: %v", ctx.Err())
			return
		case req := <-s.requests:
			req.reply <- req.cmd.apply(s)
		case <-s.clock.Ticks():
			// ticks can still be in flight right after a stop
			if s.playing {
				s.cursor = s.driver.Step(s.grid, s.cursor)
			}
		}
	}
}

// Send applies cmd on the session goroutine and waits for it to finish.
// It blocks until Run is started.
func (s *Session) Send(cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return ErrSessionClosed
	}
	return <-req.reply
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ToggleCell flips (pitch, step). Out of range coordinates return
// ErrInvalidCoordinate and change nothing.
func (s *Session) ToggleCell(pitch, step int) error {
	return s.Send(ToggleCell{Pitch: pitch, Step: step})
}

// SetTempo sets the BPM, clamped to the session bounds.
func (s *Session) SetTempo(bpm int) error {
	return s.Send(SetTempo{BPM: bpm})
}

// TogglePlay flips the transport.
func (s *Session) TogglePlay() error {
	return s.Send(TogglePlay{})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.Send(snapshotCommand{out: &snap})
	return snap, err
}

// Bounds returns the accepted tempo range.
func (s *Session) Bounds() Bounds {
	return s.bounds
}

func (s *Session) toggle(pitch, step int) error {
	on, ok := s.grid.Toggle(pitch, step)
	if !ok {
		debug.Log("session", "toggle (%d,%d) ignored: outside %dx%d", pitch, step, s.grid.Pitches(), s.grid.Steps())
		return ErrInvalidCoordinate
	}
	s.sink.ShowCell(pitch, step, on, step == s.active)
	return nil
}

func (s *Session) setTempo(bpm int) {
	clamped := s.bounds.Clamp(bpm)
	if clamped != bpm {
		debug.Log("session", "tempo %d clamped to %d", bpm, clamped)
	}
	s.tempo = clamped
	s.sink.ShowTempo(clamped)
	if s.playing {
		s.clock.SetInterval(Interval(clamped))
	}
}

func (s *Session) play() {
	if s.playing {
		return
	}
	s.playing = true
	s.sink.ShowPlayState(true)
	debug.Log("session", "play tempo=%d interval=%v", s.tempo, Interval(s.tempo))

	// step 0 sounds right away, the clock supplies the rest
	s.cursor = s.driver.Step(s.grid, 0)
	s.clock.Start(Interval(s.tempo))
}

func (s *Session) stop() {
	if !s.playing {
		return
	}
	s.clock.Stop()
	s.playing = false
	s.sink.ShowPlayState(false)
	s.highlight(-1)
	debug.Log("session", "stop")
}

func (s *Session) clearPattern() {
	s.grid.Clear()
	for p := 0; p < s.grid.Pitches(); p++ {
		for st := 0; st < s.grid.Steps(); st++ {
			s.sink.ShowCell(p, st, false, st == s.active)
		}
	}
}

// highlight moves the active column and repaints the two affected columns.
func (s *Session) highlight(step int) {
	prev := s.active
	s.active = step
	s.sink.HighlightStep(step)

	cols := []int{prev}
	if step != prev {
		cols = append(cols, step)
	}
	for _, col := range cols {
		if col < 0 {
			continue
		}
		for p := 0; p < s.grid.Pitches(); p++ {
			s.sink.ShowCell(p, col, s.grid.Enabled(p, col), col == step)
		}
	}
}

func (s *Session) publish() {
	s.sink.ShowTempo(s.tempo)
	s.sink.ShowPlayState(s.playing)
	s.sink.HighlightStep(s.active)
	for p := 0; p < s.grid.Pitches(); p++ {
		for st := 0; st < s.grid.Steps(); st++ {
			s.sink.ShowCell(p, st, s.grid.Enabled(p, st), st == s.active)
		}
	}
}
