package sequencer

import "errors"

var (
	ErrInvalidCoordinate = errors.New("sequencer: cell outside the grid")
	ErrSessionClosed     = errors.New("sequencer: session closed")
)

// Command is a UI action applied on the session goroutine.
type Command interface {
	apply(s *Session) error
}

// ToggleCell flips one pattern cell.
type ToggleCell struct {
	Pitch, Step int
}

// SetTempo changes the BPM, clamped to the session bounds.
type SetTempo struct {
	BPM int
}

// TogglePlay starts a stopped transport or stops a playing one.
type TogglePlay struct{}

// Play starts the transport from step 0. No-op while playing.
type Play struct{}

// Stop halts the transport. No-op while stopped.
type Stop struct{}

// ClearPattern turns every cell off.
type ClearPattern struct{}

type snapshotCommand struct {
	out *Snapshot
}

func (c ToggleCell) apply(s *Session) error {
	return s.toggle(c.Pitch, c.Step)
}

func (c SetTempo) apply(s *Session) error {
	s.setTempo(c.BPM)
	return nil
}

func (TogglePlay) apply(s *Session) error {
	if s.playing {
		s.stop()
	} else {
		s.play()
	}
	return nil
}

func (Play) apply(s *Session) error {
	s.play()
	return nil
}

func (Stop) apply(s *Session) error {
	s.stop()
	return nil
}

func (ClearPattern) apply(s *Session) error {
	s.clearPattern()
	return nil
}

func (c snapshotCommand) apply(s *Session) error {
	*c.out = s.snapshot()
	return nil
}

type request struct {
	cmd   Command
	reply chan error
}
