package sequencer

import "time"

// Snapshot is a copy of the session state, safe to keep and read anywhere.
type Snapshot struct {
	Tempo    int
	Interval time.Duration
	Playing  bool
	Cursor   int // next step to play
	Active   int // highlighted column, -1 when stopped
	Pattern  [][]bool
}

// Enabled reports a cell of the copied pattern.
func (s Snapshot) Enabled(pitch, step int) bool {
	if pitch < 0 || pitch >= len(s.Pattern) || step < 0 || step >= len(s.Pattern[pitch]) {
		return false
	}
	return s.Pattern[pitch][step]
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Tempo:    s.tempo,
		Interval: Interval(s.tempo),
		Playing:  s.playing,
		Cursor:   s.cursor,
		Active:   s.active,
		Pattern:  s.grid.Rows(),
	}
}
