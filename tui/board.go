package tui

import "sync"

// Board is the terminal's copy of the session state. The session writes it
// through the Sink methods; the view reads it. Every write posts to Updates
// without blocking, so a slow redraw coalesces many changes into one frame.
type Board struct {
	mu      sync.Mutex
	pitches int
	steps   int
	cells   []bool
	active  int
	tempo   int
	playing bool

	updates chan struct{}
}

// BoardState is a copy of the board for one frame.
type BoardState struct {
	Tempo   int
	Playing bool
	Active  int
	Cells   [][]bool
}

// Enabled reports a cell; out of range is false.
func (s BoardState) Enabled(pitch, step int) bool {
	if pitch < 0 || pitch >= len(s.Cells) || step < 0 || step >= len(s.Cells[pitch]) {
		return false
	}
	return s.Cells[pitch][step]
}

func NewBoard(pitches, steps int) *Board {
	return &Board{
		pitches: pitches,
		steps:   steps,
		cells:   make([]bool, pitches*steps),
		active:  -1,
		updates: make(chan struct{}, 1),
	}
}

// Updates receives a value after any change.
func (b *Board) Updates() <-chan struct{} {
	return b.updates
}

func (b *Board) Pitches() int { return b.pitches }
func (b *Board) Steps() int   { return b.steps }

func (b *Board) HighlightStep(step int) {
	b.mu.Lock()
	b.active = step
	b.mu.Unlock()
	b.notify()
}

func (b *Board) ShowTempo(bpm int) {
	b.mu.Lock()
	b.tempo = bpm
	b.mu.Unlock()
	b.notify()
}

func (b *Board) ShowPlayState(playing bool) {
	b.mu.Lock()
	b.playing = playing
	b.mu.Unlock()
	b.notify()
}

func (b *Board) ShowCell(pitch, step int, enabled, _ bool) {
	if pitch < 0 || pitch >= b.pitches || step < 0 || step >= b.steps {
		return
	}
	b.mu.Lock()
	b.cells[pitch*b.steps+step] = enabled
	b.mu.Unlock()
	b.notify()
}

// State copies the board.
func (b *Board) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	cells := make([][]bool, b.pitches)
	for p := range cells {
		cells[p] = make([]bool, b.steps)
		copy(cells[p], b.cells[p*b.steps:(p+1)*b.steps])
	}
	return BoardState{
		Tempo:   b.tempo,
		Playing: b.playing,
		Active:  b.active,
		Cells:   cells,
	}
}

func (b *Board) notify() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}
