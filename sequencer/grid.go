package sequencer

import "strings"

// Grid is the pitch × step pattern. Dimensions are fixed at construction.
// It is not safe for concurrent use; the Session serializes access.
type Grid struct {
	pitches int
	steps   int
	cells   []bool
}

// NewGrid creates an empty pattern.
func NewGrid(pitches, steps int) *Grid {
	return &Grid{
		pitches: pitches,
		steps:   steps,
		cells:   make([]bool, pitches*steps),
	}
}

func (g *Grid) Pitches() int { return g.pitches }
func (g *Grid) Steps() int   { return g.steps }

// Valid reports whether (pitch, step) lies inside the grid.
func (g *Grid) Valid(pitch, step int) bool {
	return pitch >= 0 && pitch < g.pitches && step >= 0 && step < g.steps
}

// Enabled returns the cell value; out of range cells read as off.
func (g *Grid) Enabled(pitch, step int) bool {
	if !g.Valid(pitch, step) {
		return false
	}
	return g.cells[pitch*g.steps+step]
}

// Set writes a cell and reports whether the coordinate was valid.
func (g *Grid) Set(pitch, step int, on bool) bool {
	if !g.Valid(pitch, step) {
		return false
	}
	g.cells[pitch*g.steps+step] = on
	return true
}

// Toggle flips a cell. ok is false (and nothing changes) for out of range
// coordinates.
func (g *Grid) Toggle(pitch, step int) (on, ok bool) {
	if !g.Valid(pitch, step) {
		return false, false
	}
	i := pitch*g.steps + step
	g.cells[i] = !g.cells[i]
	return g.cells[i], true
}

// Column returns the enabled pitches at step, lowest row first.
func (g *Grid) Column(step int) []int {
	if step < 0 || step >= g.steps {
		return nil
	}
	var pitches []int
	for p := 0; p < g.pitches; p++ {
		if g.cells[p*g.steps+step] {
			pitches = append(pitches, p)
		}
	}
	return pitches
}

// Clear turns every cell off.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Rows copies the pattern out as [pitch][step].
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.pitches)
	for p := range rows {
		rows[p] = append([]bool(nil), g.cells[p*g.steps:(p+1)*g.steps]...)
	}
	return rows
}

// String renders one line per pitch, "|x---|x---|..." style.
func (g *Grid) String() string {
	var b strings.Builder
	for p := 0; p < g.pitches; p++ {
		b.WriteByte('|')
		for s := 0; s < g.steps; s++ {
			if g.cells[p*g.steps+s] {
				b.WriteByte('x')
			} else {
				b.WriteByte('-')
			}
			if (s+1)%4 == 0 {
				b.WriteByte('|')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
