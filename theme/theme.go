package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Grid states (no cursor)
	StepEmpty    rune // · inactive cell
	StepActive   rune // ● cell sounds on this step
	StepPlayhead rune // │ empty cell in the playing column
	StepHit      rune // ◆ enabled cell in the playing column

	// Grid states (with cursor)
	CursorEmpty  rune // ○ cursor on empty
	CursorActive rune // ◉ cursor on enabled

	// Transport
	Play  rune // ▶
	Pause rune // ⏸
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '│',
			StepHit:      '◆',

			CursorEmpty:  '○',
			CursorActive: '◉',

			Play:  '▶',
			Pause: '⏸',
		},
	}
}

// MustDefault returns the theme built on the embedded plasma palette.
func MustDefault() *Theme {
	p, err := Builtin("plasma")
	if err != nil {
		panic(fmt.Sprintf("embedded palette: %v", err))
	}
	return New(p)
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// RGB returns raw RGB for any normalized value (for Launchpad LEDs)
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// RowColor spreads pitch rows across the palette so each row has its own hue.
func (t *Theme) RowColor(row, rows int) RGB {
	if rows <= 1 {
		return t.RGB(RoleActive)
	}
	return t.RGB(RoleMuted + (RoleSuccess-RoleMuted)*float64(row)/float64(rows-1))
}
