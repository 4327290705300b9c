package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-pentaseq/midi"
)

// RenderPad renders a single colored pad; an unlit pad is a dim dot.
func RenderPad(color [3]uint8) string {
	if color == ([3]uint8{}) {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#303030")).Render("·")
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors [][3]uint8) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// PadGrid builds the 9x9 Launchpad layout from a set of LED updates:
// [row][col] with row 0 at the bottom, row 8 the top buttons, col 8 the
// scene buttons. Pads not in leds are off.
func PadGrid(leds []midi.LEDUpdate) [9][9][3]uint8 {
	var grid [9][9][3]uint8
	for _, led := range leds {
		if led.Row < 0 || led.Row > 8 || led.Col < 0 || led.Col > 8 {
			continue
		}
		grid[led.Row][led.Col] = led.Color
	}
	return grid
}

// RenderPadGrid renders the 8x8 grid (row 0 at bottom, row 7 at top) plus the
// top button row and the scene column.
func RenderPadGrid(grid [9][9][3]uint8) string {
	var lines []string
	for row := 8; row >= 0; row-- {
		cols := 9
		if row == 8 {
			cols = 8 // no LED at 8,8
		}
		line := RenderPadRow(grid[row][:cols])
		if row == 8 {
			line += "\n"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
