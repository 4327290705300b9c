package widgets

import (
	"strings"
	"testing"

	"go-pentaseq/midi"
)

func TestPadGrid(t *testing.T) {
	red := [3]uint8{255, 0, 0}
	grid := PadGrid([]midi.LEDUpdate{
		{Row: 0, Col: 0, Color: red},
		{Row: 8, Col: 3, Color: red},
		{Row: 9, Col: 0, Color: red},
		{Row: 2, Col: -1, Color: red},
	})
	if grid[0][0] != red || grid[8][3] != red {
		t.Fatal("pads not placed")
	}
	lit := 0
	for _, row := range grid {
		for _, c := range row {
			if c != ([3]uint8{}) {
				lit++
			}
		}
	}
	if lit != 2 {
		t.Fatalf("%d pads lit, want 2", lit)
	}
}

func TestRenderPadGridShape(t *testing.T) {
	var grid [9][9][3]uint8
	grid[0][0] = [3]uint8{255, 0, 0}
	out := RenderPadGrid(grid)

	lines := strings.Split(out, "\n")
	// top row, a spacer, then 8 grid rows
	if len(lines) != 10 {
		t.Fatalf("%d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[9], "■") {
		t.Fatalf("bottom row has no lit pad: %q", lines[9])
	}
	if strings.Contains(lines[0], "■") {
		t.Fatalf("top row lit: %q", lines[0])
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "Grid", Keys: []KeyBinding{{Key: "space", Desc: "toggle"}}},
		{Keys: []KeyBinding{{Key: "q", Desc: "quit"}}},
	})
	want := "Grid\n  space        toggle\n  q            quit"
	if out != want {
		t.Fatalf("got\n%q\nwant\n%q", out, want)
	}
}
