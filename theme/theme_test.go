package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinPlasma(t *testing.T) {
	p, err := Builtin("plasma")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "plasma" || len(p.Colors) != 11 {
		t.Fatalf("name %q with %d colors", p.Name, len(p.Colors))
	}
	if p.Colors[0] != (RGB{13, 8, 135}) {
		t.Fatalf("first color %v", p.Colors[0])
	}
}

func TestParseGPLSkipsJunk(t *testing.T) {
	src := `GIMP Palette
Name: test
Columns: 2
# comment
0 0 0 black
bad line here
300 0 0 out of range
255 255 255 white
`
	p, err := ParseGPL(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Colors) != 2 || p.Colors[1] != (RGB{255, 255, 255}) {
		t.Fatalf("colors %v", p.Colors)
	}
}

func TestParseGPLEmpty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Fatal("expected error for a palette without colors")
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n10 20 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadGPL(path)
	if err != nil {
		t.Fatal(err)
	}
	// single color palette: every lookup returns it
	for _, n := range []float64{-1, 0, 0.5, 1, 2} {
		if got := p.Lookup(n); got != (RGB{10, 20, 30}) {
			t.Fatalf("Lookup(%g) = %v", n, got)
		}
	}
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	if got := p.Lookup(0.5); got != (RGB{100, 50, 25}) {
		t.Fatalf("Lookup(0.5) = %v", got)
	}
}

func TestThemeColors(t *testing.T) {
	th := MustDefault()
	if got := string(th.BG()); got != "#0d0887" {
		t.Fatalf("BG = %s", got)
	}
	if th.RowColor(0, 7) == th.RowColor(6, 7) {
		t.Fatal("rows share a color")
	}
	if got := (RGB{100, 50, 10}).Scale(0.5); got != (RGB{50, 25, 5}) {
		t.Fatalf("Scale = %v", got)
	}
}
