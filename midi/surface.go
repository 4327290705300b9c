package midi

import (
	"context"
	"sync"
	"time"

	"go-pentaseq/debug"
	"go-pentaseq/theme"
)

const (
	ledFPS    = 30
	pageWidth = 8
	gridRows  = 8
)

// Launchpad function buttons
const (
	topPageLeft  = 2 // ◀ on the top row
	topPageRight = 3 // ▶ on the top row
	topFollow    = 4 // Session button: page follows the playhead
	sidePlay     = 7 // top scene button
)

// PadActionKind says what a pad press asks the session to do.
type PadActionKind int

const (
	PadNone PadActionKind = iota
	PadToggle
	PadPlay
)

// PadAction is a pad press translated to pattern coordinates.
type PadAction struct {
	Kind  PadActionKind
	Pitch int
	Step  int
}

// GridSurface mirrors the pattern on an 8x8 grid controller. Pitch 0 is the
// bottom row. Patterns wider than 8 steps are split into pages.
//
// The Show* methods only record state and mark it dirty; Run pushes the
// changed pads to the controller at ledFPS.
type GridSurface struct {
	theme   *theme.Theme
	pitches int
	steps   int

	mu         sync.Mutex
	cells      []bool
	active     int
	playing    bool
	page       int
	follow     bool
	dirty      bool
	controller Controller
	prev       map[[2]int]LEDUpdate
}

// NewGridSurface creates a surface for a pitches x steps pattern. Rows beyond
// the grid height are not shown.
func NewGridSurface(th *theme.Theme, pitches, steps int) *GridSurface {
	if pitches > gridRows {
		pitches = gridRows
	}
	return &GridSurface{
		theme:   th,
		pitches: pitches,
		steps:   steps,
		cells:   make([]bool, pitches*steps),
		active:  -1,
		follow:  true,
		prev:    make(map[[2]int]LEDUpdate),
	}
}

// SetController attaches c (nil detaches). The next frame repaints every pad.
func (g *GridSurface) SetController(c Controller) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.controller = c
	g.prev = make(map[[2]int]LEDUpdate)
	g.dirty = true
	if c != nil {
		debug.Log("surface", "controller %s attached", c.ID())
	}
}

// Controller returns the attached controller, or nil.
func (g *GridSurface) Controller() Controller {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.controller
}

func (g *GridSurface) HighlightStep(step int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = step
	if g.follow && step >= 0 {
		g.page = step / pageWidth
	}
	g.dirty = true
}

// ShowTempo is a no-op; the grid has no tempo display.
func (g *GridSurface) ShowTempo(int) {}

func (g *GridSurface) ShowPlayState(playing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playing = playing
	g.dirty = true
}

func (g *GridSurface) ShowCell(pitch, step int, enabled, _ bool) {
	if pitch < 0 || pitch >= g.pitches || step < 0 || step >= g.steps {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[pitch*g.steps+step] = enabled
	g.dirty = true
}

// Pages returns how many 8-step pages the pattern spans.
func (g *GridSurface) Pages() int {
	return (g.steps + pageWidth - 1) / pageWidth
}

// Page returns the page currently shown.
func (g *GridSurface) Page() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page
}

// Pad handles a press. Paging buttons are handled here and return PadNone;
// grid and play presses are returned for the caller to send to the session.
func (g *GridSurface) Pad(ev PadEvent) PadAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case ev.Row == 8:
		switch ev.Col {
		case topPageLeft:
			if g.page > 0 {
				g.page--
			}
			g.follow = false
		case topPageRight:
			if g.page < g.Pages()-1 {
				g.page++
			}
			g.follow = false
		case topFollow:
			g.follow = true
			if g.active >= 0 {
				g.page = g.active / pageWidth
			}
		}
		g.dirty = true
		return PadAction{}

	case ev.Col == 8:
		if ev.Row == sidePlay {
			return PadAction{Kind: PadPlay}
		}
		return PadAction{}
	}

	step := g.page*pageWidth + ev.Col
	if ev.Row >= g.pitches || step >= g.steps {
		return PadAction{}
	}
	return PadAction{Kind: PadToggle, Pitch: ev.Row, Step: step}
}

// Listen feeds the controller's pad presses through Pad and hands the
// resulting actions to handle. It returns when the controller closes its
// channel or ctx is done.
func (g *GridSurface) Listen(ctx context.Context, c Controller, handle func(PadAction)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.PadEvents():
			if !ok {
				return
			}
			if a := g.Pad(ev); a.Kind != PadNone {
				handle(a)
			}
		}
	}
}

// Render returns every lit pad for the current page. Unlisted pads are off.
func (g *GridSurface) Render() []LEDUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renderLocked()
}

func (g *GridSurface) renderLocked() []LEDUpdate {
	var leds []LEDUpdate
	playhead := g.theme.RGB(theme.RoleMuted).Scale(0.5)
	hit := g.theme.RGB(theme.RoleSuccess)

	for col := 0; col < pageWidth; col++ {
		step := g.page*pageWidth + col
		if step >= g.steps {
			break
		}
		for row := 0; row < g.pitches; row++ {
			on := g.cells[row*g.steps+step]
			switch {
			case on && step == g.active:
				leds = append(leds, LEDUpdate{Row: row, Col: col, Color: hit})
			case on:
				leds = append(leds, LEDUpdate{Row: row, Col: col, Color: g.theme.RowColor(row, g.pitches)})
			case step == g.active:
				leds = append(leds, LEDUpdate{Row: row, Col: col, Color: playhead})
			}
		}
	}

	nav := g.theme.RGB(theme.RoleFG)
	if g.page > 0 {
		leds = append(leds, LEDUpdate{Row: 8, Col: topPageLeft, Color: nav})
	}
	if g.page < g.Pages()-1 {
		leds = append(leds, LEDUpdate{Row: 8, Col: topPageRight, Color: nav})
	}
	if g.follow {
		leds = append(leds, LEDUpdate{Row: 8, Col: topFollow, Color: g.theme.RGB(theme.RoleAccent)})
	}

	if g.playing {
		leds = append(leds, LEDUpdate{Row: sidePlay, Col: 8, Color: g.theme.RGB(theme.RoleSuccess), Channel: ChannelPulse})
	} else {
		leds = append(leds, LEDUpdate{Row: sidePlay, Col: 8, Color: g.theme.RGB(theme.RoleMuted)})
	}
	return leds
}

// Run flushes LED changes at a fixed rate until ctx is done.
func (g *GridSurface) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.flush()
		}
	}
}

// flush sends only the pads that changed since the last frame.
func (g *GridSurface) flush() {
	g.mu.Lock()
	if !g.dirty || g.controller == nil {
		g.mu.Unlock()
		return
	}
	g.dirty = false
	c := g.controller
	updates := g.diffLocked(g.renderLocked())
	g.mu.Unlock()

	if len(updates) == 0 {
		return
	}
	debug.LogEvery(50, "led", "flush: batch=%d", len(updates))
	if err := c.SetLEDBatch(updates); err != nil {
		debug.Log("led", "flush failed: %v", err)
		// resend everything next frame
		g.mu.Lock()
		if g.controller == c {
			g.prev = make(map[[2]int]LEDUpdate)
			g.dirty = true
		}
		g.mu.Unlock()
	}
}

func (g *GridSurface) diffLocked(leds []LEDUpdate) []LEDUpdate {
	next := make(map[[2]int]LEDUpdate, len(leds))
	var updates []LEDUpdate

	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if prev, ok := g.prev[key]; !ok || prev != led {
			updates = append(updates, led)
		}
	}

	// Clear LEDs that are no longer lit
	for key := range g.prev {
		if _, ok := next[key]; !ok {
			updates = append(updates, LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	g.prev = next
	return updates
}
