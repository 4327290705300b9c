package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pentaseq/debug"
	"go-pentaseq/midi"
	"go-pentaseq/sequencer"
	"go-pentaseq/theme"
	"go-pentaseq/widgets"
)

const tempoStep = 5

// Controls is the part of *sequencer.Session the UI drives.
type Controls interface {
	ToggleCell(pitch, step int) error
	SetTempo(bpm int) error
	TogglePlay() error
	Send(cmd sequencer.Command) error
	Bounds() sequencer.Bounds
}

// layoutBounds holds cached layout info
type layoutBounds struct {
	gridTop  int
	gridLeft int
}

type Model struct {
	Session   Controls
	Board     *Board
	Surface   *midi.GridSurface // nil when no grid controller support
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	Labels    []string // one per pitch, pitch 0 first

	ctx        context.Context
	cursorP    int
	cursorS    int
	status     string
	quitting   bool
	bounds     *layoutBounds
	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// NewModel creates the UI. Pad listeners started for connected controllers
// stop when ctx is done.
func NewModel(ctx context.Context, session Controls, board *Board, th *theme.Theme, labels []string) Model {
	return Model{
		Session: session,
		Board:   board,
		Theme:   th,
		Labels:  labels,
		ctx:     ctx,
		bounds:  &layoutBounds{},
	}
}

func ListenForUpdates(board *Board) tea.Cmd {
	return func() tea.Msg {
		<-board.Updates()
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Board)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if pitch, step, ok := m.hitTest(msg.X, msg.Y); ok {
				m.cursorP, m.cursorS = pitch, step
				m.report(m.Session.ToggleCell(pitch, step))
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Board)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			if m.Surface != nil {
				m.Surface.SetController(event.Controller)
				go m.Surface.Listen(m.ctx, event.Controller, m.handlePad)
			}
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				// hand the LEDs to another connected Launchpad, if any
				m.controller = nil
				if m.DeviceMgr != nil {
					m.controller = m.DeviceMgr.Launchpad()
				}
				if m.Surface != nil {
					m.Surface.SetController(m.controller)
				}
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	rows, steps := m.Board.Pitches(), m.Board.Steps()

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.report(m.Session.Send(sequencer.Stop{}))
		return m, tea.Quit

	case "h", "left":
		m.cursorS = (m.cursorS - 1 + steps) % steps
	case "l", "right":
		m.cursorS = (m.cursorS + 1) % steps
	case "k", "up":
		if m.cursorP < rows-1 {
			m.cursorP++
		}
	case "j", "down":
		if m.cursorP > 0 {
			m.cursorP--
		}

	case " ", "enter":
		m.report(m.Session.ToggleCell(m.cursorP, m.cursorS))

	case "p":
		m.report(m.Session.TogglePlay())

	case "+", "=":
		m.report(m.Session.SetTempo(m.Board.State().Tempo + tempoStep))
	case "-", "_":
		m.report(m.Session.SetTempo(m.Board.State().Tempo - tempoStep))

	case "c":
		m.report(m.Session.Send(sequencer.ClearPattern{}))
	}
	return m, nil
}

// handlePad runs on the pad listener goroutine.
func (m Model) handlePad(a midi.PadAction) {
	var err error
	switch a.Kind {
	case midi.PadToggle:
		err = m.Session.ToggleCell(a.Pitch, a.Step)
	case midi.PadPlay:
		err = m.Session.TogglePlay()
	}
	if err != nil {
		debug.Log("pad", "%+v: %v", a, err)
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		debug.Log("tui", "%v", err)
		return
	}
	m.status = ""
}

// hitTest maps a terminal cell to a grid cell.
func (m Model) hitTest(x, y int) (pitch, step int, ok bool) {
	rows, steps := m.Board.Pitches(), m.Board.Steps()
	line := y - m.bounds.gridTop
	if line < 0 || line >= rows || x < m.bounds.gridLeft {
		return 0, 0, false
	}
	step = (x - m.bounds.gridLeft) / 2
	if step >= steps {
		return 0, 0, false
	}
	return rows - 1 - line, step, true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Board.State()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := string(m.Theme.Symbols.Pause) + " STOP"
	if st.Playing {
		playState = string(m.Theme.Symbols.Play) + " PLAY"
	}

	stepText := "--"
	if st.Active >= 0 {
		stepText = fmt.Sprintf("%02d", st.Active+1)
	}

	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = "  LP:X"
	}

	interval := widgets.FormatDuration(sequencer.Interval(st.Tempo))
	header := headerStyle.Render(fmt.Sprintf("go-pentaseq  %s  %3dbpm (%s)  step:%s%s", playState, st.Tempo, interval, stepText, deviceStatus))

	gridView, labelWidth := m.renderGrid(st)

	// Compute layout bounds
	m.bounds.gridTop = 1 + lipgloss.Height(header) + 1 + 1 // step numbers
	m.bounds.gridLeft = labelWidth + 1

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(gridView)

	if m.controller != nil && m.Surface != nil {
		out.WriteString("\n\n")
		out.WriteString(widgets.RenderPadGrid(widgets.PadGrid(m.Surface.Render())))
	}

	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp(m.Session.Bounds()))))

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}

	return out.String()
}

// renderGrid draws the highest pitch on top, one symbol per step.
func (m Model) renderGrid(st BoardState) (string, int) {
	rows := len(st.Cells)
	labelWidth := 0
	for _, l := range m.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}

	sym := m.Theme.Symbols
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG()).Width(labelWidth)
	emptyStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	playheadStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	// step numbers, last digit only so each stays one cell wide
	var ruler strings.Builder
	ruler.WriteString(strings.Repeat(" ", labelWidth+1))
	steps := 0
	if rows > 0 {
		steps = len(st.Cells[0])
	}
	for s := 0; s < steps; s++ {
		digit := strconv.Itoa((s + 1) % 10)
		if s == st.Active {
			ruler.WriteString(playheadStyle.Render(digit))
		} else {
			ruler.WriteString(emptyStyle.Render(digit))
		}
		ruler.WriteString(" ")
	}

	lines := []string{ruler.String()}
	for p := rows - 1; p >= 0; p-- {
		var line strings.Builder
		label := ""
		if p < len(m.Labels) {
			label = m.Labels[p]
		}
		line.WriteString(labelStyle.Render(label))
		line.WriteString(" ")

		onStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Theme.RowColor(p, rows).Hex()))
		for s := range st.Cells[p] {
			on := st.Cells[p][s]
			var cell string
			switch {
			case p == m.cursorP && s == m.cursorS && on:
				cell = cursorStyle.Render(string(sym.CursorActive))
			case p == m.cursorP && s == m.cursorS:
				cell = cursorStyle.Render(string(sym.CursorEmpty))
			case s == st.Active && on:
				cell = playheadStyle.Render(string(sym.StepHit))
			case s == st.Active:
				cell = playheadStyle.Render(string(sym.StepPlayhead))
			case on:
				cell = onStyle.Render(string(sym.StepActive))
			default:
				cell = emptyStyle.Render(string(sym.StepEmpty))
			}
			line.WriteString(cell)
			line.WriteString(" ")
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n"), labelWidth
}

func keyHelp(b sequencer.Bounds) []widgets.KeySection {
	return []widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "hjkl/arrows", Desc: "move"},
			{Key: "space/enter", Desc: "toggle cell (or click)"},
			{Key: "p", Desc: "play/stop"},
			{Key: "+/-", Desc: fmt.Sprintf("tempo ±%d (%d-%d bpm)", tempoStep, b.Min, b.Max)},
			{Key: "c", Desc: "clear pattern"},
			{Key: "q", Desc: "quit"},
		}},
	}
}
