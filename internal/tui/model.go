// Package tui is a terminal front-end for the puzzle built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"beamgrid/internal/app"
	"beamgrid/internal/beam"
	"beamgrid/internal/core"
	"beamgrid/internal/ui"
)

// boardTop is the screen row of the first grid row: a title and a blank line
// sit above it.
const boardTop = 2

type tickMsg time.Time

// Model is the bubbletea model driving one Play.
type Model struct {
	ctx    context.Context
	play   *app.Play
	step   *core.FixedStep
	cursor core.Point
	// drag is set between a left press and its release; last is the cell
	// the drag most recently touched.
	drag bool
	last core.Point
	err  error
}

// New returns a model that advances play at tps ticks per second.
func New(ctx context.Context, play *app.Play, tps int) Model {
	return Model{ctx: ctx, play: play, step: core.NewFixedStep(tps)}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.step.Interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.step.ShouldStepAt(time.Time(msg)) {
			if err := m.play.Tick(m.ctx); err != nil {
				m.err = err
			}
		}
		return m, m.tick()
	case tea.KeyMsg:
		return m.key(msg.String())
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m Model) key(k string) (tea.Model, tea.Cmd) {
	s := m.play.Session()
	size := s.Size()
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, size.Rows-1)
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, size.Cols-1)
	case "enter":
		_ = s.Apply(m.cursor.Row, m.cursor.Col)
	case " ":
		m.play.TogglePause()
	case "n", "pgdown":
		m.err = m.play.Next()
		m.cursor = core.Point{}
	case "p", "pgup":
		m.err = m.play.Prev()
		m.cursor = core.Point{}
	case "r":
		m.play.Restart()
	default:
		// Unbound keys are rejected by the session and land in the status.
		_ = s.SelectKey(k)
	}
	return m, nil
}

// mouse applies the tool on a left press and paints empty cells while the
// button is dragged. Only cells on the board count.
func (m *Model) mouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionRelease {
		m.drag = false
		return
	}
	if msg.Button != tea.MouseButtonLeft {
		return
	}
	s := m.play.Session()
	size := s.Size()
	x, y := float64(msg.X), float64(msg.Y-boardTop)
	p, err := s.CellAt(x, y, float64(size.Cols*cellWidth), float64(size.Rows))
	if err != nil {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.drag = true
		_ = s.Apply(p.Row, p.Col)
	case tea.MouseActionMotion:
		if !m.drag || p == m.last {
			return
		}
		_ = s.Paint(p.Row, p.Col)
	}
	m.cursor = p
	m.last = p
}

// View renders the board, the side panel and the status line.
func (m Model) View() string {
	s := m.play.Session()
	var b strings.Builder

	title := fmt.Sprintf("beamgrid  %s (%d/%d)", s.Name(), m.play.Index()+1, len(m.play.Levels()))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	panel := append(ui.PanelLines(s.Parameters()), "")
	panel = append(panel, ui.ToolLines(s.Tool())...)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.board(), panelStyle.Render(strings.Join(panel, "\n"))))
	b.WriteString("\n\n")

	if s.Solved() {
		b.WriteString(solvedStyle.Render(s.Status()))
	} else {
		b.WriteString(statusStyle.Render(s.Status()))
	}
	if m.play.Paused() {
		b.WriteString("  " + dimStyle.Render("PAUSED"))
	}
	if m.err != nil {
		b.WriteString("\n" + statusStyle.Render("error: "+m.err.Error()))
	}
	b.WriteString("\n" + dimStyle.Render(ui.ToolHint(s.Tool())))
	b.WriteString("\n" + dimStyle.Render(ui.KeyHelp+"  arrows move  enter apply"))
	return b.String()
}

type mark struct {
	horiz, vert bool
	color       core.Color
}

func (m Model) board() string {
	s := m.play.Session()
	grid := s.Grid()
	rows, cols := grid.Dimensions()
	marks := beamMarks(s.Trace(), rows, cols)
	lit := make(map[core.Point]bool)
	for i, ok := range s.Objective().Satisfied {
		if i < len(s.Level().Sensors) && ok {
			lit[s.Level().Sensors[i].At] = true
		}
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			p := core.Pt(r, c)
			comp, _ := grid.Get(r, c)
			cell := m.cell(comp, marks[p], lit[p])
			if p == m.cursor {
				cell = cursorStyle.Render(cell)
			}
			line.WriteString(cell + strings.Repeat(" ", cellWidth-1))
		}
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}

func (m Model) cell(comp core.Component, mk *mark, lit bool) string {
	if !comp.Empty() {
		g := glyph(comp, lit)
		if comp.Locked {
			return fixedStyle.Render(g)
		}
		return g
	}
	if mk == nil {
		return dimStyle.Render(glyph(comp, false))
	}
	g := "─"
	switch {
	case mk.horiz && mk.vert:
		g = "┼"
	case mk.vert:
		g = "│"
	}
	return lipgloss.NewStyle().Foreground(beamColors[mk.color]).Render(g)
}

// beamMarks collects, for each cell a beam crosses, the axes it is crossed on
// and the mix of colours passing through.
func beamMarks(res beam.Result, rows, cols int) map[core.Point]*mark {
	out := make(map[core.Point]*mark)
	for _, seg := range res.Segments {
		vertical := seg.Dir == core.DirUp || seg.Dir == core.DirDown
		for p := seg.From; ; p = p.Step(seg.Dir) {
			if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
				break
			}
			mk, ok := out[p]
			if !ok {
				mk = &mark{}
				out[p] = mk
			}
			if vertical {
				mk.vert = true
			} else {
				mk.horiz = true
			}
			mk.color |= seg.Color
			if p == seg.To {
				break
			}
		}
	}
	return out
}
