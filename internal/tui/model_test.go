package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamgrid/internal/app"
	"beamgrid/internal/beam"
	"beamgrid/internal/core"
	"beamgrid/internal/level"
)

func newModel(t *testing.T, id string) (Model, *app.Play) {
	t.Helper()
	play := app.NewPlay(level.MustBuiltin(), 1, nil, nil)
	require.NoError(t, play.LoadID(id))
	t.Cleanup(func() { _ = play.Close() })
	return New(context.Background(), play, 30), play
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestMouseSolvesSandbox(t *testing.T) {
	m, play := newModel(t, "sandbox")

	m = update(t, m, runes("8"))
	assert.Contains(t, play.Session().ToolName(), "Prism")

	m = update(t, m, tea.MouseMsg{X: 5 * cellWidth, Y: boardTop + 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 5 * cellWidth, Y: boardTop + 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Equal(t, core.Pt(5, 5), m.cursor)
	require.NotNil(t, play.Session().Grid().Cell(5, 5))
	assert.Equal(t, "prism", play.Session().Grid().Cell(5, 5).Type)

	m = update(t, m, tickMsg(time.Now()))
	assert.True(t, play.Session().Solved())
	assert.Contains(t, m.View(), "ALL SENSORS LIT")
}

func TestMouseReleaseAndOutsideClicksIgnored(t *testing.T) {
	m, play := newModel(t, "sandbox")

	m = update(t, m, tea.MouseMsg{X: 2, Y: boardTop + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Zero(t, play.Session().Pieces())

	m = update(t, m, tea.MouseMsg{X: 2, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, core.Point{}, m.cursor)
	assert.Zero(t, play.Session().Pieces())

	m = update(t, m, tea.MouseMsg{X: 2, Y: boardTop + 5, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	assert.Zero(t, play.Session().Pieces())
}

func TestDragPaintsEmptyCells(t *testing.T) {
	m, play := newModel(t, "sandbox")
	s := play.Session()
	m = update(t, m, runes("8"))

	at := func(col int, action tea.MouseAction) tea.MouseMsg {
		return tea.MouseMsg{X: col * cellWidth, Y: boardTop + 5, Button: tea.MouseButtonLeft, Action: action}
	}

	// Motion before any press does nothing.
	m = update(t, m, at(1, tea.MouseActionMotion))
	assert.Zero(t, s.Pieces())

	m = update(t, m, at(2, tea.MouseActionPress))
	m = update(t, m, at(2, tea.MouseActionMotion))
	m = update(t, m, at(3, tea.MouseActionMotion))
	m = update(t, m, at(4, tea.MouseActionMotion))
	assert.Equal(t, 3, s.Pieces())
	assert.Equal(t, core.Pt(5, 4), m.cursor)

	// Dragging back over a piece neither rotates nor replaces it.
	m = update(t, m, at(3, tea.MouseActionMotion))
	assert.Equal(t, int(core.DirRight), s.Grid().Cell(5, 3).Rotation)
	assert.Equal(t, int(core.DirRight), s.Grid().Cell(5, 2).Rotation)

	m = update(t, m, at(3, tea.MouseActionRelease))
	m = update(t, m, at(6, tea.MouseActionMotion))
	assert.Nil(t, s.Grid().Cell(5, 6))

	// The eraser drag clears pieces.
	m = update(t, m, runes("x"))
	m = update(t, m, at(2, tea.MouseActionPress))
	m = update(t, m, at(3, tea.MouseActionMotion))
	update(t, m, at(4, tea.MouseActionMotion))
	assert.Zero(t, s.Pieces())
}

func TestSpaceTogglesPause(t *testing.T) {
	m, play := newModel(t, "tutorial")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, play.Paused())
	assert.Contains(t, m.View(), "PAUSED")

	require.NoError(t, play.Session().Apply(5, 4))
	m = update(t, m, tickMsg(time.Now()))
	assert.False(t, play.Session().Solved())

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, play.Paused())
	m = update(t, m, tickMsg(time.Now().Add(time.Second)))
	assert.True(t, play.Session().Solved())
	assert.NotContains(t, m.View(), "PAUSED")
}

func TestKeyboardSolvesTutorial(t *testing.T) {
	m, play := newModel(t, "tutorial")

	for i := 0; i < 5; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	for i := 0; i < 4; i++ {
		m = update(t, m, runes("l"))
	}
	assert.Equal(t, core.Pt(5, 4), m.cursor)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tickMsg(time.Now()))

	assert.True(t, play.Session().Solved())
	assert.Contains(t, m.View(), "ALL SENSORS LIT")
}

func TestCursorStaysOnBoard(t *testing.T) {
	m, _ := newModel(t, "tutorial")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, runes("h"))
	assert.Equal(t, core.Point{}, m.cursor)

	for i := 0; i < 20; i++ {
		m = update(t, m, runes("j"))
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	assert.Equal(t, core.Pt(9, 9), m.cursor)
}

func TestLevelKeys(t *testing.T) {
	m, play := newModel(t, "sandbox")
	first := play.Index()

	m = update(t, m, runes("n"))
	assert.Equal(t, first+1, play.Index())
	assert.Contains(t, m.View(), play.Session().Name())

	m = update(t, m, runes("p"))
	assert.Equal(t, first, play.Index())

	require.NoError(t, play.Session().Place(5, 5, "prism", 1))
	update(t, m, runes("r"))
	assert.Zero(t, play.Session().Pieces())
}

func TestUnknownKeyReportsStatus(t *testing.T) {
	m, play := newModel(t, "tutorial")

	m = update(t, m, runes("z"))

	assert.NotEmpty(t, play.Session().Status())
	assert.Contains(t, m.View(), play.Session().Status())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "tutorial")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestBeamMarks(t *testing.T) {
	res := beam.Result{Segments: []beam.Segment{
		{From: core.Pt(1, 0), To: core.Pt(1, 3), Dir: core.DirRight, Color: core.ColorRed},
		{From: core.Pt(3, 2), To: core.Pt(0, 2), Dir: core.DirUp, Color: core.ColorGreen},
	}}

	marks := beamMarks(res, 4, 4)

	require.Contains(t, marks, core.Pt(1, 2))
	cross := marks[core.Pt(1, 2)]
	assert.True(t, cross.horiz)
	assert.True(t, cross.vert)
	assert.Equal(t, core.ColorRed|core.ColorGreen, cross.color)
	assert.True(t, marks[core.Pt(1, 3)].horiz)
	assert.NotContains(t, marks, core.Pt(2, 0))
	assert.Len(t, marks, 7)
}
