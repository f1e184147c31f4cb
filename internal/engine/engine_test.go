package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamgrid/internal/beam"
	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
	"beamgrid/internal/level"
	"beamgrid/internal/objective"
	"beamgrid/internal/placement"
)

const surface = 600.0

func builtin(t *testing.T, id string) *level.Level {
	t.Helper()
	l, err := level.MustBuiltin().ByID(id)
	require.NoError(t, err)
	return l
}

func newSession(t *testing.T, id string, opts ...Option) *Session {
	t.Helper()
	s, err := New(builtin(t, id), opts...)
	require.NoError(t, err)
	return s
}

// centre returns the pixel at the middle of tile (row, col) on a square
// surface of a 10x10 grid.
func centre(row, col int) (x, y float64) {
	tile := surface / 10
	return (float64(col) + 0.5) * tile, (float64(row) + 0.5) * tile
}

func TestSandboxEmptyGridBeamExits(t *testing.T) {
	s := newSession(t, "sandbox")

	assert.Equal(t, 10, s.Grid().Len())
	res := s.Trace()
	require.Len(t, res.Segments, 1)
	assert.Equal(t, core.Pt(5, 0), res.Segments[0].From)
	assert.Equal(t, core.Pt(5, 9), res.Segments[0].To)
	assert.Equal(t, beam.EndExit, res.Segments[0].End)
	assert.False(t, s.Solved())
	assert.Equal(t, objective.Unsolved, s.Objective().Status)
}

func TestSandboxPrismByKeyAndClick(t *testing.T) {
	s := newSession(t, "sandbox")

	require.NoError(t, s.SelectKey("8"))
	assert.Contains(t, s.ToolName(), "Prism")

	x, y := centre(5, 5)
	require.NoError(t, s.Click(x, y, surface, surface))

	cell := s.Grid().Rows()[5][5]
	require.NotNil(t, cell)
	assert.Equal(t, "prism", cell.Type)
	assert.Equal(t, int(core.DirRight), cell.Rotation)

	// The edit is picked up on the next tick.
	assert.True(t, s.Dirty())
	assert.False(t, s.Solved())
	s.Step()
	assert.False(t, s.Dirty())

	out := s.Trace().From(core.Pt(5, 5))
	assert.GreaterOrEqual(t, len(out), 2)
	// The upward output reaches the sandbox sensor.
	assert.True(t, s.Solved())
	assert.Equal(t, "ALL SENSORS LIT", s.Status())
}

func TestTutorialSolveAndUnsolve(t *testing.T) {
	s := newSession(t, "tutorial")
	assert.Equal(t, catalog.Mirror, s.Tool().Kind)
	assert.False(t, s.Solved())

	require.NoError(t, s.Apply(5, 4))
	s.Recompute()
	assert.True(t, s.Solved())

	rep, ok := s.Trace().Sensor(core.Pt(0, 4))
	require.True(t, ok)
	assert.True(t, rep.Hit)

	// Clicking the same kind again rotates it away from the sensor.
	require.NoError(t, s.Apply(5, 4))
	s.Step()
	assert.False(t, s.Solved())
	assert.Equal(t, "0/1 sensors lit", s.Status())

	require.NoError(t, s.SelectKey("x"))
	require.NoError(t, s.Apply(5, 4))
	s.Step()
	cell, err := s.Grid().Get(5, 4)
	require.NoError(t, err)
	assert.True(t, cell.Empty())
}

func TestRejectedCommandsReportStatus(t *testing.T) {
	var buf bytes.Buffer
	s := newSession(t, "tutorial", WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	err := s.Apply(5, 0)
	assert.True(t, errors.Is(err, placement.ErrCellLocked))
	assert.Contains(t, s.Status(), "locked")

	require.NoError(t, s.SelectTool(9))
	err = s.Apply(6, 6)
	assert.True(t, errors.Is(err, placement.ErrNotPlaceable), "wall is outside the tutorial palette")

	require.NoError(t, s.SelectTool(1))
	require.NoError(t, s.Place(3, 3, catalog.Mirror, catalog.Slash))
	err = s.Place(3, 3, catalog.Mirror, catalog.Slash)
	assert.True(t, errors.Is(err, placement.ErrCellOccupied))
	require.NoError(t, s.Place(3, 4, catalog.Mirror, catalog.Slash))
	assert.True(t, errors.Is(s.Apply(3, 5), placement.ErrPaletteExhausted))

	err = s.SelectKey("q")
	assert.True(t, errors.Is(err, catalog.ErrUnknownToolKind))
	assert.Equal(t, catalog.Mirror, s.Tool().Kind)

	err = s.Click(-1, 10, surface, surface)
	assert.True(t, errors.Is(err, core.ErrOutOfBounds))
	err = s.Click(10, 10, 0, surface)
	assert.True(t, errors.Is(err, core.ErrOutOfBounds))

	assert.Contains(t, buf.String(), "command rejected")
}

func TestApplyDoesNotOverwriteOtherKinds(t *testing.T) {
	s := newSession(t, "sandbox")
	require.NoError(t, s.SelectKey("8"))
	require.NoError(t, s.Apply(5, 5))
	require.NoError(t, s.SelectKey("1"))

	err := s.Apply(5, 5)

	assert.True(t, errors.Is(err, placement.ErrCellOccupied))
	assert.Equal(t, "prism", s.Grid().Cell(5, 5).Type)
}

func TestPaintFillsOnlyEmptyCells(t *testing.T) {
	s := newSession(t, "sandbox")
	require.NoError(t, s.SelectKey("8"))

	for col := 2; col <= 4; col++ {
		require.NoError(t, s.Paint(5, col))
	}
	require.NoError(t, s.Rotate(5, 3))
	rotated := s.Grid().Cell(5, 3).Rotation

	// Painting over existing pieces and fixed cells changes nothing.
	require.NoError(t, s.Paint(5, 3))
	require.NoError(t, s.Paint(5, 0))
	assert.Equal(t, rotated, s.Grid().Cell(5, 3).Rotation)
	assert.Equal(t, "emitter", s.Grid().Cell(5, 0).Type)
	assert.Equal(t, 3, s.Pieces())

	require.NoError(t, s.SelectKey("x"))
	require.NoError(t, s.Paint(5, 2))
	require.NoError(t, s.Paint(5, 6))
	assert.Equal(t, 2, s.Pieces())
	assert.Nil(t, s.Grid().Cell(5, 2))

	assert.ErrorIs(t, s.Paint(10, 0), core.ErrOutOfBounds)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Paint(5, 4), ErrClosed)
}

func TestCellAtMapsPixelsToTiles(t *testing.T) {
	s := newSession(t, "sandbox")

	p, err := s.CellAt(0, 0, 400, 200)
	require.NoError(t, err)
	assert.Equal(t, core.Pt(0, 0), p)

	p, err = s.CellAt(399.9, 199.9, 400, 200)
	require.NoError(t, err)
	assert.Equal(t, core.Pt(9, 9), p)

	p, err = s.CellAt(45, 61, 400, 200)
	require.NoError(t, err)
	assert.Equal(t, core.Pt(3, 1), p)

	_, err = s.CellAt(400, 0, 400, 200)
	assert.True(t, errors.Is(err, core.ErrOutOfBounds))
}

func TestScatteredWallsAreSeeded(t *testing.T) {
	a := newSession(t, "sandbox", WithSeed(7))
	b := newSession(t, "sandbox", WithSeed(7))

	if diff := cmp.Diff(a.Cells(), b.Cells()); diff != "" {
		t.Fatalf("same seed produced different grids:\n%s", diff)
	}
	assert.NotEqual(t, a.ID(), b.ID())

	walls := 0
	for r, row := range a.Grid().Rows() {
		for c, cell := range row {
			if cell == nil || cell.Type != string(catalog.Wall) {
				continue
			}
			walls++
			assert.True(t, cell.Locked)
			assert.NotContains(t, []int{0, 5}, r, "wall at (%d,%d) blocks a fixed row", r, c)
			assert.NotContains(t, []int{0, 5}, c, "wall at (%d,%d) blocks a fixed column", r, c)
		}
	}
	assert.Equal(t, 6, walls)

	a.Reset(7)
	assert.Equal(t, b.Cells(), a.Cells())
}

func TestResetClearsPlayerPieces(t *testing.T) {
	s := newSession(t, "sandbox")
	require.NoError(t, s.Place(5, 5, catalog.Prism, 1))
	s.Step()
	require.True(t, s.Solved())
	assert.Equal(t, 1, s.Pieces())

	s.Reset(s.Seed())

	assert.Nil(t, s.Grid().Cell(5, 5))
	assert.Zero(t, s.Pieces())
	assert.False(t, s.Solved())
	assert.Equal(t, catalog.DefaultTool(), s.Tool())
	assert.Equal(t, s.Level().Description, s.Status())
}

func TestBuiltinLevelsHaveSolutions(t *testing.T) {
	cases := []struct {
		id     string
		pieces []placement.Change
	}{
		{"tutorial", []placement.Change{{At: core.Pt(5, 4), Kind: catalog.Mirror, Orientation: catalog.Slash}}},
		{"prism-split", []placement.Change{
			{At: core.Pt(1, 5), Kind: catalog.Mirror, Orientation: catalog.Backslash},
			{At: core.Pt(5, 5), Kind: catalog.Prism, Orientation: int(core.DirDown)},
		}},
		{"color-mix", []placement.Change{{At: core.Pt(2, 7), Kind: catalog.Splitter, Orientation: catalog.Slash}}},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			s := newSession(t, tc.id)
			require.False(t, s.Solved())
			assert.Zero(t, s.Objective().Lit(), "a sensor is lit before any piece is placed")
			for _, p := range tc.pieces {
				require.NoError(t, s.Place(p.At.Row, p.At.Col, p.Kind, p.Orientation))
			}
			s.Step()
			assert.True(t, s.Solved(), "status %q", s.Status())
		})
	}
}

func TestBuiltinLevelsStartDark(t *testing.T) {
	for _, l := range level.MustBuiltin().All() {
		t.Run(l.ID, func(t *testing.T) {
			s := newSession(t, l.ID)
			for i, rep := range s.Trace().Sensors {
				assert.False(t, s.Objective().Satisfied[i], "sensor at %v starts lit", rep.At)
			}
			assert.Zero(t, s.Objective().Lit())
		})
	}
}

func TestLoopingLevelReportsOverflow(t *testing.T) {
	l := &level.Level{
		ID:       "loop",
		Title:    "Loop",
		Rows:     10,
		Cols:     10,
		Emitters: []core.Emitter{{At: core.Pt(9, 5), Dir: core.DirUp, Color: core.ColorWhite, Intensity: 120}},
		Obstacles: []level.Obstacle{
			{At: core.Pt(5, 5), Kind: catalog.Prism, Orientation: int(core.DirUp)},
			{At: core.Pt(2, 5), Kind: catalog.Mirror, Orientation: catalog.Slash},
			{At: core.Pt(2, 8), Kind: catalog.Mirror, Orientation: catalog.Backslash},
			{At: core.Pt(5, 8), Kind: catalog.Mirror, Orientation: catalog.Slash},
		},
	}
	s, err := New(l, WithTraceOptions(beam.Options{MaxHops: 50}))
	require.NoError(t, err)

	assert.True(t, s.Trace().Overflow)
	assert.False(t, s.Solved(), "a level without sensors is never solved")
	p, ok := s.Parameters().Lookup("overflow")
	require.True(t, ok)
	assert.Equal(t, "true", p.Value)
}

func TestGridJSONShape(t *testing.T) {
	s := newSession(t, "sandbox")
	require.NoError(t, s.Place(5, 5, catalog.Prism, int(core.DirRight)))

	raw, err := json.Marshal(s.Grid())
	require.NoError(t, err)

	var grid [][]*struct {
		Type     string `json:"type"`
		Rotation int    `json:"rotation"`
	}
	require.NoError(t, json.Unmarshal(raw, &grid))
	require.Len(t, grid, 10)
	require.NotNil(t, grid[5][5])
	assert.Equal(t, "prism", grid[5][5].Type)
	assert.Equal(t, 1, grid[5][5].Rotation)
	assert.Equal(t, "emitter", grid[5][0].Type)
	assert.Nil(t, grid[5][4])
}

func TestParameters(t *testing.T) {
	s := newSession(t, "prism-split")
	require.NoError(t, s.SelectKey("8"))

	params := s.Parameters()
	tool, ok := params.Lookup("tool")
	require.True(t, ok)
	assert.Equal(t, "Prism Splitter", tool.Value)
	left, _ := params.Lookup("remaining")
	assert.Equal(t, "1", left.Value)
	lit, _ := params.Lookup("lit")
	assert.Equal(t, "0/3", lit.Value)
}

func TestClosedSessionRejectsCommands(t *testing.T) {
	s := newSession(t, "sandbox")
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.ErrorIs(t, s.Place(1, 1, catalog.Wall, 0), ErrClosed)
	assert.ErrorIs(t, s.Click(1, 1, surface, surface), ErrClosed)
	assert.ErrorIs(t, s.SelectTool(2), ErrClosed)
	s.Step()
	assert.Equal(t, 0, s.Steps())
}

func TestCellsUseCatalogCodes(t *testing.T) {
	s := newSession(t, "tutorial")
	cells := s.Cells()
	require.Len(t, cells, 100)
	assert.Equal(t, catalog.Code(catalog.Emitter), cells[5*10+0])
	assert.Equal(t, catalog.Code(catalog.Sensor), cells[0*10+4])
	assert.Equal(t, uint8(0), cells[1])
}
