// Package engine ties the grid, tracer, placement rules and objective
// together into a playable session for one level.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"beamgrid/internal/beam"
	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
	"beamgrid/internal/ctxlog"
	"beamgrid/internal/level"
	"beamgrid/internal/objective"
	"beamgrid/internal/placement"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("session closed")

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed seeds the placement of scattered walls.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithTraceOptions overrides the tracer budgets.
func WithTraceOptions(o beam.Options) Option {
	return func(s *Session) { s.traceOpts = o }
}

// Session is one play-through of a level. It is not safe for concurrent use.
type Session struct {
	id     string
	level  *level.Level
	logger *slog.Logger
	seed   int64

	grid      *core.Grid
	layout    *core.Grid
	layoutFor int64
	ctrl      *placement.Controller
	tool      catalog.Tool
	traceOpts beam.Options

	dirty  bool
	trace  beam.Result
	result objective.Result
	status string
	steps  int
	closed bool
}

var _ core.Sim = (*Session)(nil)

// New starts a session on l.
func New(l *level.Level, opts ...Option) (*Session, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil level", level.ErrInvalidLevel)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:     uuid.New().String(),
		level:  l,
		logger: ctxlog.Discard(),
		seed:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id, "level", l.ID)
	s.Reset(s.seed)
	s.logger.Info("session started", "rows", l.Rows, "cols", l.Cols, "emitters", len(l.Emitters), "sensors", len(l.Sensors))
	return s, nil
}

// ID returns the unique session id.
func (s *Session) ID() string { return s.id }

// Level returns the level being played.
func (s *Session) Level() *level.Level { return s.level }

// Name returns the level title.
func (s *Session) Name() string { return s.level.Title }

// Size returns the grid dimensions.
func (s *Session) Size() core.Size { return s.grid.Size() }

// Seed returns the seed the grid was last built with.
func (s *Session) Seed() int64 { return s.seed }

// Reset rebuilds the grid from the level, discarding player pieces, and
// selects the default tool.
func (s *Session) Reset(seed int64) {
	if s.layout == nil || s.layoutFor != seed {
		s.layout = build(s.level, seed)
		s.layoutFor = seed
	}
	s.seed = seed
	s.grid = s.layout.Clone()
	s.ctrl = placement.New(s.grid, allowances(s.level.Palette))
	s.ctrl.OnChange(s.changed)
	s.tool = catalog.DefaultTool()
	s.steps = 0
	s.result = objective.Result{}
	s.status = s.level.Description
	s.Recompute()
}

// Grid returns a read-only view of the grid.
func (s *Session) Grid() GridView { return GridView{g: s.grid} }

// Cells returns the catalog code of every cell in row-major order.
func (s *Session) Cells() []uint8 {
	rows, cols := s.grid.Dimensions()
	out := make([]uint8, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell, _ := s.grid.Get(r, c)
			out = append(out, catalog.Code(cell.Kind))
		}
	}
	return out
}

// Pieces returns the number of player-placed components on the grid.
func (s *Session) Pieces() int {
	rows, cols := s.grid.Dimensions()
	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if cell, _ := s.grid.Get(r, c); !cell.Empty() && !cell.Locked {
				n++
			}
		}
	}
	return n
}

// Tool returns the selected tool.
func (s *Session) Tool() catalog.Tool { return s.tool }

// ToolName returns the display name of the selected tool.
func (s *Session) ToolName() string { return s.tool.Name() }

// SelectTool selects the tool with the given index.
func (s *Session) SelectTool(index int) error {
	if s.closed {
		return ErrClosed
	}
	t, err := catalog.ToolByIndex(index)
	if err != nil {
		return s.reject("select tool", err)
	}
	s.setTool(t)
	return nil
}

// SelectKey selects the tool bound to a keyboard key.
func (s *Session) SelectKey(key string) error {
	if s.closed {
		return ErrClosed
	}
	t, err := catalog.ToolByKey(key)
	if err != nil {
		return s.reject("select tool", err)
	}
	s.setTool(t)
	return nil
}

func (s *Session) setTool(t catalog.Tool) {
	s.tool = t
	s.status = "Selected: " + t.Name()
	s.logger.Debug("tool selected", "tool", t.Name(), "index", t.Index)
}

// Remaining returns how many more pieces of kind may be placed, or -1 when
// unlimited.
func (s *Session) Remaining(kind core.Kind) int { return s.ctrl.Remaining(kind) }

// Place puts a component on an empty cell.
func (s *Session) Place(row, col int, kind core.Kind, orientation int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.ctrl.Place(row, col, kind, orientation); err != nil {
		return s.reject("place", err)
	}
	return nil
}

// Remove clears a player-placed component.
func (s *Session) Remove(row, col int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.ctrl.Remove(row, col); err != nil {
		return s.reject("remove", err)
	}
	return nil
}

// Rotate advances the orientation of a player-placed component.
func (s *Session) Rotate(row, col int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.ctrl.Rotate(row, col); err != nil {
		return s.reject("rotate", err)
	}
	return nil
}

// Apply uses the selected tool on (row, col): the eraser removes, the same
// kind rotates and an empty cell receives a new piece. A cell holding a
// different kind is left alone.
func (s *Session) Apply(row, col int) error {
	if s.closed {
		return ErrClosed
	}
	cur, err := s.grid.Get(row, col)
	if err != nil {
		return s.reject("apply", err)
	}
	switch {
	case s.tool.Eraser:
		return s.Remove(row, col)
	case !cur.Empty() && cur.Kind == s.tool.Kind:
		return s.Rotate(row, col)
	default:
		return s.Place(row, col, s.tool.Kind, s.tool.Orientation)
	}
}

// Paint applies the selected tool while dragging across cells: the eraser
// clears player pieces and every other tool fills empty cells only. Occupied
// and locked cells are skipped silently, so a drag never rotates or
// overwrites.
func (s *Session) Paint(row, col int) error {
	if s.closed {
		return ErrClosed
	}
	cur, err := s.grid.Get(row, col)
	if err != nil {
		return s.reject("paint", err)
	}
	switch {
	case cur.Locked:
		return nil
	case s.tool.Eraser:
		if cur.Empty() {
			return nil
		}
		return s.Remove(row, col)
	case !cur.Empty():
		return nil
	default:
		return s.Place(row, col, s.tool.Kind, s.tool.Orientation)
	}
}

// CellAt maps a pixel position on a width x height surface, divided evenly
// into the grid's tiles, to a cell.
func (s *Session) CellAt(x, y, width, height float64) (core.Point, error) {
	rows, cols := s.grid.Dimensions()
	if width <= 0 || height <= 0 {
		return core.Point{}, fmt.Errorf("surface %vx%v: %w", width, height, core.ErrOutOfBounds)
	}
	tileW := width / float64(cols)
	tileH := height / float64(rows)
	p := core.Pt(int(math.Floor(y/tileH)), int(math.Floor(x/tileW)))
	if !s.grid.InBounds(p) {
		return p, fmt.Errorf("click %v: %w", p, core.ErrOutOfBounds)
	}
	return p, nil
}

// Click applies the selected tool to the cell under pixel (x, y).
func (s *Session) Click(x, y, width, height float64) error {
	if s.closed {
		return ErrClosed
	}
	p, err := s.CellAt(x, y, width, height)
	if err != nil {
		return s.reject("click", err)
	}
	return s.Apply(p.Row, p.Col)
}

// Step advances one tick, re-tracing only when the grid changed.
func (s *Session) Step() {
	if s.closed {
		return
	}
	s.steps++
	if s.dirty {
		s.Recompute()
	}
}

// Steps returns the number of ticks since the last reset.
func (s *Session) Steps() int { return s.steps }

// Dirty reports whether the grid changed since the last trace.
func (s *Session) Dirty() bool { return s.dirty }

// Recompute re-traces the grid and re-evaluates the objective immediately.
func (s *Session) Recompute() {
	was := s.result.Status
	s.trace = beam.Trace(s.grid, s.level.Emitters, s.level.Sensors, s.traceOpts)
	s.result = objective.Evaluate(s.level.Sensors, s.trace.Sensors)
	s.dirty = false

	if s.trace.Overflow {
		s.logger.Warn("trace budget exceeded", "segments", len(s.trace.Segments), "infinite", s.trace.Infinite())
	}
	switch {
	case s.result.Status == objective.Solved && was != objective.Solved:
		s.status = "ALL SENSORS LIT"
		s.logger.Info("level solved", "segments", len(s.trace.Segments), "steps", s.steps)
	case s.result.Status != objective.Solved && was == objective.Solved:
		s.status = fmt.Sprintf("%d/%d sensors lit", s.result.Lit(), len(s.level.Sensors))
	}
}

// Trace returns the most recent trace.
func (s *Session) Trace() beam.Result { return s.trace }

// Objective returns the most recent evaluation.
func (s *Session) Objective() objective.Result { return s.result }

// Solved reports whether every sensor is lit.
func (s *Session) Solved() bool { return s.result.Status == objective.Solved }

// Status returns a one-line description of the last event.
func (s *Session) Status() string { return s.status }

// Close ends the session. Later commands fail with ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.logger.Info("session closed", "steps", s.steps, "solved", s.Solved())
	return nil
}

// Parameters summarises the session for display.
func (s *Session) Parameters() core.ParameterSnapshot {
	status := objective.Unsolved.String()
	if s.Solved() {
		status = objective.Solved.String()
	}
	remaining := "-"
	if !s.tool.Eraser {
		if n := s.ctrl.Remaining(s.tool.Kind); n >= 0 {
			remaining = fmt.Sprint(n)
		} else {
			remaining = "unlimited"
		}
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Level", Params: []core.Parameter{
			core.StringParam("level", "Level", s.level.Title),
			core.StringParam("lit", "Sensors", fmt.Sprintf("%d/%d", s.result.Lit(), len(s.level.Sensors))),
			core.StringParam("status", "Status", status),
		}},
		{Name: "Tool", Params: []core.Parameter{
			core.StringParam("tool", "Tool", s.tool.Name()),
			core.StringParam("remaining", "Left", remaining),
		}},
		{Name: "Trace", Params: []core.Parameter{
			core.IntParam("segments", "Segments", len(s.trace.Segments)),
			core.BoolParam("overflow", "Overflow", s.trace.Overflow),
		}},
	}}
}

func (s *Session) changed(ch placement.Change) {
	s.dirty = true
	s.logger.Debug("grid changed", "op", ch.Op.String(), "at", ch.At.String(), "kind", string(ch.Kind), "orientation", ch.Orientation)
	name := string(ch.Kind)
	if def, ok := catalog.Lookup(ch.Kind); ok {
		name = def.Name
	}
	switch ch.Op {
	case placement.OpPlace:
		s.status = fmt.Sprintf("Placed %s at %v", name, ch.At)
	case placement.OpRemove:
		s.status = fmt.Sprintf("Removed %s at %v", name, ch.At)
	case placement.OpRotate:
		s.status = fmt.Sprintf("Rotated %s at %v", name, ch.At)
	}
}

func (s *Session) reject(op string, err error) error {
	s.status = err.Error()
	s.logger.Info("command rejected", "op", op, "error", err)
	return err
}

func allowances(palette []level.PaletteEntry) []placement.Allowance {
	out := make([]placement.Allowance, 0, len(palette))
	for _, p := range palette {
		out = append(out, placement.Allowance{Kind: p.Kind, Limit: p.Limit})
	}
	return out
}
