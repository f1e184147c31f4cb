// Package placement validates and applies player edits to a grid.
package placement

import (
	"errors"
	"fmt"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

var (
	// ErrCellLocked reports an edit of a level-fixed cell.
	ErrCellLocked = errors.New("cell is locked")
	// ErrCellOccupied reports a placement on a non-empty cell.
	ErrCellOccupied = errors.New("cell is occupied")
	// ErrCellEmpty reports a remove or rotate of an empty cell.
	ErrCellEmpty = errors.New("cell is empty")
	// ErrNotPlaceable reports a kind the player may not place here.
	ErrNotPlaceable = errors.New("kind not placeable")
	// ErrPaletteExhausted reports that the level's allowance for a kind is used up.
	ErrPaletteExhausted = errors.New("no pieces left")
	// ErrBadOrientation reports an orientation outside the catalog range.
	ErrBadOrientation = errors.New("invalid orientation")
)

// Op identifies the kind of edit in a Change.
type Op uint8

const (
	OpPlace Op = iota
	OpRemove
	OpRotate
)

func (o Op) String() string {
	switch o {
	case OpPlace:
		return "place"
	case OpRemove:
		return "remove"
	case OpRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Change describes an applied edit.
type Change struct {
	Op          Op
	At          core.Point
	Kind        core.Kind
	Orientation int
}

// Allowance limits how many pieces of a kind a level hands out. A zero
// Limit means unlimited.
type Allowance struct {
	Kind  core.Kind
	Limit int
}

// Controller applies place/remove/rotate commands. It never traces; callers
// learn about edits through the listeners registered with OnChange.
type Controller struct {
	grid *core.Grid

	// allowed is nil when every placeable kind is available without limit.
	allowed   map[core.Kind]int
	used      map[core.Kind]int
	listeners []func(Change)
}

// New returns a Controller editing grid. An empty palette allows every
// placeable kind without limit.
func New(grid *core.Grid, palette []Allowance) *Controller {
	c := &Controller{grid: grid, used: map[core.Kind]int{}}
	if len(palette) > 0 {
		c.allowed = make(map[core.Kind]int, len(palette))
		for _, a := range palette {
			c.allowed[a.Kind] = a.Limit
		}
	}
	return c
}

// OnChange registers fn to be called after every successful edit.
func (c *Controller) OnChange(fn func(Change)) {
	if fn != nil {
		c.listeners = append(c.listeners, fn)
	}
}

// Allowed reports whether the palette offers kind.
func (c *Controller) Allowed(kind core.Kind) bool {
	def, ok := catalog.Lookup(kind)
	if !ok || !def.Placeable {
		return false
	}
	if c.allowed == nil {
		return true
	}
	_, ok = c.allowed[kind]
	return ok
}

// Remaining returns how many more pieces of kind may be placed, or -1 when
// unlimited.
func (c *Controller) Remaining(kind core.Kind) int {
	if !c.Allowed(kind) {
		return 0
	}
	if c.allowed == nil || c.allowed[kind] == 0 {
		return -1
	}
	left := c.allowed[kind] - c.used[kind]
	if left < 0 {
		return 0
	}
	return left
}

// Place puts a new component of kind at (row, col). The cell must be empty;
// existing pieces are never overwritten.
func (c *Controller) Place(row, col int, kind core.Kind, orientation int) error {
	cur, err := c.editable(row, col)
	if err != nil {
		return err
	}
	if !cur.Empty() {
		return fmt.Errorf("place %s at %v: %w", kind, core.Pt(row, col), ErrCellOccupied)
	}
	if !c.Allowed(kind) {
		return fmt.Errorf("place %s: %w", kind, ErrNotPlaceable)
	}
	if !catalog.ValidOrientation(kind, orientation) {
		return fmt.Errorf("place %s orientation %d: %w", kind, orientation, ErrBadOrientation)
	}
	if c.Remaining(kind) == 0 {
		return fmt.Errorf("place %s: %w", kind, ErrPaletteExhausted)
	}
	if _, err := c.grid.Set(row, col, core.Component{Kind: kind, Orientation: orientation}); err != nil {
		return err
	}
	c.used[kind]++
	c.notify(Change{Op: OpPlace, At: core.Pt(row, col), Kind: kind, Orientation: orientation})
	return nil
}

// Remove empties (row, col).
func (c *Controller) Remove(row, col int) error {
	cur, err := c.editable(row, col)
	if err != nil {
		return err
	}
	if cur.Empty() {
		return fmt.Errorf("remove at %v: %w", core.Pt(row, col), ErrCellEmpty)
	}
	if _, err := c.grid.Set(row, col, core.Component{}); err != nil {
		return err
	}
	if c.used[cur.Kind] > 0 {
		c.used[cur.Kind]--
	}
	c.notify(Change{Op: OpRemove, At: core.Pt(row, col), Kind: cur.Kind, Orientation: cur.Orientation})
	return nil
}

// Rotate advances the orientation of the component at (row, col).
func (c *Controller) Rotate(row, col int) error {
	cur, err := c.editable(row, col)
	if err != nil {
		return err
	}
	if cur.Empty() {
		return fmt.Errorf("rotate at %v: %w", core.Pt(row, col), ErrCellEmpty)
	}
	cur.Orientation = catalog.Rotate(cur.Kind, cur.Orientation)
	if _, err := c.grid.Set(row, col, cur); err != nil {
		return err
	}
	c.notify(Change{Op: OpRotate, At: core.Pt(row, col), Kind: cur.Kind, Orientation: cur.Orientation})
	return nil
}

// editable returns the current occupant after checking bounds and locks.
func (c *Controller) editable(row, col int) (core.Component, error) {
	cur, err := c.grid.Get(row, col)
	if err != nil {
		return core.Component{}, err
	}
	if cur.Locked {
		return core.Component{}, fmt.Errorf("edit %v: %w", core.Pt(row, col), ErrCellLocked)
	}
	return cur, nil
}

func (c *Controller) notify(ch Change) {
	for _, fn := range c.listeners {
		fn(ch)
	}
}
