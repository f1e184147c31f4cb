package core

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds reports a coordinate outside the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// View is the read-only side of a grid.
type View interface {
	Dimensions() (rows, cols int)
	Get(row, col int) (Component, error)
}

// Grid stores a fixed-size 2D array of cell occupants in row-major order.
type Grid struct {
	rows, cols int
	data       []Component
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(rows, cols int) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return &Grid{rows: rows, cols: cols, data: make([]Component, rows*cols)}
}

// Dimensions returns the number of rows and columns.
func (g *Grid) Dimensions() (rows, cols int) { return g.rows, g.cols }

// Size returns the dimensions as a Size.
func (g *Grid) Size() Size { return Size{Rows: g.rows, Cols: g.cols} }

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.cols + col }

// Get returns the occupant of (row, col).
func (g *Grid) Get(row, col int) (Component, error) {
	if !g.InBounds(Point{Row: row, Col: col}) {
		return Component{}, fmt.Errorf("get %v: %w", Pt(row, col), ErrOutOfBounds)
	}
	return g.data[g.Index(row, col)], nil
}

// Set replaces the occupant of (row, col) and returns the previous value.
// Setting a zero Component empties the cell.
func (g *Grid) Set(row, col int, c Component) (Component, error) {
	if !g.InBounds(Point{Row: row, Col: col}) {
		return Component{}, fmt.Errorf("set %v: %w", Pt(row, col), ErrOutOfBounds)
	}
	idx := g.Index(row, col)
	prev := g.data[idx]
	g.data[idx] = c
	return prev, nil
}

// At is Get for a Point.
func (g *Grid) At(p Point) (Component, error) { return g.Get(p.Row, p.Col) }

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, data: make([]Component, len(g.data))}
	copy(out.data, g.data)
	return out
}
