package engine

import (
	"encoding/json"

	"beamgrid/internal/core"
)

// CellView is the public shape of one occupied cell.
type CellView struct {
	Type     string `json:"type"`
	Rotation int    `json:"rotation"`
	Locked   bool   `json:"locked,omitempty"`
}

// GridView is a read-only window onto a session's grid.
type GridView struct {
	g *core.Grid
}

// Dimensions returns the number of rows and columns.
func (v GridView) Dimensions() (rows, cols int) { return v.g.Dimensions() }

// Get returns the occupant of (row, col).
func (v GridView) Get(row, col int) (core.Component, error) { return v.g.Get(row, col) }

// Len returns the number of rows.
func (v GridView) Len() int {
	rows, _ := v.g.Dimensions()
	return rows
}

// Cell returns the view of (row, col), or nil for an empty or out-of-range
// cell.
func (v GridView) Cell(row, col int) *CellView {
	c, err := v.g.Get(row, col)
	if err != nil || c.Empty() {
		return nil
	}
	return &CellView{Type: string(c.Kind), Rotation: c.Orientation, Locked: c.Locked}
}

// Rows returns the grid as rows of cells. Empty cells are nil.
func (v GridView) Rows() [][]*CellView {
	if v.g == nil {
		return nil
	}
	rows, cols := v.g.Dimensions()
	out := make([][]*CellView, rows)
	for r := range out {
		out[r] = make([]*CellView, cols)
		for c := range out[r] {
			out[r][c] = v.Cell(r, c)
		}
	}
	return out
}

// MarshalJSON encodes the grid as nested arrays, with null for empty cells.
func (v GridView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Rows())
}
