package engine

import (
	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
	"beamgrid/internal/level"
)

// build lays out the fixed elements of l on a fresh grid. Every fixed cell
// is locked.
func build(l *level.Level, seed int64) *core.Grid {
	g := core.NewGrid(l.Rows, l.Cols)
	for _, e := range l.Emitters {
		g.Set(e.At.Row, e.At.Col, core.Component{Kind: catalog.Emitter, Orientation: int(e.Dir), Locked: true})
	}
	for _, s := range l.Sensors {
		g.Set(s.At.Row, s.At.Col, core.Component{Kind: catalog.Sensor, Locked: true})
	}
	for _, o := range l.Obstacles {
		g.Set(o.At.Row, o.At.Col, core.Component{Kind: o.Kind, Orientation: o.Orientation, Locked: true})
	}
	scatter(g, l, seed)
	return g
}

// scatter drops l.ScatterWalls locked walls on free cells that share no row
// or column with an emitter or sensor, so the straight lines out of every
// fixed element stay open.
func scatter(g *core.Grid, l *level.Level, seed int64) {
	if l.ScatterWalls <= 0 {
		return
	}
	blockedRow := make(map[int]bool)
	blockedCol := make(map[int]bool)
	for _, e := range l.Emitters {
		blockedRow[e.At.Row], blockedCol[e.At.Col] = true, true
	}
	for _, s := range l.Sensors {
		blockedRow[s.At.Row], blockedCol[s.At.Col] = true, true
	}

	rows, cols := g.Dimensions()
	var free []core.Point
	for r := 0; r < rows; r++ {
		if blockedRow[r] {
			continue
		}
		for c := 0; c < cols; c++ {
			if blockedCol[c] {
				continue
			}
			if cell, _ := g.Get(r, c); cell.Empty() {
				free = append(free, core.Pt(r, c))
			}
		}
	}

	rng := core.NewRNG(seed)
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	n := min(l.ScatterWalls, len(free))
	for _, p := range free[:n] {
		g.Set(p.Row, p.Col, core.Component{Kind: catalog.Wall, Locked: true})
	}
}
