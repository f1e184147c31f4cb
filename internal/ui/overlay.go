//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"beamgrid/internal/beam"
	"beamgrid/internal/core"
	"beamgrid/internal/render"
)

// Overlay draws beams, tile lines and lit-sensor rings over the board.
// B toggles beams and G toggles tile lines.
type Overlay struct {
	showBeams bool
	showGrid  bool
}

// NewOverlay constructs an overlay with beams and tile lines shown.
func NewOverlay() *Overlay {
	return &Overlay{showBeams: true, showGrid: true}
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		o.showBeams = !o.showBeams
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showGrid = !o.showGrid
	}
}

// Draw renders the overlay for a board of size cells at tile pixels each.
func (o *Overlay) Draw(screen *ebiten.Image, res beam.Result, satisfied []bool, size core.Size, tile int) {
	t := float32(tile)
	if o.showGrid {
		w, h := float32(size.Cols)*t, float32(size.Rows)*t
		for c := 1; c < size.Cols; c++ {
			vector.StrokeLine(screen, float32(c)*t, 0, float32(c)*t, h, 1, gridColor, false)
		}
		for r := 1; r < size.Rows; r++ {
			vector.StrokeLine(screen, 0, float32(r)*t, w, float32(r)*t, 1, gridColor, false)
		}
	}
	if o.showBeams {
		render.DrawBeams(screen, res.Segments, tile)
	}
	for i, rep := range res.Sensors {
		if i >= len(satisfied) || !satisfied[i] {
			continue
		}
		cx := (float32(rep.At.Col) + 0.5) * t
		cy := (float32(rep.At.Row) + 0.5) * t
		vector.StrokeCircle(screen, cx, cy, t*0.4, max(2, t/14), litColor, true)
	}
}

var (
	gridColor = color.RGBA{R: 40, G: 40, B: 52, A: 255}
	litColor  = color.RGBA{R: 120, G: 240, B: 140, A: 255}
)
