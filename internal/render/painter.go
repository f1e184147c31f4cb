//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"beamgrid/internal/beam"
	"beamgrid/internal/core"
)

// GridPainter draws the board: one pixel per cell scaled up to tile size,
// then orientation glyphs on top.
type GridPainter struct {
	rows, cols int
	img        *ebiten.Image
	buf        []byte
	palette    []color.RGBA
}

// NewGridPainter allocates a painter for a rows x cols board.
func NewGridPainter(rows, cols int) *GridPainter {
	return &GridPainter{
		rows:    rows,
		cols:    cols,
		img:     ebiten.NewImage(cols, rows),
		buf:     make([]byte, 4*rows*cols),
		palette: CellPalette(),
	}
}

// Size returns the board dimensions the painter was built for.
func (gp *GridPainter) Size() (rows, cols int) { return gp.rows, gp.cols }

// Blit uploads cell codes into the painter image and draws it scaled by tile.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, tile int) {
	if len(cells) != gp.rows*gp.cols {
		return
	}
	fillPaletteRGBA(gp.buf, cells, gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(tile), float64(tile))
	dst.DrawImage(gp.img, op)
}

var glyphColor = color.RGBA{R: 240, G: 240, B: 250, A: 255}

// DrawGlyphs strokes the orientation marks of every component in g.
func (gp *GridPainter) DrawGlyphs(dst *ebiten.Image, g core.View, tile int) {
	t := float32(tile)
	width := max(2, t/10)
	rows, cols := g.Dimensions()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell, err := g.Get(r, c)
			if err != nil || cell.Empty() {
				continue
			}
			ox, oy := float32(c)*t, float32(r)*t
			for _, l := range Glyph(cell, t) {
				vector.StrokeLine(dst, ox+l.X0, oy+l.Y0, ox+l.X1, oy+l.Y1, width, glyphColor, true)
			}
		}
	}
}

// DrawBeams strokes every traced segment.
func DrawBeams(dst *ebiten.Image, segs []beam.Segment, tile int) {
	t := float32(tile)
	width := max(2, t/12)
	for _, s := range segs {
		l := SegmentLine(s, t)
		vector.StrokeLine(dst, l.X0, l.Y0, l.X1, l.Y1, width, BeamColor(s.Color, s.Intensity, core.DefaultIntensity), true)
	}
}
