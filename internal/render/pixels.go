package render

import (
	"image/color"

	"beamgrid/internal/beam"
	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

var (
	background = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	kindColors = map[core.Kind]color.RGBA{
		catalog.Mirror:      {R: 150, G: 170, B: 190, A: 255},
		catalog.Splitter:    {R: 120, G: 150, B: 200, A: 255},
		catalog.FilterRed:   {R: 120, G: 36, B: 36, A: 255},
		catalog.FilterGreen: {R: 36, G: 110, B: 48, A: 255},
		catalog.FilterBlue:  {R: 40, G: 56, B: 130, A: 255},
		catalog.Diode:       {R: 110, G: 90, B: 140, A: 255},
		catalog.Glass:       {R: 60, G: 80, B: 90, A: 255},
		catalog.Prism:       {R: 170, G: 130, B: 200, A: 255},
		catalog.Wall:        {R: 70, G: 66, B: 62, A: 255},
		catalog.Emitter:     {R: 230, G: 200, B: 90, A: 255},
		catalog.Sensor:      {R: 200, G: 90, B: 60, A: 255},
	}
)

// CellPalette returns the fill colour of every cell code, indexed by
// catalog.Code. Index 0 is the empty cell.
func CellPalette() []color.RGBA {
	kinds := catalog.Kinds()
	out := make([]color.RGBA, len(kinds)+1)
	out[0] = background
	for _, k := range kinds {
		out[catalog.Code(k)] = kindColors[k]
	}
	return out
}

// fillPaletteRGBA converts cell codes into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// BeamColor maps a beam colour mask and strength to a display colour.
// Alpha scales with intensity relative to full strength.
func BeamColor(c core.Color, intensity, full int) color.RGBA {
	var out color.RGBA
	if c&core.ColorRed != 0 {
		out.R = 255
	}
	if c&core.ColorGreen != 0 {
		out.G = 235
	}
	if c&core.ColorBlue != 0 {
		out.B = 255
	}
	if full <= 0 {
		full = core.DefaultIntensity
	}
	a := 96 + 159*intensity/full
	out.A = uint8(max(96, min(a, 255)))
	return out
}

// Line is a stroke in board pixel space.
type Line struct {
	X0, Y0, X1, Y1 float32
}

func centre(p core.Point, tile float32) (x, y float32) {
	return (float32(p.Col) + 0.5) * tile, (float32(p.Row) + 0.5) * tile
}

// SegmentLine returns the stroke for a beam segment, centre to centre.
func SegmentLine(seg beam.Segment, tile float32) Line {
	x0, y0 := centre(seg.From, tile)
	x1, y1 := centre(seg.To, tile)
	if seg.End == beam.EndExit {
		// Run the stroke off the board edge.
		d := seg.Dir.Delta()
		x1 += float32(d.Col) * tile / 2
		y1 += float32(d.Row) * tile / 2
	}
	return Line{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Glyph returns the strokes that show a component's orientation inside its
// tile at (0, 0). Kinds without orientation have no glyph.
func Glyph(c core.Component, tile float32) []Line {
	inset := tile * 0.2
	far := tile - inset
	mid := tile / 2
	switch c.Kind {
	case catalog.Mirror, catalog.Splitter:
		if c.Orientation == catalog.Slash {
			return []Line{{X0: inset, Y0: far, X1: far, Y1: inset}}
		}
		return []Line{{X0: inset, Y0: inset, X1: far, Y1: far}}
	case catalog.Prism, catalog.Diode, catalog.Emitter:
		d := core.Dir(c.Orientation).Delta()
		tipX := mid + float32(d.Col)*(mid-inset)
		tipY := mid + float32(d.Row)*(mid-inset)
		return []Line{{X0: mid, Y0: mid, X1: tipX, Y1: tipY}}
	default:
		return nil
	}
}
