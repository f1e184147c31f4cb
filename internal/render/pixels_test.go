package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamgrid/internal/beam"
	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

func TestFillPaletteRGBA(t *testing.T) {
	palette := CellPalette()
	cells := []uint8{0, catalog.Code(catalog.Prism), 250}
	buf := make([]byte, 4*len(cells))

	fillPaletteRGBA(buf, cells, palette)

	assert.Equal(t, []byte{background.R, background.G, background.B, 255}, buf[0:4])
	prism := kindColors[catalog.Prism]
	assert.Equal(t, []byte{prism.R, prism.G, prism.B, prism.A}, buf[4:8])
	last := palette[len(palette)-1]
	assert.Equal(t, []byte{last.R, last.G, last.B, last.A}, buf[8:12], "out-of-range codes clamp")

	fillPaletteRGBA(buf, cells, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestCellPaletteCoversCatalog(t *testing.T) {
	palette := CellPalette()
	require.Len(t, palette, len(catalog.Kinds())+1)
	for _, k := range catalog.Kinds() {
		assert.NotEqual(t, color.RGBA{}, palette[catalog.Code(k)], "kind %s has no colour", k)
	}
}

func TestBeamColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 235, B: 255, A: 255}, BeamColor(core.ColorWhite, 120, 120))
	c := BeamColor(core.ColorRed, 0, 120)
	assert.Equal(t, uint8(255), c.R)
	assert.Zero(t, c.G)
	assert.Equal(t, uint8(96), c.A)
}

func TestSegmentLine(t *testing.T) {
	seg := beam.Segment{From: core.Pt(5, 0), To: core.Pt(5, 9), Dir: core.DirRight, End: beam.EndExit}
	assert.Equal(t, Line{X0: 5, Y0: 55, X1: 100, Y1: 55}, SegmentLine(seg, 10))

	seg = beam.Segment{From: core.Pt(5, 5), To: core.Pt(0, 5), Dir: core.DirUp, End: beam.EndSensor}
	assert.Equal(t, Line{X0: 55, Y0: 55, X1: 55, Y1: 5}, SegmentLine(seg, 10))
}

func TestGlyph(t *testing.T) {
	slash := Glyph(core.Component{Kind: catalog.Mirror, Orientation: catalog.Slash}, 10)
	require.Len(t, slash, 1)
	assert.Greater(t, slash[0].Y0, slash[0].Y1, "slash rises left to right")

	prism := Glyph(core.Component{Kind: catalog.Prism, Orientation: int(core.DirDown)}, 10)
	require.Len(t, prism, 1)
	assert.Equal(t, Line{X0: 5, Y0: 5, X1: 5, Y1: 8}, prism[0])

	assert.Nil(t, Glyph(core.Component{Kind: catalog.Wall}, 10))
}
