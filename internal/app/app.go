//go:build ebiten

package app

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"beamgrid/internal/core"
	"beamgrid/internal/render"
	"beamgrid/internal/ui"
)

// PanelWidth is the width of the HUD to the right of the board.
const PanelWidth = 260

var toolKeys = map[ebiten.Key]string{
	ebiten.KeyDigit1: "1",
	ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3",
	ebiten.KeyDigit4: "4",
	ebiten.KeyDigit5: "5",
	ebiten.KeyDigit6: "6",
	ebiten.KeyDigit7: "7",
	ebiten.KeyDigit8: "8",
	ebiten.KeyDigit9: "9",
	ebiten.KeyX:      "x",
	ebiten.KeyDelete: "delete",
}

// Game adapts a Play to the ebiten.Game interface.
type Game struct {
	ctx     context.Context
	play    *Play
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	tile int
	last core.Point
	err  error
}

// New constructs a Game drawing tiles of the given pixel size.
func New(ctx context.Context, play *Play, tile int) *Game {
	if tile <= 0 {
		tile = 48
	}
	g := &Game{ctx: ctx, play: play, overlay: ui.NewOverlay(), tile: tile}
	g.attach()
	return g
}

// attach rebuilds the per-level drawing state after a level change.
func (g *Game) attach() {
	s := g.play.Session()
	size := s.Size()
	if g.painter == nil {
		g.painter = render.NewGridPainter(size.Rows, size.Cols)
	} else if rows, cols := g.painter.Size(); rows != size.Rows || cols != size.Cols {
		g.painter = render.NewGridPainter(size.Rows, size.Cols)
	}
	g.hud = ui.NewHUD(s, PanelWidth)
	g.title()
}

func (g *Game) title() {
	t := "beamgrid - " + g.play.Session().Name()
	if g.play.Paused() {
		t += " (paused)"
	}
	ebiten.SetWindowTitle(t)
}

// pointer applies the tool on a left press and paints empty cells while the
// button is held and the cursor moves to a new cell. Rejections are reported
// through the session status.
func (g *Game) pointer() {
	s := g.play.Session()
	mx, my := ebiten.CursorPosition()
	w, h := g.boardSize()
	p, err := s.CellAt(float64(mx), float64(my), float64(w), float64(h))
	if err != nil {
		return
	}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		_ = s.Apply(p.Row, p.Col)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && p != g.last:
		_ = s.Paint(p.Row, p.Col)
	default:
		return
	}
	g.last = p
}

func (g *Game) boardSize() (w, h int) {
	size := g.play.Session().Size()
	return size.Cols * g.tile, size.Rows * g.tile
}

// Update handles per-frame input and advances the session.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	s := g.play.Session()
	for key, name := range toolKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.SelectKey(name)
		}
	}

	switched := false
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.err = g.play.Next()
		switched = true
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.err = g.play.Prev()
		switched = true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.play.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.play.TogglePause()
		g.title()
	}
	if switched {
		if g.err != nil {
			return g.err
		}
		g.attach()
	}

	g.pointer()

	g.overlay.Update()
	if err := g.play.Tick(g.ctx); err != nil {
		return err
	}
	g.hud.Update()
	return nil
}

// Draw renders the board, beams and panel.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.play.Session()
	g.painter.Blit(screen, s.Cells(), g.tile)
	g.painter.DrawGlyphs(screen, s.Grid(), g.tile)
	g.overlay.Draw(screen, s.Trace(), s.Objective().Satisfied, s.Size(), g.tile)
	w, h := g.boardSize()
	g.hud.Draw(screen, w, h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.boardSize()
	return w + PanelWidth, h
}
