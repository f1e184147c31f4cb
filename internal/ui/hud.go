//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type statusProvider interface {
	Status() string
	Tool() catalog.Tool
}

// HUD renders the info panel to the right of the board.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int

	snapshot core.ParameterSnapshot
	status   string
	tool     catalog.Tool
}

// NewHUD constructs a HUD for the provided session and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	return &HUD{sim: sim, width: max(width, 0)}
}

// Update refreshes the cached panel contents from the session.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	if p, ok := h.sim.(parameterProvider); ok {
		h.snapshot = p.Parameters()
	}
	if p, ok := h.sim.(statusProvider); ok {
		h.status = p.Status()
		h.tool = p.Tool()
	}
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.sim.Name(), face, panelPadding, y, titleColor)
	y += lineHeight

	for _, line := range PanelLines(h.snapshot) {
		text.Draw(h.panel, line, face, panelPadding, y, textColor)
		y += lineHeight
	}
	y += lineHeight
	for _, line := range ToolLines(h.tool) {
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
		y += lineHeight
	}
	for _, line := range Wrap(ToolHint(h.tool), (h.width-2*panelPadding)/glyphWidth) {
		y += lineHeight
		text.Draw(h.panel, line, face, panelPadding, y, textColor)
	}

	statusY := height - panelPadding - lineHeight
	text.Draw(h.panel, h.status, face, panelPadding, statusY, statusColor)
	text.Draw(h.panel, KeyHelp, face, panelPadding, height-panelPadding, dimColor)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	statusColor = color.RGBA{R: 240, G: 210, B: 120, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 14
	glyphWidth     = 7
)
