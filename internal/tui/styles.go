package tui

import (
	"github.com/charmbracelet/lipgloss"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	solvedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fixedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	panelStyle  = lipgloss.NewStyle().PaddingLeft(3)

	beamColors = map[core.Color]lipgloss.Color{
		core.ColorRed:                    "9",
		core.ColorGreen:                  "10",
		core.ColorBlue:                   "12",
		core.ColorRed | core.ColorGreen:  "11",
		core.ColorRed | core.ColorBlue:   "13",
		core.ColorGreen | core.ColorBlue: "14",
		core.ColorWhite:                  "15",
	}
)

// cellWidth is the number of terminal columns one grid cell occupies.
const cellWidth = 2

var dirArrows = [4]string{"↑", "→", "↓", "←"}
var prismArrows = [4]string{"▲", "▶", "▼", "◀"}

// glyph returns the single-column symbol for a component.
func glyph(c core.Component, lit bool) string {
	o := c.Orientation & 3
	switch c.Kind {
	case catalog.Mirror:
		if c.Orientation == catalog.Slash {
			return "/"
		}
		return `\`
	case catalog.Splitter:
		if c.Orientation == catalog.Slash {
			return "╱"
		}
		return "╲"
	case catalog.FilterRed:
		return "R"
	case catalog.FilterGreen:
		return "G"
	case catalog.FilterBlue:
		return "B"
	case catalog.Diode:
		return dirArrows[o]
	case catalog.Glass:
		return "░"
	case catalog.Prism:
		return prismArrows[o]
	case catalog.Wall:
		return "█"
	case catalog.Emitter:
		return "@"
	case catalog.Sensor:
		if lit {
			return "●"
		}
		return "○"
	default:
		return "·"
	}
}
