// Package level describes puzzle layouts and loads them from HCL.
package level

import (
	"errors"
	"fmt"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

// DefaultSize is the edge length of a level that does not set rows or cols.
const DefaultSize = 10

// Upper bounds on level data. Sensor totals are summed in an int, so grid
// area times MaxIntensity must stay well inside it.
const (
	MaxSize      = 64
	MaxIntensity = 1 << 20
)

var (
	// ErrInvalidLevel reports a level definition that cannot be played.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrUnknownLevel reports a lookup for a level that is not registered.
	ErrUnknownLevel = errors.New("unknown level")
)

// Obstacle is a level-fixed component placed before play starts.
type Obstacle struct {
	At          core.Point
	Kind        core.Kind
	Orientation int
}

// PaletteEntry offers a placeable kind to the player. A zero Limit means
// unlimited.
type PaletteEntry struct {
	Kind  core.Kind
	Limit int
}

// Level is an immutable puzzle definition. Values handed out by a Registry
// are shared and must not be modified.
type Level struct {
	ID          string
	Title       string
	Description string
	Order       int
	Rows        int
	Cols        int
	Emitters    []core.Emitter
	Sensors     []core.Sensor
	Obstacles   []Obstacle
	// Palette lists the kinds the player may place. Empty means every
	// placeable kind without limit.
	Palette []PaletteEntry
	// ScatterWalls is the number of random walls dropped on free cells that
	// share no row or column with an emitter or sensor.
	ScatterWalls int
	// Source is the file the level was read from.
	Source string
}

// Size returns the grid dimensions of the level.
func (l *Level) Size() core.Size { return core.Size{Rows: l.Rows, Cols: l.Cols} }

// Validate checks that every fixed element fits the grid, no two share a
// cell and every kind is known to the catalog.
func (l *Level) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidLevel)
	}
	if l.Rows <= 0 || l.Cols <= 0 || l.Rows > MaxSize || l.Cols > MaxSize {
		return fmt.Errorf("%w: %s: grid %dx%d", ErrInvalidLevel, l.ID, l.Rows, l.Cols)
	}
	if l.ScatterWalls < 0 {
		return fmt.Errorf("%w: %s: negative scatter_walls", ErrInvalidLevel, l.ID)
	}

	size := l.Size()
	used := make(map[core.Point]string)
	claim := func(p core.Point, what string) error {
		if p.Row < 0 || p.Row >= size.Rows || p.Col < 0 || p.Col >= size.Cols {
			return fmt.Errorf("%w: %s: %s at %v outside %dx%d grid", ErrInvalidLevel, l.ID, what, p, size.Rows, size.Cols)
		}
		if prev, ok := used[p]; ok {
			return fmt.Errorf("%w: %s: %s at %v overlaps %s", ErrInvalidLevel, l.ID, what, p, prev)
		}
		used[p] = what
		return nil
	}

	for _, e := range l.Emitters {
		if err := claim(e.At, "emitter"); err != nil {
			return err
		}
		if e.Dir > core.DirLeft {
			return fmt.Errorf("%w: %s: emitter at %v has direction %d", ErrInvalidLevel, l.ID, e.At, e.Dir)
		}
		if e.Color == core.ColorNone || e.Color > core.ColorWhite {
			return fmt.Errorf("%w: %s: emitter at %v has color %d", ErrInvalidLevel, l.ID, e.At, e.Color)
		}
		if e.Intensity <= 0 || e.Intensity > MaxIntensity {
			return fmt.Errorf("%w: %s: emitter at %v has intensity %d", ErrInvalidLevel, l.ID, e.At, e.Intensity)
		}
	}
	for _, s := range l.Sensors {
		if err := claim(s.At, "sensor"); err != nil {
			return err
		}
		if s.Color > core.ColorWhite || s.MinIntensity < 0 || s.MinIntensity > MaxIntensity {
			return fmt.Errorf("%w: %s: sensor at %v has bad requirement", ErrInvalidLevel, l.ID, s.At)
		}
	}
	for _, o := range l.Obstacles {
		if err := claim(o.At, string(o.Kind)); err != nil {
			return err
		}
		def, ok := catalog.Lookup(o.Kind)
		if !ok || o.Kind == catalog.Emitter || o.Kind == catalog.Sensor {
			return fmt.Errorf("%w: %s: obstacle kind %q", ErrInvalidLevel, l.ID, o.Kind)
		}
		if o.Orientation < 0 || o.Orientation >= def.Orientations {
			return fmt.Errorf("%w: %s: obstacle %s orientation %d", ErrInvalidLevel, l.ID, o.Kind, o.Orientation)
		}
	}
	seen := make(map[core.Kind]bool, len(l.Palette))
	for _, p := range l.Palette {
		def, ok := catalog.Lookup(p.Kind)
		if !ok || !def.Placeable {
			return fmt.Errorf("%w: %s: palette kind %q is not placeable", ErrInvalidLevel, l.ID, p.Kind)
		}
		if seen[p.Kind] {
			return fmt.Errorf("%w: %s: palette lists %q twice", ErrInvalidLevel, l.ID, p.Kind)
		}
		if p.Limit < 0 {
			return fmt.Errorf("%w: %s: palette %q limit %d", ErrInvalidLevel, l.ID, p.Kind, p.Limit)
		}
		seen[p.Kind] = true
	}
	return nil
}
