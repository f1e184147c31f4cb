package core

import "fmt"

// Dir is one of the four grid-aligned travel directions. Rows grow downward.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists every direction in clockwise order starting at DirUp.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

var dirNames = [4]string{"up", "right", "down", "left"}

var dirDeltas = [4]Point{{Row: -1}, {Col: 1}, {Row: 1}, {Col: -1}}

// Turn rotates the direction clockwise by n quarter turns. Negative values
// rotate counter-clockwise.
func (d Dir) Turn(n int) Dir {
	return Dir(((int(d)+n)%4 + 4) % 4)
}

// Opposite returns the direction pointing the other way.
func (d Dir) Opposite() Dir { return d.Turn(2) }

// Delta returns the row/col offset of a single step in this direction.
func (d Dir) Delta() Point { return dirDeltas[d&3] }

func (d Dir) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return fmt.Sprintf("dir(%d)", uint8(d))
}

// ParseDir converts a direction name into a Dir.
func ParseDir(s string) (Dir, error) {
	for i, name := range dirNames {
		if name == s {
			return Dir(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Point addresses a grid cell.
type Point struct {
	Row int
	Col int
}

// Pt is shorthand for Point{Row: row, Col: col}.
func Pt(row, col int) Point { return Point{Row: row, Col: col} }

// Step returns the neighbouring point in direction d.
func (p Point) Step(d Dir) Point {
	delta := d.Delta()
	return Point{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Color is an additive RGB bit mask carried by beams.
type Color uint8

const (
	ColorNone  Color = 0
	ColorRed   Color = 1 << 0
	ColorGreen Color = 1 << 1
	ColorBlue  Color = 1 << 2
	ColorWhite       = ColorRed | ColorGreen | ColorBlue
)

var colorNames = map[Color]string{
	ColorNone:              "any",
	ColorRed:               "red",
	ColorGreen:             "green",
	ColorBlue:              "blue",
	ColorRed | ColorGreen:  "yellow",
	ColorRed | ColorBlue:   "magenta",
	ColorGreen | ColorBlue: "cyan",
	ColorWhite:             "white",
}

func (c Color) String() string {
	if name, ok := colorNames[c&ColorWhite]; ok {
		return name
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor converts a colour name into a Color. "any" maps to ColorNone.
func ParseColor(s string) (Color, error) {
	for c, name := range colorNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Kind names a component type. The empty kind denotes an empty cell.
type Kind string

// Component is the occupant of a grid cell. The zero value is an empty cell.
type Component struct {
	Kind        Kind
	Orientation int
	// Locked marks level-fixed components the player cannot modify.
	Locked bool
}

// Empty reports whether the component represents an empty cell.
func (c Component) Empty() bool { return c.Kind == "" }

// Size describes grid dimensions.
type Size struct {
	Rows int
	Cols int
}

// DefaultIntensity is the beam strength of an emitter that does not set one.
const DefaultIntensity = 120

// Emitter is a level-fixed beam source.
type Emitter struct {
	At        Point
	Dir       Dir
	Color     Color
	Intensity int
}

// Sensor is a level-fixed target. A zero Color accepts any colour.
type Sensor struct {
	At           Point
	Color        Color
	MinIntensity int
}

// Sim is the contract the front-ends drive once per tick.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Cells returns one code per cell in row-major order.
	Cells() []uint8
}
