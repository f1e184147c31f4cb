// Package catalog is the static registry of optical component kinds and the
// rules that decide what happens to a beam entering each of them.
package catalog

import (
	"fmt"

	"beamgrid/internal/core"
)

const (
	Mirror      core.Kind = "mirror"
	Splitter    core.Kind = "splitter"
	FilterRed   core.Kind = "filter_red"
	FilterGreen core.Kind = "filter_green"
	FilterBlue  core.Kind = "filter_blue"
	Diode       core.Kind = "diode"
	Glass       core.Kind = "glass"
	Prism       core.Kind = "prism"
	Wall        core.Kind = "wall"
	Emitter     core.Kind = "emitter"
	Sensor      core.Kind = "sensor"
)

// Mirror and splitter orientations.
const (
	Slash     = 0 // "/"
	Backslash = 1 // "\"
)

// Def describes a component kind.
type Def struct {
	Kind core.Kind
	Name string
	Desc string
	// Orientations is the number of discrete rotations the kind supports.
	Orientations int
	// Placeable is false for kinds that only levels may position.
	Placeable bool
	// Mask is the colour a filter lets through.
	Mask core.Color
}

var defs = []Def{
	{Kind: Mirror, Name: "Mirror", Desc: "Reflects a beam by ninety degrees", Orientations: 2, Placeable: true},
	{Kind: Splitter, Name: "Beam Splitter", Desc: "Passes half a beam straight on and reflects the rest", Orientations: 2, Placeable: true},
	{Kind: FilterRed, Name: "Red Filter", Desc: "Lets only red light through", Orientations: 1, Placeable: true, Mask: core.ColorRed},
	{Kind: FilterGreen, Name: "Green Filter", Desc: "Lets only green light through", Orientations: 1, Placeable: true, Mask: core.ColorGreen},
	{Kind: FilterBlue, Name: "Blue Filter", Desc: "Lets only blue light through", Orientations: 1, Placeable: true, Mask: core.ColorBlue},
	{Kind: Diode, Name: "Diode", Desc: "Passes beams travelling the way it faces", Orientations: 4, Placeable: true},
	{Kind: Glass, Name: "Glass", Desc: "Transparent block", Orientations: 1, Placeable: true},
	{Kind: Prism, Name: "Prism Splitter", Desc: "Splits a beam entering its back three ways", Orientations: 4, Placeable: true},
	{Kind: Wall, Name: "Wall", Desc: "Absorbs every beam", Orientations: 1, Placeable: true},
	{Kind: Emitter, Name: "Emitter", Desc: "Beam source", Orientations: 4},
	{Kind: Sensor, Name: "Sensor", Desc: "Target that must be lit", Orientations: 1},
}

var byKind = func() map[core.Kind]Def {
	m := make(map[core.Kind]Def, len(defs))
	for _, d := range defs {
		m[d.Kind] = d
	}
	return m
}()

// Kinds returns every known kind in catalog order.
func Kinds() []core.Kind {
	out := make([]core.Kind, len(defs))
	for i, d := range defs {
		out[i] = d.Kind
	}
	return out
}

// Placeable returns the kinds a player may place, in catalog order.
func Placeable() []core.Kind {
	var out []core.Kind
	for _, d := range defs {
		if d.Placeable {
			out = append(out, d.Kind)
		}
	}
	return out
}

// Lookup returns the definition of kind.
func Lookup(kind core.Kind) (Def, bool) {
	d, ok := byKind[kind]
	return d, ok
}

// Code returns a compact per-kind cell code: 0 for the empty cell, then the
// catalog position plus one. Unknown kinds map to 0.
func Code(kind core.Kind) uint8 {
	for i, d := range defs {
		if d.Kind == kind {
			return uint8(i + 1)
		}
	}
	return 0
}

// KindOfCode is the inverse of Code.
func KindOfCode(code uint8) core.Kind {
	if code == 0 || int(code) > len(defs) {
		return ""
	}
	return defs[code-1].Kind
}

// Orientations returns the rotation count of kind, or 0 when unknown.
func Orientations(kind core.Kind) int {
	return byKind[kind].Orientations
}

// ValidOrientation reports whether o is a legal orientation for kind.
func ValidOrientation(kind core.Kind, o int) bool {
	n := Orientations(kind)
	return n > 0 && o >= 0 && o < n
}

// Rotate returns the next orientation of kind after o.
func Rotate(kind core.Kind, o int) int {
	n := Orientations(kind)
	if n <= 1 {
		return 0
	}
	return (o + 1) % n
}

// Response is the outcome of a beam entering a component.
type Response struct {
	// Out lists outgoing directions in their fixed report order.
	Out []core.Dir
	// Passable marks components the beam crosses without interaction.
	Passable bool
}

// Absorbed reports whether the component swallows the beam.
func (r Response) Absorbed() bool { return !r.Passable && len(r.Out) == 0 }

// Behavior reports what a component of kind at orientation o does to a beam
// travelling in direction in. Output order is fixed:
//   - mirror: the single reflected direction
//   - splitter: transmitted first, then reflected
//   - prism entered from its back: front, right, left (relative to its facing)
//   - prism entered from a side: front; from its face: absorbed
//
// Unknown kinds panic.
func Behavior(kind core.Kind, o int, in core.Dir) Response {
	switch kind {
	case Glass:
		return Response{Out: []core.Dir{in}, Passable: true}
	case Mirror:
		return Response{Out: []core.Dir{reflect(o, in)}}
	case Splitter:
		return Response{Out: []core.Dir{in, reflect(o, in)}}
	case FilterRed, FilterGreen, FilterBlue:
		return Response{Out: []core.Dir{in}}
	case Diode:
		if in == core.Dir(o) {
			return Response{Out: []core.Dir{in}}
		}
		return Response{}
	case Prism:
		facing := core.Dir(o)
		switch in {
		case facing:
			return Response{Out: []core.Dir{facing, facing.Turn(1), facing.Turn(-1)}}
		case facing.Opposite():
			return Response{}
		default:
			return Response{Out: []core.Dir{facing}}
		}
	case Wall, Emitter, Sensor:
		return Response{}
	}
	panic(fmt.Sprintf("catalog: no behavior for kind %q", kind))
}

// Transmit returns the colour leaving a component of kind for an incoming
// beam of colour c. ColorNone means the beam is extinguished.
func Transmit(kind core.Kind, c core.Color) core.Color {
	if d, ok := byKind[kind]; ok && d.Mask != core.ColorNone {
		return c & d.Mask
	}
	return c
}

// reflect bounces a beam off a diagonal mirror. "/" swaps up<->right and
// down<->left; "\" swaps up<->left and down<->right.
func reflect(o int, in core.Dir) core.Dir {
	if o%2 == Slash {
		switch in {
		case core.DirUp:
			return core.DirRight
		case core.DirRight:
			return core.DirUp
		case core.DirDown:
			return core.DirLeft
		default:
			return core.DirDown
		}
	}
	switch in {
	case core.DirUp:
		return core.DirLeft
	case core.DirLeft:
		return core.DirUp
	case core.DirDown:
		return core.DirRight
	default:
		return core.DirDown
	}
}
