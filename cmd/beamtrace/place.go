package main

import (
	"fmt"
	"strconv"
	"strings"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
	"beamgrid/internal/placement"
)

// placeList collects repeated -place flags.
type placeList []placement.Change

func (p *placeList) String() string {
	parts := make([]string, 0, len(*p))
	for _, ch := range *p {
		parts = append(parts, fmt.Sprintf("%d,%d,%s,%d", ch.At.Row, ch.At.Col, ch.Kind, ch.Orientation))
	}
	return strings.Join(parts, " ")
}

func (p *placeList) Set(v string) error {
	ch, err := parsePlacement(v)
	if err != nil {
		return err
	}
	*p = append(*p, ch)
	return nil
}

// parsePlacement reads "row,col,kind[,orientation]". The orientation may be
// a number, "/" or "\" for mirrors and splitters, or a direction name.
func parsePlacement(s string) (placement.Change, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 3 || len(fields) > 4 {
		return placement.Change{}, fmt.Errorf("placement %q: want row,col,kind[,orientation]", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return placement.Change{}, fmt.Errorf("placement %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return placement.Change{}, fmt.Errorf("placement %q: col: %w", s, err)
	}
	kind := core.Kind(strings.TrimSpace(fields[2]))
	if _, ok := catalog.Lookup(kind); !ok {
		return placement.Change{}, fmt.Errorf("placement %q: unknown kind %q", s, kind)
	}
	ch := placement.Change{Op: placement.OpPlace, At: core.Pt(row, col), Kind: kind}
	if len(fields) == 4 {
		o, err := parseOrientation(kind, strings.TrimSpace(fields[3]))
		if err != nil {
			return placement.Change{}, fmt.Errorf("placement %q: %w", s, err)
		}
		ch.Orientation = o
	} else if kind == catalog.Prism || kind == catalog.Diode {
		ch.Orientation = int(core.DirRight)
	}
	return ch, nil
}

func parseOrientation(kind core.Kind, s string) (int, error) {
	var o int
	switch s {
	case "/":
		o = catalog.Slash
	case `\`:
		o = catalog.Backslash
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			d, derr := core.ParseDir(s)
			if derr != nil {
				return 0, derr
			}
			n = int(d)
		}
		o = n
	}
	if !catalog.ValidOrientation(kind, o) {
		return 0, fmt.Errorf("orientation %q out of range for %s", s, kind)
	}
	return o, nil
}
