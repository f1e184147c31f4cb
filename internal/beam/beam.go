// Package beam traces light through a grid of optical components.
//
// Tracing is a breadth-first worklist walk: every emitter seeds one beam,
// beams advance cell by cell until they leave the grid or meet a component
// that interacts with them, and the catalog decides which continuation beams
// are queued. Beams are processed strictly in the order they were queued, so
// the resulting segment list is stable for a given grid.
package beam

import (
	"errors"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

// ErrTraceOverflow reports that the hop or segment budget ran out and at
// least one beam was cut short.
var ErrTraceOverflow = errors.New("beam trace overflow")

// EndReason records why a segment stopped.
type EndReason uint8

const (
	// EndExit means the beam left the grid.
	EndExit EndReason = iota
	// EndAbsorbed means a component swallowed the beam.
	EndAbsorbed
	// EndSensor means the beam landed on a sensor.
	EndSensor
	// EndInteract means a component redirected, split or filtered the beam.
	EndInteract
	// EndOverflow means continuation was refused by the trace budget.
	EndOverflow
)

var endNames = [...]string{"exit", "absorbed", "sensor", "interact", "overflow"}

func (e EndReason) String() string {
	if int(e) < len(endNames) {
		return endNames[e]
	}
	return "unknown"
}

// Segment is one straight run of a beam.
type Segment struct {
	ID int
	// Parent is the segment this one continues, or -1 for an emitter beam.
	Parent    int
	Emitter   int
	From      core.Point
	To        core.Point
	Dir       core.Dir
	Color     core.Color
	Intensity int
	Hops      int
	End       EndReason
	// Infinite marks beams cut off by the trace budget.
	Infinite bool
}

// Hit is one beam arrival at a sensor.
type Hit struct {
	Segment   int
	Color     core.Color
	Intensity int
}

// SensorReport aggregates every arrival at one sensor.
type SensorReport struct {
	At  core.Point
	Hit bool
	// Color is the additive mix of all arriving beams.
	Color core.Color
	// Intensity is the summed strength of all arriving beams.
	Intensity int
	Hits      []Hit
}

// Result is the full output of a trace.
type Result struct {
	Segments []Segment
	Sensors  []SensorReport
	Overflow bool
}

// Err returns ErrTraceOverflow when the budget was exceeded.
func (r Result) Err() error {
	if r.Overflow {
		return ErrTraceOverflow
	}
	return nil
}

// From returns the segments that start at p, in trace order.
func (r Result) From(p core.Point) []Segment {
	var out []Segment
	for _, s := range r.Segments {
		if s.From == p {
			out = append(out, s)
		}
	}
	return out
}

// Sensor returns the report for the sensor at p.
func (r Result) Sensor(p core.Point) (SensorReport, bool) {
	for _, s := range r.Sensors {
		if s.At == p {
			return s, true
		}
	}
	return SensorReport{}, false
}

// Infinite returns the number of segments cut off by the budget.
func (r Result) Infinite() int {
	n := 0
	for _, s := range r.Segments {
		if s.Infinite {
			n++
		}
	}
	return n
}

// Options bounds the amount of work a trace may do.
type Options struct {
	// MaxHops caps how many interactions a single beam lineage may pass.
	MaxHops int
	// MaxSegments caps the total number of segments produced.
	MaxSegments int
}

// branching is the largest number of continuations any component produces.
const branching = 3

// DefaultOptions derives budgets from the grid size: a lineage can visit
// each (cell, direction) state once, and the arena allows every state to be
// reached through each branch.
func DefaultOptions(rows, cols int) Options {
	states := rows * cols * len(core.Dirs)
	return Options{MaxHops: states, MaxSegments: states * branching}
}

type pending struct {
	from      core.Point
	dir       core.Dir
	color     core.Color
	intensity int
	hops      int
	parent    int
	emitter   int
}

// Trace computes every beam segment produced by emitters on grid g. Sensors
// are reported in the order given. Zero-valued options fall back to
// DefaultOptions.
func Trace(g core.View, emitters []core.Emitter, sensors []core.Sensor, opts Options) Result {
	rows, cols := g.Dimensions()
	def := DefaultOptions(rows, cols)
	if opts.MaxHops <= 0 {
		opts.MaxHops = def.MaxHops
	}
	if opts.MaxSegments <= 0 {
		opts.MaxSegments = def.MaxSegments
	}

	res := Result{Sensors: make([]SensorReport, len(sensors))}
	sensorAt := make(map[core.Point]int, len(sensors))
	for i, s := range sensors {
		res.Sensors[i] = SensorReport{At: s.At}
		sensorAt[s.At] = i
	}

	queue := make([]pending, 0, len(emitters))
	for i, e := range emitters {
		if e.Intensity <= 0 || e.Color == core.ColorNone {
			continue
		}
		queue = append(queue, pending{
			from:      e.At,
			dir:       e.Dir,
			color:     e.Color,
			intensity: e.Intensity,
			parent:    -1,
			emitter:   i,
		})
	}

	inBounds := func(p core.Point) bool {
		return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
	}

	for head := 0; head < len(queue); head++ {
		b := queue[head]
		seg := Segment{
			ID:        len(res.Segments),
			Parent:    b.parent,
			Emitter:   b.emitter,
			From:      b.from,
			Dir:       b.dir,
			Color:     b.color,
			Intensity: b.intensity,
			Hops:      b.hops,
			End:       EndExit,
		}

		p := b.from
		var hit core.Component
		for {
			next := p.Step(b.dir)
			if !inBounds(next) {
				break
			}
			c, err := g.Get(next.Row, next.Col)
			if err != nil {
				break
			}
			p = next
			if c.Empty() {
				continue
			}
			if c.Kind != catalog.Sensor && catalog.Behavior(c.Kind, c.Orientation, b.dir).Passable {
				continue
			}
			hit = c
			break
		}
		seg.To = p

		if !hit.Empty() {
			children := interact(&seg, hit, b, &res, sensorAt)
			if len(children) > 0 {
				outstanding := len(queue) - head - 1
				if b.hops+1 > opts.MaxHops || len(res.Segments)+1+outstanding+len(children) > opts.MaxSegments {
					seg.End = EndOverflow
					seg.Infinite = true
					res.Overflow = true
				} else {
					for i := range children {
						children[i].parent = seg.ID
					}
					queue = append(queue, children...)
				}
			}
		}
		res.Segments = append(res.Segments, seg)
	}
	return res
}

// interact applies the component hit at seg.To and returns the continuation
// beams in catalog order.
func interact(seg *Segment, hit core.Component, b pending, res *Result, sensorAt map[core.Point]int) []pending {
	if hit.Kind == catalog.Sensor {
		seg.End = EndSensor
		if idx, ok := sensorAt[seg.To]; ok {
			rep := &res.Sensors[idx]
			rep.Hit = true
			rep.Color |= b.color
			rep.Intensity += b.intensity
			rep.Hits = append(rep.Hits, Hit{Segment: seg.ID, Color: b.color, Intensity: b.intensity})
		}
		return nil
	}

	resp := catalog.Behavior(hit.Kind, hit.Orientation, b.dir)
	color := catalog.Transmit(hit.Kind, b.color)
	if resp.Absorbed() || color == core.ColorNone {
		seg.End = EndAbsorbed
		return nil
	}
	share := b.intensity / len(resp.Out)
	if share <= 0 {
		seg.End = EndAbsorbed
		return nil
	}

	seg.End = EndInteract
	out := make([]pending, len(resp.Out))
	for i, d := range resp.Out {
		out[i] = pending{
			from:      seg.To,
			dir:       d,
			color:     color,
			intensity: share,
			hops:      b.hops + 1,
			emitter:   b.emitter,
		}
	}
	return out
}
