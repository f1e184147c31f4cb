package main

import (
	"context"
	"fmt"
	"io"

	"beamgrid/internal/ctxlog"
	"beamgrid/internal/engine"
	"beamgrid/internal/level"
	"beamgrid/internal/placement"
)

type segmentJSON struct {
	ID        int    `json:"id"`
	Parent    int    `json:"parent"`
	From      [2]int `json:"from"`
	To        [2]int `json:"to"`
	Dir       string `json:"dir"`
	Color     string `json:"color"`
	Intensity int    `json:"intensity"`
	End       string `json:"end"`
}

type sensorJSON struct {
	At        [2]int `json:"at"`
	Hit       bool   `json:"hit"`
	Color     string `json:"color"`
	Intensity int    `json:"intensity"`
	Lit       bool   `json:"lit"`
}

// report is the outcome of tracing one level.
type report struct {
	order    int
	Level    string          `json:"level"`
	Title    string          `json:"title"`
	Grid     engine.GridView `json:"grid"`
	Segments []segmentJSON   `json:"segments"`
	Sensors  []sensorJSON    `json:"sensors"`
	Solved   bool            `json:"solved"`
	Overflow bool            `json:"overflow"`
	Err      string          `json:"error,omitempty"`
}

// traceLevel builds a session for l, applies the placements and traces it
// once.
func traceLevel(ctx context.Context, l *level.Level, seed int64, places []placement.Change) report {
	r := report{Level: l.ID, Title: l.Title}
	s, err := engine.New(l, engine.WithSeed(seed), engine.WithLogger(ctxlog.FromContext(ctx)))
	if err != nil {
		r.Err = err.Error()
		return r
	}
	defer s.Close()

	for _, p := range places {
		if err := s.Place(p.At.Row, p.At.Col, p.Kind, p.Orientation); err != nil {
			r.Err = fmt.Sprintf("place %s at %v: %v", p.Kind, p.At, err)
			return r
		}
	}
	s.Recompute()

	res := s.Trace()
	obj := s.Objective()
	r.Grid = s.Grid()
	r.Solved = s.Solved()
	r.Overflow = res.Overflow
	for _, seg := range res.Segments {
		r.Segments = append(r.Segments, segmentJSON{
			ID:        seg.ID,
			Parent:    seg.Parent,
			From:      [2]int{seg.From.Row, seg.From.Col},
			To:        [2]int{seg.To.Row, seg.To.Col},
			Dir:       seg.Dir.String(),
			Color:     seg.Color.String(),
			Intensity: seg.Intensity,
			End:       seg.End.String(),
		})
	}
	for i, rep := range res.Sensors {
		r.Sensors = append(r.Sensors, sensorJSON{
			At:        [2]int{rep.At.Row, rep.At.Col},
			Hit:       rep.Hit,
			Color:     rep.Color.String(),
			Intensity: rep.Intensity,
			Lit:       i < len(obj.Satisfied) && obj.Satisfied[i],
		})
	}
	return r
}

func writeText(w io.Writer, r report) {
	fmt.Fprintf(w, "== %s: %s\n", r.Level, r.Title)
	if r.Err != "" {
		fmt.Fprintf(w, "ERROR %s\n", r.Err)
		return
	}
	for _, s := range r.Segments {
		fmt.Fprintf(w, "  #%-3d (%d,%d) -> (%d,%d) %-5s %-7s %4d %s\n",
			s.ID, s.From[0], s.From[1], s.To[0], s.To[1], s.Dir, s.Color, s.Intensity, s.End)
	}
	for _, s := range r.Sensors {
		state := "dark"
		if s.Lit {
			state = "lit"
		}
		fmt.Fprintf(w, "  sensor (%d,%d) %s %s %d\n", s.At[0], s.At[1], state, s.Color, s.Intensity)
	}
	if r.Overflow {
		fmt.Fprintln(w, "  trace budget exceeded")
	}
	if r.Solved {
		fmt.Fprintln(w, "ALL SENSORS LIT")
	} else {
		fmt.Fprintln(w, "UNSOLVED")
	}
}
