// Package objective decides whether traced beams satisfy a level's sensors.
package objective

import (
	"beamgrid/internal/beam"
	"beamgrid/internal/core"
)

// Status is the win state of a level.
type Status uint8

const (
	Unsolved Status = iota
	Solved
)

func (s Status) String() string {
	if s == Solved {
		return "solved"
	}
	return "unsolved"
}

// Result is the outcome of an evaluation. Satisfied is parallel to the
// sensors passed to Evaluate.
type Result struct {
	Status    Status
	Satisfied []bool
}

// Lit returns the number of satisfied sensors.
func (r Result) Lit() int {
	n := 0
	for _, ok := range r.Satisfied {
		if ok {
			n++
		}
	}
	return n
}

// Evaluate checks every sensor against the tracer's reports. A level with no
// sensors is never solved.
func Evaluate(sensors []core.Sensor, reports []beam.SensorReport) Result {
	byPoint := make(map[core.Point]beam.SensorReport, len(reports))
	for _, r := range reports {
		byPoint[r.At] = r
	}

	res := Result{Satisfied: make([]bool, len(sensors))}
	all := len(sensors) > 0
	for i, s := range sensors {
		rep, ok := byPoint[s.At]
		res.Satisfied[i] = ok && Satisfies(s, rep)
		all = all && res.Satisfied[i]
	}
	if all {
		res.Status = Solved
	}
	return res
}

// Satisfies reports whether rep meets the requirements of s.
func Satisfies(s core.Sensor, rep beam.SensorReport) bool {
	if !rep.Hit || rep.Intensity < s.MinIntensity {
		return false
	}
	return s.Color == core.ColorNone || rep.Color == s.Color
}
