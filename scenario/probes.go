package scenario

import (
	"math"

	"github.com/pthm-cable/sandbox/engine"
)

// DefaultProbe is the probe the collision debugger opens with.
const DefaultProbe = 6

// Probes returns the contact probe catalog. Each probe adds exactly two
// bodies and no joints; the second body is the one nudged by the arrow keys.
func Probes() []Scenario {
	quarter := math.Pi / 4
	rotated := func(b engine.Body, angle float64) engine.Body {
		b.Rotation = angle
		return b
	}

	return []Scenario{
		probe("Separated boxes", box(1, 1, 1, 10, 1), box(1, 1, 1, 15, 5)),
		probe("Ground and box", ground(100), box(1, 1, 200, 0, 0)),
		probe("Overlapping boxes", box(2, 2, 1, 11, 3), box(2, 2, 1, 12, 2)),
		probe("Rotated overlap",
			rotated(box(4, 4, 1, 12, 0), quarter),
			rotated(box(2, 2, 1, 15.5, 1), quarter)),
		probe("Rotated corner contact",
			rotated(box(4, 4, 1, 14, 2), quarter),
			rotated(box(2, 2, 1, 18, 2), quarter)),
		probe("Shared edge",
			rotated(box(2, 2, 1, 1, 1), quarter),
			rotated(box(2, 2, 1, 5, 1), quarter)),
		probe("Pentagon and hexagon", polygon(Pentagon, 1, 0, 0), polygon(Hexagon, 1, 0, 0)),
		probe("Box and hexagon", rotated(box(2, 2, 1, 1, 1), quarter), polygon(Hexagon, 1, 0, 0)),
	}
}

func probe(name string, a, b engine.Body) Scenario {
	return Scenario{
		Name: name,
		Build: func(w *engine.World, _ Env) (Handles, error) {
			bld := newBuilder(w)
			bld.add(a)
			bld.add(b)
			return bld.handles()
		},
	}
}
