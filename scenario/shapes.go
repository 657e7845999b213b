package scenario

import (
	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Vertex sets, counter-clockwise around the body origin.
var (
	Pentagon = []r2.Vec{
		{X: 0, Y: 1},
		{X: -0.95, Y: 0.31},
		{X: -0.59, Y: -0.81},
		{X: 0.59, Y: -0.81},
		{X: 0.95, Y: 0.31},
	}

	Hexagon = []r2.Vec{
		{X: 0, Y: 1},
		{X: -0.87, Y: 0.5},
		{X: -0.87, Y: -0.5},
		{X: 0, Y: -1},
		{X: 0.87, Y: -0.5},
		{X: 0.87, Y: 0.5},
	}

	PawnHead = []r2.Vec{
		{X: 0, Y: 0.4},
		{X: -0.4, Y: 0},
		{X: -0.2, Y: -0.4},
		{X: 0.2, Y: -0.4},
		{X: 0.4, Y: 0},
	}

	PawnTrunk = []r2.Vec{
		{X: -0.8, Y: 0.8},
		{X: -0.6, Y: 0},
		{X: -0.3, Y: -0.8},
		{X: 0.3, Y: -0.8},
		{X: 0.6, Y: 0},
		{X: 0.8, Y: 0.8},
	}
)

// Scale returns a copy of verts scaled about the origin.
func Scale(verts []r2.Vec, f float64) []r2.Vec {
	out := make([]r2.Vec, len(verts))
	for i, v := range verts {
		out[i] = r2.Scale(f, v)
	}
	return out
}

func box(w, h, mass, x, y float64) engine.Body {
	b := engine.NewBox(r2.Vec{X: w, Y: h}, mass)
	b.Position = r2.Vec{X: x, Y: y}
	return b
}

func polygon(verts []r2.Vec, mass, x, y float64) engine.Body {
	b := engine.NewPolygon(verts, mass)
	b.Position = r2.Vec{X: x, Y: y}
	return b
}

// ground is a static slab whose top face sits at y = 0.
func ground(width float64) engine.Body {
	const height = 20
	return box(width, height, engine.InfiniteMass, 0, -0.5*height)
}
