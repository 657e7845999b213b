package engine

import (
	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxContacts is the largest number of contacts between two convex shapes.
const MaxContacts = 2

// Contact is one contact point between two bodies.
type Contact struct {
	Position   r2.Vec
	Normal     r2.Vec  // Unit normal pointing from the first body to the second
	Separation float64 // Negative when penetrating
}

// CollideFunc is the signature shared by the narrow-phase routines.
type CollideFunc func(out []*Contact, a, b Body) int

// Collide computes the contacts between two box bodies. It clears out, writes
// at most len(out) contacts and returns how many were written. Non-box input
// yields no contacts.
func Collide(out []*Contact, a, b Body) int {
	clearContacts(out)
	if a.Shape != ShapeBox || b.Shape != ShapeBox {
		return 0
	}
	boxShape := func(body *cp.Body, desc Body) *cp.Shape {
		return cp.NewBox(body, desc.Size.X, desc.Size.Y, 0)
	}
	return query(out, a, b, boxShape)
}

// CollidePolygons computes the contacts between any two convex bodies by
// treating both as polygons. Semantics of out match Collide.
func CollidePolygons(out []*Contact, a, b Body) int {
	clearContacts(out)
	polyShape := func(body *cp.Body, desc Body) *cp.Shape {
		verts := toVectors(desc.LocalVertices())
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	}
	return query(out, a, b, polyShape)
}

func clearContacts(out []*Contact) {
	for i := range out {
		out[i] = nil
	}
}

// query runs a one-off shape query: b is placed in a scratch space and a is
// tested against it, so normals point from a to b.
func query(out []*Contact, a, b Body, build func(*cp.Body, Body) *cp.Shape) int {
	if len(out) == 0 {
		return 0
	}

	space := cp.NewSpace()
	target := cp.NewStaticBody()
	target.SetPosition(toVector(b.Position))
	target.SetAngle(b.Rotation)
	space.AddBody(target)
	space.AddShape(build(target, b))

	probe := cp.NewKinematicBody()
	probe.SetPosition(toVector(a.Position))
	probe.SetAngle(a.Rotation)
	probeShape := build(probe, a)

	n := 0
	space.ShapeQuery(probeShape, func(_ *cp.Shape, set *cp.ContactPointSet) {
		normal := fromVector(set.Normal)
		for i := 0; i < set.Count && n < len(out); i++ {
			p := set.Points[i]
			out[n] = &Contact{
				Position:   midpoint(p.PointA, p.PointB),
				Normal:     normal,
				Separation: p.Distance,
			}
			n++
		}
	})
	return n
}

func shapeFor(body *cp.Body, desc Body) *cp.Shape {
	if desc.Shape == ShapePolygon {
		verts := toVectors(desc.Vertices)
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	}
	return cp.NewBox(body, desc.Size.X, desc.Size.Y, 0)
}

func momentFor(desc Body) float64 {
	if desc.Shape == ShapePolygon {
		verts := toVectors(desc.Vertices)
		return cp.MomentForPoly(desc.Mass, len(verts), verts, cp.Vector{}, 0)
	}
	return cp.MomentForBox(desc.Mass, desc.Size.X, desc.Size.Y)
}

func toVectors(vs []r2.Vec) []cp.Vector {
	out := make([]cp.Vector, len(vs))
	for i, v := range vs {
		out[i] = toVector(v)
	}
	return out
}
