package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeKind selects between the two body shapes the engine understands.
type ShapeKind uint8

const (
	ShapeBox     ShapeKind = iota // Box axis-aligned in the body's local frame
	ShapePolygon                  // Convex polygon, counter-clockwise vertices
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// InfiniteMass marks a static body. The value is stored and compared exactly.
const InfiniteMass = math.MaxFloat32

// DefaultFriction is the friction coefficient given to bodies by NewBox and NewPolygon.
const DefaultFriction = 0.2

// Body describes a rigid body: its shape, its material and its kinematic state.
// Bodies are handed to a World by value; the World returns snapshots of the
// same type from Bodies and Body.
type Body struct {
	Shape    ShapeKind
	Size     r2.Vec   // Full width and height; polygon bounding extents
	Vertices []r2.Vec // Local vertices around the body origin (polygons only)

	Position        r2.Vec
	Rotation        float64
	Velocity        r2.Vec
	AngularVelocity float64

	Mass     float64
	Friction float64
}

// NewBox creates a box body of the given full size at the origin.
func NewBox(size r2.Vec, mass float64) Body {
	return Body{
		Shape:    ShapeBox,
		Size:     size,
		Mass:     mass,
		Friction: DefaultFriction,
	}
}

// NewPolygon creates a convex polygon body at the origin. The vertex slice is
// copied; Size is set to the polygon's local bounding extents.
func NewPolygon(vertices []r2.Vec, mass float64) Body {
	verts := make([]r2.Vec, len(vertices))
	copy(verts, vertices)

	var lo, hi r2.Vec
	for i, v := range verts {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}

	return Body{
		Shape:    ShapePolygon,
		Size:     r2.Sub(hi, lo),
		Vertices: verts,
		Mass:     mass,
		Friction: DefaultFriction,
	}
}

// IsStatic reports whether the body carries the infinite-mass sentinel.
func (b Body) IsStatic() bool {
	return b.Mass >= InfiniteMass
}

// Inertia returns the moment of inertia about the centroid, or 0 for
// static bodies.
func (b Body) Inertia() float64 {
	if b.IsStatic() {
		return 0
	}
	return momentFor(b)
}

// LocalToWorld maps a point in the body frame to world space.
func (b Body) LocalToWorld(p r2.Vec) r2.Vec {
	return r2.Add(b.Position, r2.Rotate(p, b.Rotation, r2.Vec{}))
}

// WorldToLocal maps a world-space point into the body frame.
func (b Body) WorldToLocal(p r2.Vec) r2.Vec {
	return r2.Rotate(r2.Sub(p, b.Position), -b.Rotation, r2.Vec{})
}

// LocalVertices returns the shape outline in the body frame, counter-clockwise.
func (b Body) LocalVertices() []r2.Vec {
	if b.Shape == ShapePolygon {
		out := make([]r2.Vec, len(b.Vertices))
		copy(out, b.Vertices)
		return out
	}
	hx, hy := 0.5*b.Size.X, 0.5*b.Size.Y
	return []r2.Vec{
		{X: -hx, Y: -hy},
		{X: hx, Y: -hy},
		{X: hx, Y: hy},
		{X: -hx, Y: hy},
	}
}

// WorldVertices returns the shape outline transformed by the current pose.
func (b Body) WorldVertices() []r2.Vec {
	verts := b.LocalVertices()
	for i, v := range verts {
		verts[i] = b.LocalToWorld(v)
	}
	return verts
}

// Contains reports whether the world point p lies inside or on the shape.
func (b Body) Contains(p r2.Vec) bool {
	local := b.WorldToLocal(p)
	verts := b.LocalVertices()
	for i, v := range verts {
		next := verts[(i+1)%len(verts)]
		if r2.Cross(r2.Sub(next, v), r2.Sub(local, v)) < 0 {
			return false
		}
	}
	return len(verts) >= 3
}

// clone returns a copy that shares no slice storage with b.
func (b Body) clone() Body {
	if b.Vertices != nil {
		verts := make([]r2.Vec, len(b.Vertices))
		copy(verts, b.Vertices)
		b.Vertices = verts
	}
	return b
}

// finite reports whether every kinematic field is a finite number.
func (b Body) finite() bool {
	for _, v := range []float64{
		b.Position.X, b.Position.Y, b.Rotation,
		b.Velocity.X, b.Velocity.Y, b.AngularVelocity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
