// Package overlay turns engine state into drawable primitives: body outlines,
// contact markers with normal arrows, and joint anchor lines. Build reads the
// world only and keeps no state between frames.
package overlay

import (
	"image/color"

	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/orchestrator"
	"gonum.org/v1/gonum/spatial/r2"
)

// Palette.
var (
	Background   = color.RGBA{R: 112, G: 128, B: 144, A: 255} // SlateGrey
	GroundColor  = color.RGBA{R: 143, G: 188, B: 143, A: 255} // DarkSeaGreen
	DynamicColor = color.RGBA{R: 218, G: 112, B: 214, A: 255} // Orchid
	NormalColor  = color.RGBA{R: 255, G: 160, B: 122, A: 255} // LightSalmon
	JointColor   = color.RGBA{R: 106, G: 90, B: 205, A: 255}  // SlateBlue
)

const (
	MarkerRadius = 0.1
	LineWeight   = 0.05
	NormalLength = 1.0
)

// Rect is a box body: center, full size and rotation in radians.
type Rect struct {
	Center   r2.Vec
	Size     r2.Vec
	Rotation float64
	Color    color.RGBA
}

// Polygon is a convex body outline in world space.
type Polygon struct {
	Center   r2.Vec
	Vertices []r2.Vec
	Color    color.RGBA
}

// Marker is a filled circle at a contact point.
type Marker struct {
	Position r2.Vec
	Radius   float64
	Color    color.RGBA
}

// Arrow is a contact normal.
type Arrow struct {
	Start, End r2.Vec
	Weight     float64
	Color      color.RGBA
}

// Line is a joint anchor segment.
type Line struct {
	Start, End r2.Vec
	Weight     float64
	Color      color.RGBA
}

// Frame is everything drawn for one tick, in world coordinates.
type Frame struct {
	Background color.RGBA
	Rects      []Rect
	Polygons   []Polygon
	Markers    []Marker
	Arrows     []Arrow
	Lines      []Line
}

// Primitives returns the number of primitives in the frame.
func (f *Frame) Primitives() int {
	return len(f.Rects) + len(f.Polygons) + len(f.Markers) + len(f.Arrows) + len(f.Lines)
}

// Build produces the overlay for w. Contacts from every arbiter are drawn,
// followed by the probe buffer; nil contact slots are skipped.
func Build(w *engine.World, probe []*engine.Contact, settings orchestrator.Settings) Frame {
	f := Frame{Background: Background}

	for i, b := range w.Bodies() {
		c := DynamicColor
		if i == 0 {
			c = GroundColor
		}
		switch b.Shape {
		case engine.ShapePolygon:
			f.Polygons = append(f.Polygons, Polygon{
				Center:   b.Position,
				Vertices: b.WorldVertices(),
				Color:    c,
			})
		default:
			f.Rects = append(f.Rects, Rect{
				Center:   b.Position,
				Size:     b.Size,
				Rotation: b.Rotation,
				Color:    c,
			})
		}
	}

	for _, arb := range w.Arbiters() {
		for _, c := range arb.Contacts {
			f.addContact(c, settings.MarkerColor)
		}
	}
	for _, c := range probe {
		f.addContact(c, settings.MarkerColor)
	}

	for _, j := range w.Joints() {
		ba, okA := w.Body(j.BodyA)
		bb, okB := w.Body(j.BodyB)
		if !okA || !okB {
			continue
		}
		f.Lines = append(f.Lines,
			Line{Start: ba.Position, End: ba.LocalToWorld(j.LocalAnchorA), Weight: LineWeight, Color: JointColor},
			Line{Start: bb.Position, End: bb.LocalToWorld(j.LocalAnchorB), Weight: LineWeight, Color: JointColor},
		)
	}

	return f
}

func (f *Frame) addContact(c *engine.Contact, marker color.RGBA) {
	if c == nil {
		return
	}
	f.Markers = append(f.Markers, Marker{Position: c.Position, Radius: MarkerRadius, Color: marker})
	f.Arrows = append(f.Arrows, Arrow{
		Start:  c.Position,
		End:    r2.Add(c.Position, r2.Scale(NormalLength, c.Normal)),
		Weight: LineWeight,
		Color:  NormalColor,
	})
}
