// Package renderer draws overlay frames with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/camera"
	"github.com/pthm-cable/sandbox/overlay"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layers selects which optional parts of a frame are drawn.
type Layers struct {
	Contacts bool
	Joints   bool
}

// AllLayers draws everything.
var AllLayers = Layers{Contacts: true, Joints: true}

var outlineColor = rl.Color{R: 40, G: 40, B: 50, A: 255}

// FrameRenderer draws overlay primitives through a camera.
type FrameRenderer struct {
	cam *camera.Camera

	// Reused per draw
	fan []rl.Vector2
}

// NewFrameRenderer creates a renderer bound to cam.
func NewFrameRenderer(cam *camera.Camera) *FrameRenderer {
	return &FrameRenderer{cam: cam}
}

// Draw renders f. Bodies first, then joint lines, then contact markers and
// normals, so contacts stay visible on top.
func (r *FrameRenderer) Draw(f *overlay.Frame, layers Layers) {
	for i := range f.Rects {
		r.drawRect(&f.Rects[i])
	}
	for i := range f.Polygons {
		r.drawPolygon(&f.Polygons[i])
	}

	if layers.Joints {
		for _, l := range f.Lines {
			r.drawSegment(l.Start, l.End, l.Weight, rl.Color(l.Color))
		}
	}

	if layers.Contacts {
		for _, m := range f.Markers {
			if !r.cam.IsVisible(m.Position.X, m.Position.Y, m.Radius) {
				continue
			}
			rl.DrawCircleV(r.point(m.Position), max(r.cam.Length(m.Radius), 2), rl.Color(m.Color))
		}
		for _, a := range f.Arrows {
			r.drawArrow(a)
		}
	}
}

func (r *FrameRenderer) point(p r2.Vec) rl.Vector2 {
	x, y := r.cam.WorldToScreen(p.X, p.Y)
	return rl.Vector2{X: x, Y: y}
}

func (r *FrameRenderer) thickness(weight float64) float32 {
	return max(r.cam.Length(weight), 1)
}

func (r *FrameRenderer) drawRect(rect *overlay.Rect) {
	radius := 0.5 * math.Hypot(rect.Size.X, rect.Size.Y)
	if !r.cam.IsVisible(rect.Center.X, rect.Center.Y, radius) {
		return
	}
	c := r.point(rect.Center)
	w := r.cam.Length(rect.Size.X)
	h := r.cam.Length(rect.Size.Y)
	rl.DrawRectanglePro(
		rl.Rectangle{X: c.X, Y: c.Y, Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		camera.RotationDegrees(rect.Rotation),
		rl.Color(rect.Color),
	)

	hx, hy := 0.5*rect.Size.X, 0.5*rect.Size.Y
	corners := [4]r2.Vec{{X: -hx, Y: -hy}, {X: hx, Y: -hy}, {X: hx, Y: hy}, {X: -hx, Y: hy}}
	for i := range corners {
		corners[i] = r2.Add(rect.Center, r2.Rotate(corners[i], rect.Rotation, r2.Vec{}))
	}
	r.drawOutline(corners[:])
}

// drawPolygon fills a convex polygon as a triangle fan around its center.
// World vertices are counter-clockwise and the camera flips y without
// mirroring the image, so the fan stays counter-clockwise on screen.
func (r *FrameRenderer) drawPolygon(p *overlay.Polygon) {
	if len(p.Vertices) < 3 {
		return
	}
	r.fan = append(r.fan[:0], r.point(p.Center))
	for _, v := range p.Vertices {
		r.fan = append(r.fan, r.point(v))
	}
	r.fan = append(r.fan, r.fan[1])
	rl.DrawTriangleFan(r.fan, rl.Color(p.Color))
	r.drawOutline(p.Vertices)
}

func (r *FrameRenderer) drawOutline(verts []r2.Vec) {
	for i := range verts {
		rl.DrawLineV(r.point(verts[i]), r.point(verts[(i+1)%len(verts)]), outlineColor)
	}
}

func (r *FrameRenderer) drawSegment(a, b r2.Vec, weight float64, color rl.Color) {
	rl.DrawLineEx(r.point(a), r.point(b), r.thickness(weight), color)
}

// drawArrow draws the shaft plus a two-stroke head a quarter of the shaft long.
func (r *FrameRenderer) drawArrow(a overlay.Arrow) {
	color := rl.Color(a.Color)
	r.drawSegment(a.Start, a.End, a.Weight, color)

	d := r2.Sub(a.End, a.Start)
	if r2.Norm(d) == 0 {
		return
	}
	back := r2.Scale(-0.25, d)
	for _, turn := range []float64{math.Pi / 6, -math.Pi / 6} {
		tip := r2.Add(a.End, r2.Rotate(back, turn, r2.Vec{}))
		r.drawSegment(a.End, tip, a.Weight, color)
	}
}
