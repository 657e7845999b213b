package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/engine"
)

// InspectorData is the body shown in the inspector panel.
type InspectorData struct {
	Role  string // "controllable", "probe A", "selected", ...
	Index int
	Body  engine.Body
}

// Inspector renders the body inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: bodySections(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

func body(data any) engine.Body { return data.(InspectorData).Body }

func dynamic(data any) bool { return !body(data).IsStatic() }

func bodySections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			Title: "Pose",
			Fields: []FieldDescriptor{
				{Label: "X", Widget: WidgetText, Format: "%.3f", Getter: func(d any) float32 { return float32(body(d).Position.X) }},
				{Label: "Y", Widget: WidgetText, Format: "%.3f", Getter: func(d any) float32 { return float32(body(d).Position.Y) }},
				{Label: "Rotation", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%.1f deg", body(d).Rotation*180/math.Pi)
				}},
			},
		},
		{
			Title:   "Motion",
			Visible: dynamic,
			Fields: []FieldDescriptor{
				{Label: "Vx", Widget: WidgetCenteredBar, Range: SymmetricRange(20), Getter: func(d any) float32 { return float32(body(d).Velocity.X) }},
				{Label: "Vy", Widget: WidgetCenteredBar, Range: SymmetricRange(20), Getter: func(d any) float32 { return float32(body(d).Velocity.Y) }},
				{Label: "Omega", Widget: WidgetCenteredBar, Range: SymmetricRange(10), Getter: func(d any) float32 { return float32(body(d).AngularVelocity) }},
			},
		},
		{
			Title: "Material",
			Fields: []FieldDescriptor{
				{Label: "Mass", Widget: WidgetText, TextGetter: func(d any) string {
					b := body(d)
					if b.IsStatic() {
						return "static"
					}
					return fmt.Sprintf("%.2f", b.Mass)
				}},
				{Label: "Friction", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 { return float32(body(d).Friction) }},
				{Label: "Size", Widget: WidgetText, TextGetter: func(d any) string {
					b := body(d)
					return fmt.Sprintf("%.2f x %.2f", b.Size.X, b.Size.Y)
				}},
			},
		},
	}
}

// Draw renders the inspector panel for the given body.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, 330)

	y := ins.y + padding
	y = ins.drawPreview(ins.x+padding, y, contentWidth, 90, data.Body)
	y += 8

	title := fmt.Sprintf("#%d %s (%s)", data.Index, data.Body.Shape, data.Role)
	rl.DrawText(title, ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, data, contentWidth)
	}
	return y
}

// drawPreview renders the body outline scaled to fit the preview box, in
// body space with y up.
func (ins *Inspector) drawPreview(x, y, width, height int32, b engine.Body) int32 {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	verts := b.LocalVertices()
	if len(verts) < 3 || b.Size.X <= 0 || b.Size.Y <= 0 {
		return y + height
	}

	const inset = 12
	fit := float32(math.Min(float64(width-2*inset)/b.Size.X, float64(height-2*inset)/b.Size.Y))
	cx := float32(x) + float32(width)/2
	cy := float32(y) + float32(height)/2

	pts := make([]rl.Vector2, len(verts))
	for i, v := range verts {
		pts[i] = rl.Vector2{X: cx + float32(v.X)*fit, Y: cy - float32(v.Y)*fit}
	}
	for i := range pts {
		rl.DrawLineV(pts[i], pts[(i+1)%len(pts)], rl.Orange)
	}
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, 2, rl.Orange)
	return y + height
}
