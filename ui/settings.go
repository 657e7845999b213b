package ui

import (
	"fmt"
	"image/color"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/orchestrator"
)

// Slider ranges of the settings panel.
const (
	ScaleMax     = 1000
	TranslateMax = 1000
)

const (
	rowHeight   = 20
	rowGap      = 6
	labelHeight = 14
)

// PanelResult reports what the user did with the settings panel this frame.
type PanelResult struct {
	Settings        orchestrator.Settings
	SettingsChanged bool

	Selected         int
	SelectionChanged bool

	Load   bool
	Launch bool
}

// SettingsPanel is the raygui panel for scenario selection, view transform,
// marker color and solver toggles.
type SettingsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	items    string
	active   int32
}

// NewSettingsPanel creates a panel listing the given scenario names.
func NewSettingsPanel(x, y, width int32, names []string) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		items:    strings.Join(names, ";"),
	}
}

// SetActive moves the combo box to scenario id.
func (p *SettingsPanel) SetActive(id int) {
	p.active = int32(id)
}

// Contains reports whether a screen point lies over the panel, so that
// mouse input there is not treated as camera input.
func (p *SettingsPanel) Contains(pt rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pt, rl.Rectangle{
		X: float32(p.x), Y: float32(p.y),
		Width: float32(p.width), Height: float32(p.height),
	})
}

// Draw renders the panel over the current frame and returns the user's
// changes to s.
func (p *SettingsPanel) Draw(s orchestrator.Settings) PanelResult {
	res := PanelResult{Settings: s, Selected: int(p.active)}
	r := p.renderer
	pad := float32(r.Theme.Padding)

	if p.height > 0 {
		r.DrawPanel(p.x, p.y, p.width, p.height)
	}

	x := float32(p.x) + pad
	y := float32(p.y) + pad
	w := float32(p.width) - 2*pad

	rl.DrawText("Settings", int32(x), int32(y), 16, rl.White)
	y += rowHeight + rowGap

	active := gui.ComboBox(rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight}, p.items, p.active)
	if active != p.active {
		p.active = active
		res.Selected = int(active)
		res.SelectionChanged = true
	}
	y += rowHeight + rowGap

	res.Load = gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 3, Height: rowHeight}, "Load scenario")
	res.Launch = gui.Button(rl.Rectangle{X: x + w/2 + 3, Y: y, Width: w/2 - 3, Height: rowHeight}, "Launch")
	y += rowHeight + rowGap*2

	slider := func(label string, value, lo, hi float64) float64 {
		rl.DrawText(fmt.Sprintf("%s: %.1f", label, value), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += labelHeight
		v := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight},
			"", "",
			float32(value), float32(lo), float32(hi),
		)
		y += rowHeight + rowGap
		if float64(v) != float64(float32(value)) {
			res.SettingsChanged = true
			return float64(v)
		}
		return value
	}
	res.Settings.Scale = slider("Scale", s.Scale, 0, ScaleMax)
	res.Settings.TranslateX = slider("Translate X", s.TranslateX, -TranslateMax, TranslateMax)
	res.Settings.TranslateY = slider("Translate Y", s.TranslateY, -TranslateMax, TranslateMax)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 3, Height: rowHeight}, "Random color") {
		res.Settings.MarkerColor = color.RGBA{
			R: uint8(rl.GetRandomValue(0, 255)),
			G: uint8(rl.GetRandomValue(0, 255)),
			B: uint8(rl.GetRandomValue(0, 255)),
			A: 255,
		}
		res.SettingsChanged = true
	}
	rl.DrawRectangle(int32(x+w/2+3), int32(y), rowHeight, rowHeight, rl.Color(res.Settings.MarkerColor))
	y += rowHeight + rowGap*2

	check := func(label string, value bool) bool {
		v := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, label, value)
		y += rowHeight
		if v != value {
			res.SettingsChanged = true
		}
		return v
	}
	res.Settings.WarmStarting = check("Warm starting", s.WarmStarting)
	res.Settings.PositionCorrection = check("Position correction", s.PositionCorrection)
	res.Settings.AccumulateImpulses = check("Accumulate impulses", s.AccumulateImpulses)

	p.height = int32(y+pad) - p.y
	return res
}
