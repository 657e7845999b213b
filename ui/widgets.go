package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panels and inspector rows with one Theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a panel rectangle and outlines it.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a title line and returns the next row's Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the next row's Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// track lays out a bar row: label on the left, empty track, value text on
// the right. It returns the track's x and width.
func (r *Renderer) track(x, y, width int32, label, value string) (int32, int32) {
	tx := x + r.Theme.LabelWidth
	tw := width - r.Theme.LabelWidth - 50
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(tx, y+2, tw, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawText(value, tx+tw+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return tx, tw
}

// DrawBar fills the track from the left by value's position in rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	tx, tw := r.track(x, y, width, label, fmt.Sprintf("%.2f", value))
	rl.DrawRectangle(tx, y+2, int32(float32(tw)*rng.Fraction(value)), r.Theme.BarHeight, r.Theme.BarFill)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar fills the track outward from its middle, green for
// positive values and red for negative ones.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	tx, tw := r.track(x, y, width, label, fmt.Sprintf("%+.2f", value))
	mid := tx + tw/2
	rl.DrawLine(mid, y+2, mid, y+2+r.Theme.BarHeight, r.Theme.PanelBorder)

	var fill int32
	if limit := rng.Limit(); limit > 0 {
		fill = int32(float32(tw/2) * clampUnit(abs32(value)/limit))
	}
	if value < 0 {
		rl.DrawRectangle(mid-fill, y+2, fill, r.Theme.BarHeight, r.Theme.BarFillNegative)
	} else {
		rl.DrawRectangle(mid, y+2, fill, r.Theme.BarHeight, r.Theme.BarFillPositive)
	}
	return y + r.Theme.LineHeight + 2
}

// DrawField renders one inspector row.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	var value float32
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, value, fd.Range, width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, value, fd.Range, width)
	default:
		if fd.TextGetter != nil {
			return r.DrawLabelValue(x, y, fd.Label, fd.TextGetter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, fmt.Sprintf(fd.Format, value))
	}
}

// DrawSection renders a titled group of rows, skipping hidden ones.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			y = r.DrawField(x, y, fd, data, width)
		}
	}
	return y + 4
}

func clampUnit(v float32) float32 {
	return min(max(v, 0), 1)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
