// Package ui draws the sandbox's screen-space panels: the raygui settings
// panel, the HUD with frame timings and the body inspector. Inspector rows
// are described by metadata so the field list can change alongside the
// engine's Body type.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // TextGetter, or Format applied to Getter
	WidgetBar                           // Bar filled over Range
	WidgetCenteredBar                   // Bar growing from zero in either direction
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// SymmetricRange returns a [-limit, +limit] range.
func SymmetricRange(limit float32) FieldRange {
	return FieldRange{Min: -limit, Max: limit}
}

// Fraction maps v to its position in the range, clamped to [0, 1].
func (fr FieldRange) Fraction(v float32) float32 {
	if fr.Max <= fr.Min {
		return 0
	}
	return clampUnit((v - fr.Min) / (fr.Max - fr.Min))
}

// Limit returns the larger magnitude of the two bounds.
func (fr FieldRange) Limit() float32 {
	return max(fr.Max, -fr.Min)
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label      string
	Widget     WidgetType
	Format     string // Printf format for numeric text
	Range      FieldRange
	Visible    func(any) bool // nil = always visible
	Getter     func(any) float32
	TextGetter func(any) string
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:   rl.Yellow,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
