package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/camera"
)

// BackgroundRenderer clears the screen and draws a world-space grid with the
// axes highlighted.
type BackgroundRenderer struct {
	cam       *camera.Camera
	gridColor rl.Color
	axisColor rl.Color

	// Minimum on-screen spacing between grid lines
	minSpacingPx float32
}

// NewBackgroundRenderer creates a background renderer bound to cam.
func NewBackgroundRenderer(cam *camera.Camera) *BackgroundRenderer {
	return &BackgroundRenderer{
		cam:          cam,
		gridColor:    rl.Color{R: 255, G: 255, B: 255, A: 18},
		axisColor:    rl.Color{R: 255, G: 255, B: 255, A: 45},
		minSpacingPx: 24,
	}
}

// GridSpacing returns the world spacing of grid lines: the smallest power of
// ten that keeps lines at least minSpacingPx apart at the given scale.
func GridSpacing(scale, minSpacingPx float32) float64 {
	if scale <= 0 {
		return 0
	}
	return math.Pow(10, math.Ceil(math.Log10(float64(minSpacingPx/scale))))
}

// Draw clears to background and draws the grid.
func (b *BackgroundRenderer) Draw(background rl.Color) {
	rl.ClearBackground(background)

	step := GridSpacing(b.cam.Scale, b.minSpacingPx)
	if step == 0 {
		return
	}
	minX, minY, maxX, maxY := b.cam.VisibleWorldBounds()
	w, h := int32(b.cam.ViewportW), int32(b.cam.ViewportH)

	for x := math.Floor(minX/step) * step; x <= maxX; x += step {
		sx, _ := b.cam.WorldToScreen(x, 0)
		color := b.gridColor
		if math.Abs(x) < step/2 {
			color = b.axisColor
		}
		rl.DrawLine(int32(sx), 0, int32(sx), h, color)
	}
	for y := math.Floor(minY/step) * step; y <= maxY; y += step {
		_, sy := b.cam.WorldToScreen(0, y)
		color := b.gridColor
		if math.Abs(y) < step/2 {
			color = b.axisColor
		}
		rl.DrawLine(0, int32(sy), w, int32(sy), color)
	}
}
