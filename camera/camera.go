// Package camera maps the y-up simulation world onto the y-down screen.
package camera

import "math"

// Camera places the world origin at the viewport center, offset by a
// translation in pixels, and scales world units to pixels.
type Camera struct {
	// Pixels per world unit
	Scale float32

	// Origin offset in screen pixels; positive Y moves the origin up
	TranslateX, TranslateY float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Scale constraints
	MinScale, MaxScale float32
}

// New creates a camera with the origin at the viewport center.
func New(viewportW, viewportH, scale float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinScale:  0,
		MaxScale:  1000,
	}
	c.SetScale(scale)
	return c
}

// SetView installs scale and translation, e.g. from the settings panel.
func (c *Camera) SetView(scale, translateX, translateY float32) {
	c.SetScale(scale)
	c.TranslateX = translateX
	c.TranslateY = translateY
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	sx = c.ViewportW/2 + c.TranslateX + float32(wx)*c.Scale
	sy = c.ViewportH/2 - c.TranslateY - float32(wy)*c.Scale
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates. A zero
// scale maps every pixel to the origin.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	if c.Scale == 0 {
		return 0, 0
	}
	wx = float64((sx - c.ViewportW/2 - c.TranslateX) / c.Scale)
	wy = float64((c.ViewportH/2 - c.TranslateY - sy) / c.Scale)
	return wx, wy
}

// Length converts a world distance to pixels.
func (c *Camera) Length(d float64) float32 {
	return float32(d) * c.Scale
}

// RotationDegrees converts a counter-clockwise world angle in radians into
// the clockwise screen angle in degrees that raylib expects.
func RotationDegrees(theta float64) float32 {
	return float32(-theta * 180 / math.Pi)
}

// IsVisible returns true if a circle at (wx, wy) with the given world radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	r := c.Length(radius)
	return sx+r >= 0 && sx-r <= c.ViewportW && sy+r >= 0 && sy-r <= c.ViewportH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the origin by the given delta in screen pixels (y down).
func (c *Camera) Pan(dx, dy float32) {
	c.TranslateX += dx
	c.TranslateY -= dy
}

// SetScale sets the scale, clamped to min/max.
func (c *Camera) SetScale(scale float32) {
	c.Scale = clamp(scale, c.MinScale, c.MaxScale)
}

// ZoomBy multiplies the current scale by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetScale(c.Scale * factor)
}

// Reset centers the origin and restores the given scale.
func (c *Camera) Reset(scale float32) {
	c.TranslateX = 0
	c.TranslateY = 0
	c.SetScale(scale)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	minX, maxY = c.ScreenToWorld(0, 0)
	maxX, minY = c.ScreenToWorld(c.ViewportW, c.ViewportH)
	return
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
