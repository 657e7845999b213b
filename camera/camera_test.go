package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 18)

	if cam.Scale != 18 {
		t.Errorf("Scale = %v, want 18", cam.Scale)
	}
	if cam.TranslateX != 0 || cam.TranslateY != 0 {
		t.Errorf("translate = (%v, %v), want origin", cam.TranslateX, cam.TranslateY)
	}
}

func TestOriginAtViewportCenter(t *testing.T) {
	cam := New(1280, 720, 18)

	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("origin at (%f, %f), want (640, 360)", sx, sy)
	}
}

func TestWorldIsYUp(t *testing.T) {
	cam := New(1280, 720, 10)

	_, syHigh := cam.WorldToScreen(0, 5)
	_, syLow := cam.WorldToScreen(0, -5)
	if syHigh >= syLow {
		t.Errorf("y=5 at screen %f, y=-5 at %f; want higher world y nearer the top", syHigh, syLow)
	}
	if math.Abs(float64(syLow-syHigh-100)) > 0.01 {
		t.Errorf("10 world units = %f px, want 100", syLow-syHigh)
	}
}

func TestTranslateMovesOrigin(t *testing.T) {
	cam := New(1280, 720, 18)
	cam.SetView(18, 100, 50)

	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-740)) > 0.01 || math.Abs(float64(sy-310)) > 0.01 {
		t.Errorf("origin at (%f, %f), want (740, 310)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 18)
	cam.SetView(25, -40, 70)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZeroScale(t *testing.T) {
	cam := New(1280, 720, 0)
	wx, wy := cam.ScreenToWorld(10, 10)
	if wx != 0 || wy != 0 {
		t.Errorf("ScreenToWorld = (%v, %v), want origin", wx, wy)
	}
}

func TestScaleClamp(t *testing.T) {
	cam := New(1280, 720, 18)

	cam.SetScale(5000)
	if cam.Scale != cam.MaxScale {
		t.Errorf("Scale = %f, want max %f", cam.Scale, cam.MaxScale)
	}
	cam.SetScale(-1)
	if cam.Scale != cam.MinScale {
		t.Errorf("Scale = %f, want min %f", cam.Scale, cam.MinScale)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 10)

	if !cam.IsVisible(0, 0, 1) {
		t.Error("origin should be visible")
	}
	if cam.IsVisible(1000, 0, 1) {
		t.Error("far point should not be visible")
	}
	// Just off the right edge, but radius reaches in.
	if !cam.IsVisible(64.5, 0, 1) {
		t.Error("circle overlapping the edge should be visible")
	}
}

func TestRotationDegrees(t *testing.T) {
	if got := RotationDegrees(math.Pi / 2); math.Abs(float64(got+90)) > 1e-4 {
		t.Errorf("RotationDegrees(pi/2) = %v, want -90", got)
	}
}

func TestVisibleWorldBounds(t *testing.T) {
	cam := New(1280, 720, 10)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if math.Abs(minX+64) > 0.01 || math.Abs(maxX-64) > 0.01 {
		t.Errorf("x bounds = [%v, %v], want [-64, 64]", minX, maxX)
	}
	if math.Abs(minY+36) > 0.01 || math.Abs(maxY-36) > 0.01 {
		t.Errorf("y bounds = [%v, %v], want [-36, 36]", minY, maxY)
	}
}

func TestPan(t *testing.T) {
	cam := New(1280, 720, 10)
	cam.Pan(20, 30)

	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-660)) > 0.01 || math.Abs(float64(sy-390)) > 0.01 {
		t.Errorf("origin after pan at (%f, %f), want (660, 390)", sx, sy)
	}
}
