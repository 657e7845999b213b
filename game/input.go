package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/orchestrator"
	"github.com/pthm-cable/sandbox/ui"
	"gonum.org/v1/gonum/spatial/r2"
)

// handleInput maps keyboard and mouse input onto queued commands.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.queue("pause", func(o *orchestrator.Orchestrator) error {
			o.SetPaused(!o.Paused())
			return nil
		})
	}

	if g.opts.CollisionMode {
		if rl.IsKeyPressed(rl.KeyRight) {
			g.nudge(NudgeDistance, 0)
		}
		if rl.IsKeyPressed(rl.KeyLeft) {
			g.nudge(-NudgeDistance, 0)
		}
	} else {
		if rl.IsKeyPressed(rl.KeyRight) {
			g.queue("step forward", func(o *orchestrator.Orchestrator) error {
				return o.StepOnce(orchestrator.Forward)
			})
		}
		if rl.IsKeyPressed(rl.KeyLeft) {
			g.queue("step backward", func(o *orchestrator.Orchestrator) error {
				return o.StepOnce(orchestrator.Backward)
			})
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		g.nudge(0, NudgeDistance)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		g.nudge(0, -NudgeDistance)
	}

	if rl.IsKeyPressed(rl.KeyEnter) {
		g.queue("diagnostics", g.printDiagnostics)
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.queue("launch", func(o *orchestrator.Orchestrator) error {
			o.LaunchProjectile()
			return nil
		})
	}

	for _, key := range g.layers.Keys() {
		if rl.IsKeyPressed(key) {
			g.layers.HandleKeyPress(key)
		}
	}

	g.handleCameraInput()
	g.handleSelection()
}

func (g *Game) nudge(dx, dy float64) {
	g.queue("perturb", func(o *orchestrator.Orchestrator) error {
		return o.PerturbActiveBody(dx, dy)
	})
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-270, 10)
	g.inspector.SetPosition(int32(w)-270, 10)
}

// handleCameraInput zooms with the mouse wheel and +/-, pans with a right
// drag and resets with Home. The view lives in the orchestrator settings, so
// changes are queued like any other command.
func (g *Game) handleCameraInput() {
	changed := false

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
		changed = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
		changed = true
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
		changed = true
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			g.camera.Pan(d.X, d.Y)
			changed = true
		}
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset(float32(g.cfg.Display.Scale))
		changed = true
	}
	if !changed {
		return
	}

	scale := float64(g.camera.Scale)
	tx, ty := float64(g.camera.TranslateX), float64(g.camera.TranslateY)
	g.queue("view", func(o *orchestrator.Orchestrator) error {
		o.SetView(scale, tx, ty)
		return nil
	})
}

// handleSelection picks the body under a left click for the inspector.
func (g *Game) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.layers.IsEnabled(ui.OverlaySettings) && g.panel.Contains(mouse) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	ref, ok := g.world.BodyAt(r2.Vec{X: wx, Y: wy})
	if !ok {
		return
	}
	g.selected = ref
	g.layers.SetEnabled(ui.OverlayInspector, true)
}
