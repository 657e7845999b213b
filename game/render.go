package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/orchestrator"
	"github.com/pthm-cable/sandbox/overlay"
	"github.com/pthm-cable/sandbox/renderer"
	"github.com/pthm-cable/sandbox/telemetry"
	"github.com/pthm-cable/sandbox/ui"
)

// Draw builds the overlay for the current world and renders the frame.
func (g *Game) Draw() {
	settings := g.orch.Settings()

	g.perf.StartPhase(telemetry.PhaseOverlay)
	g.frame = overlay.Build(g.world, g.orch.ProbeContacts(), settings)

	g.perf.StartPhase(telemetry.PhaseRender)
	g.camera.SetView(float32(settings.Scale), float32(settings.TranslateX), float32(settings.TranslateY))

	rl.BeginDrawing()

	g.background.Draw(rl.Color(g.frame.Background))
	g.frames.Draw(&g.frame, renderer.Layers{
		Contacts: g.layers.IsEnabled(ui.OverlayContacts),
		Joints:   g.layers.IsEnabled(ui.OverlayJoints),
	})

	g.hud.Draw(ui.HUDData{
		Scenario:      g.orch.ActiveName(),
		Tick:          g.orch.Ticks(),
		Bodies:        g.world.BodyCount(),
		Arbiters:      len(g.world.Arbiters()),
		FPS:           rl.GetFPS(),
		Paused:        g.orch.Paused(),
		PendingReload: g.orch.PendingReload(),
		ScreenHeight:  int32(g.screenHeight),
	})

	if g.layers.IsEnabled(ui.OverlaySettings) {
		g.queuePanel(g.panel.Draw(settings))
	}
	if g.layers.IsEnabled(ui.OverlayInspector) {
		if data, ok := g.inspected(); ok {
			g.inspector.Draw(data)
		}
	}
	if g.layers.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perf.Stats())
	}

	rl.EndDrawing()

	g.perf.EndTick()
	g.perf.RecordFrame()
	g.flushTelemetry()
}

// queuePanel turns the settings panel's result into commands for the next
// update. Selection is applied before the reload it may trigger.
func (g *Game) queuePanel(res ui.PanelResult) {
	if res.SettingsChanged {
		s := res.Settings
		g.queue("settings", func(o *orchestrator.Orchestrator) error {
			o.ApplySettings(s)
			return nil
		})
	}
	if res.SelectionChanged {
		id := res.Selected
		g.queue("select", func(o *orchestrator.Orchestrator) error {
			o.SelectScenario(id)
			return nil
		})
	}
	if res.Load {
		g.queue("reload", func(o *orchestrator.Orchestrator) error {
			o.RequestReload()
			return nil
		})
	}
	if res.Launch {
		g.queue("launch", func(o *orchestrator.Orchestrator) error {
			o.LaunchProjectile()
			return nil
		})
	}
}

// inspected returns the clicked body if it still exists, otherwise the
// scenario's controllable body.
func (g *Game) inspected() (ui.InspectorData, bool) {
	role := "selected"
	ref := g.selected
	if !g.world.Alive(ref) {
		role = "controllable"
		ref = g.orch.Handles().Controllable
	}
	return g.inspectorData(role, ref)
}

func (g *Game) inspectorData(role string, ref engine.BodyRef) (ui.InspectorData, bool) {
	b, ok := g.world.Body(ref)
	if !ok {
		return ui.InspectorData{}, false
	}
	idx, _ := g.world.Index(ref)
	return ui.InspectorData{Role: role, Index: idx, Body: b}, true
}
