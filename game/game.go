// Package game is the presentation shell: it maps raylib input onto
// orchestrator commands, runs one orchestrator tick per frame and draws the
// overlay, the settings panel and the HUD.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/sandbox/camera"
	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/orchestrator"
	"github.com/pthm-cable/sandbox/overlay"
	"github.com/pthm-cable/sandbox/renderer"
	"github.com/pthm-cable/sandbox/scenario"
	"github.com/pthm-cable/sandbox/telemetry"
	"github.com/pthm-cable/sandbox/ui"
)

// Game holds the complete sandbox state.
type Game struct {
	cfg  *config.Config
	opts Options

	world *engine.World
	orch  *orchestrator.Orchestrator

	// Commands queued by input handling, applied before the next tick
	commands []command

	// Last built overlay
	frame overlay.Frame

	// Rendering and UI (nil in headless mode)
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	frames     *renderer.FrameRenderer
	layers     *ui.OverlayRegistry
	panel      *ui.SettingsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	inspector  *ui.Inspector

	// Inspector selection; falls back to the controllable body when stale
	selected engine.BodyRef

	perf   *telemetry.PerfCollector
	stats  *telemetry.Collector // nil when stats_window is 0
	output *telemetry.OutputManager

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In graphics mode the raylib window
// must already be open.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	g := &Game{
		cfg:          cfg,
		opts:         opts,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		screenWidth:  float32(cfg.Screen.Width),
		screenHeight: float32(cfg.Screen.Height),
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = scenario.Catalog()
	}
	initial := opts.Scenario
	if initial < 0 {
		initial = cfg.Scenarios.Default
	}

	g.world = engine.New(cfg.Derived.Gravity, cfg.Physics.Iterations)
	g.orch = orchestrator.New(g.world, orchestrator.SettingsFromConfig(cfg), orchestrator.Options{
		Catalog:   catalog,
		Default:   initial,
		Env:       orchestrator.EnvFromConfig(cfg, rand.New(rand.NewSource(opts.Seed))),
		Strict:    opts.Strict || cfg.Orchestrator.Strict,
		AutoProbe: opts.CollisionMode,
		Perf:      g.perf,
	})
	g.orch.SetPaused(opts.CollisionMode)

	if cfg.Telemetry.StatsWindow > 0 {
		g.stats = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.TimeStep)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.initGraphics(catalog, initial)
	}

	slog.Info("sandbox ready",
		"scenario", initial,
		"catalog_size", len(catalog),
		"seed", opts.Seed,
		"collision_mode", opts.CollisionMode,
		"headless", opts.Headless,
	)
	return g
}

func (g *Game) initGraphics(catalog []scenario.Scenario, initial int) {
	s := g.orch.Settings()
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(s.Scale))
	g.camera.SetView(float32(s.Scale), float32(s.TranslateX), float32(s.TranslateY))
	g.background = renderer.NewBackgroundRenderer(g.camera)
	g.frames = renderer.NewFrameRenderer(g.camera)

	g.layers = ui.NewOverlayRegistry()
	if g.opts.CollisionMode {
		g.layers.SetEnabled(ui.OverlayInspector, true)
	}

	panelWidth := int32(240)
	g.panel = ui.NewSettingsPanel(10, 80, panelWidth, scenario.Names(catalog))
	g.panel.SetActive(initial)
	g.hud = ui.NewHUD(panelWidth + 30)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, 10)
	g.inspector = ui.NewInspector(int32(g.screenWidth)-270, 10, 260)
}

// Tick returns the number of orchestrator ticks so far.
func (g *Game) Tick() int64 {
	return g.orch.Ticks()
}

// Orchestrator returns the scene orchestrator.
func (g *Game) Orchestrator() *orchestrator.Orchestrator {
	return g.orch
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
