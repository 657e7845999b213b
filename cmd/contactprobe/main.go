// Contact probe tool - places two bodies, lets the arrow keys nudge the second
// one and recomputes their narrow-phase contacts on Return.
//
// Usage: go run ./cmd/contactprobe [-probe 6]
package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/game"
	"github.com/pthm-cable/sandbox/scenario"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	probe := flag.Int("probe", scenario.DefaultProbe, "Initial probe pair index")
	outputDir := flag.String("output-dir", "", "Output directory for contact dumps")
	strict := flag.Bool("strict", false, "Panic on orchestrator contract violations")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.DefaultOptions()
	opts.Catalog = scenario.Probes()
	opts.Scenario = *probe
	opts.CollisionMode = true
	opts.OutputDir = *outputDir
	opts.Strict = *strict

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Contact Probe")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}
