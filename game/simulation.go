package game

import (
	"log/slog"

	"github.com/pthm-cable/sandbox/orchestrator"
	"github.com/pthm-cable/sandbox/overlay"
	"github.com/pthm-cable/sandbox/telemetry"
)

// command is an orchestrator call queued by input handling.
type command struct {
	name string
	run  func(o *orchestrator.Orchestrator) error
}

func (g *Game) queue(name string, run func(o *orchestrator.Orchestrator) error) {
	g.commands = append(g.commands, command{name: name, run: run})
}

// applyCommands runs the queued commands in order. Failures are logged by the
// orchestrator; they never stop the frame.
func (g *Game) applyCommands() {
	for _, c := range g.commands {
		if err := c.run(g.orch); err != nil {
			slog.Debug("command failed", "command", c.name, "tick", g.orch.Ticks(), "error", err)
			continue
		}
		if c.name == "launch" && g.stats != nil {
			g.stats.RecordLaunch()
		}
	}
	g.commands = g.commands[:0]
}

// Update handles input, applies the resulting commands and advances one tick.
// Draw finishes the frame.
func (g *Game) Update() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseCommands)
	g.handleInput()
	g.applyCommands()

	g.tick()
}

// tick advances the orchestrator and feeds the stats collector.
func (g *Game) tick() {
	stepped := !g.orch.Paused()
	err := g.orch.Tick()
	if g.stats == nil {
		return
	}
	if stepped {
		g.stats.RecordStep(err)
	}
	g.stats.ObserveGeneration(g.world.Generation())
}

// UpdateHeadless runs one frame without graphics: commands, tick and overlay
// construction, with perf rows written every perf_log_interval ticks.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseCommands)
	g.applyCommands()

	g.tick()

	g.perf.StartPhase(telemetry.PhaseOverlay)
	g.frame = overlay.Build(g.world, g.orch.ProbeContacts(), g.orch.Settings())

	g.perf.EndTick()
	g.flushTelemetry()
}

// flushTelemetry logs and records window stats and perf stats on their
// configured cadences.
func (g *Game) flushTelemetry() {
	if g.stats != nil && g.stats.ShouldFlush(g.orch.Ticks()) {
		ws := g.stats.Flush(g.orch.Ticks(), g.orch.ActiveName(), g.world)
		ws.LogStats()
		if err := g.output.WriteStats(ws); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
	}

	interval := int64(g.cfg.Telemetry.PerfLogInterval)
	if interval <= 0 || g.orch.Ticks()%interval != 0 {
		return
	}
	stats := g.perf.Stats()
	stats.LogStats(g.orch.Ticks())
	if err := g.output.WritePerf(stats, g.orch.Ticks()); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// printDiagnostics recomputes the probe contacts and dumps the world through
// slog and, when enabled, the CSV output.
func (g *Game) printDiagnostics(o *orchestrator.Orchestrator) error {
	contacts, err := o.RecomputeContacts()
	d := o.Diagnostics()

	slog.Info("diagnostics",
		"tick", d.Tick,
		"scenario", d.Scenario,
		"bodies", d.BodyCount,
		"arbiters", len(d.Arbiters),
		"probe_contacts", len(contacts),
	)
	for i, b := range d.Bodies {
		slog.Info("body",
			"index", i,
			"shape", b.Shape.String(),
			"x", b.Position.X, "y", b.Position.Y,
			"rotation", b.Rotation,
			"vx", b.Velocity.X, "vy", b.Velocity.Y,
			"angular_velocity", b.AngularVelocity,
		)
	}
	for i, c := range contacts {
		if c == nil {
			continue
		}
		slog.Info("probe contact",
			"slot", i,
			"x", c.Position.X, "y", c.Position.Y,
			"nx", c.Normal.X, "ny", c.Normal.Y,
			"separation", c.Separation,
		)
	}

	if werr := g.output.WriteDiagnostics(d.Tick, d.Scenario, g.world, d.Probe); werr != nil {
		slog.Error("failed to write diagnostics", "error", werr)
	}
	return err
}
