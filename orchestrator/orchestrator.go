// Package orchestrator drives the engine world through the scenario catalog:
// it builds scenarios, steps the world once per tick, applies deferred
// reloads and executes user commands against the live world.
package orchestrator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/scenario"
	"github.com/pthm-cable/sandbox/telemetry"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrNoControllableBody is returned when a command needs the scenario's
	// designated body and the scenario has none.
	ErrNoControllableBody = errors.New("orchestrator: scenario has no controllable body")
	// ErrNoProbeBodies is returned by RecomputeContacts when the scenario
	// does not designate two probe bodies.
	ErrNoProbeBodies = errors.New("orchestrator: scenario has no probe bodies")
)

// State is the orchestrator lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "uninitialized"
}

// Direction selects the sign of a manual step.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// PhaseTimer receives phase boundaries inside Tick.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Options configure an Orchestrator. Zero values select the defaults.
type Options struct {
	Catalog []scenario.Scenario // Defaults to scenario.Catalog()
	Default int                 // Scenario loaded on the first tick
	Env     scenario.Env        // Build environment; TimeStep comes from Settings
	Strict  bool                // Panic on missing designated bodies
	Logger  *slog.Logger

	// AutoProbe recomputes the probe contacts after every build.
	AutoProbe bool

	// Narrow-phase routines used by RecomputeContacts.
	CollideBoxes    engine.CollideFunc
	CollidePolygons engine.CollideFunc

	// Perf, if set, is told when Tick enters its step and reload phases.
	Perf PhaseTimer
}

// Orchestrator owns the live world and the scenario lifecycle. It is not safe
// for concurrent use; the frame loop applies commands before calling Tick.
type Orchestrator struct {
	world    *engine.World
	catalog  []scenario.Scenario
	env      scenario.Env
	settings Settings
	strict   bool
	log      *slog.Logger

	autoProbe       bool
	collideBoxes    engine.CollideFunc
	collidePolygons engine.CollideFunc
	perf            PhaseTimer

	state         State
	selected      int
	active        int
	pendingReload bool
	paused        bool
	tick          int64

	handles scenario.Handles
	probe   [engine.MaxContacts]*engine.Contact
}

// New creates an orchestrator over w. Nothing is built until the first Tick.
func New(w *engine.World, settings Settings, opts Options) *Orchestrator {
	if opts.Catalog == nil {
		opts.Catalog = scenario.Catalog()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Env.Rand == nil {
		opts.Env.Rand = rand.New(rand.NewSource(0))
	}
	if opts.CollideBoxes == nil {
		opts.CollideBoxes = engine.Collide
	}
	if opts.CollidePolygons == nil {
		opts.CollidePolygons = engine.CollidePolygons
	}
	if opts.Default < 0 || opts.Default >= len(opts.Catalog) {
		opts.Logger.Warn("default scenario out of range, using 0", "scenario", opts.Default)
		opts.Default = 0
	}

	o := &Orchestrator{
		world:           w,
		catalog:         opts.Catalog,
		env:             opts.Env,
		strict:          opts.Strict,
		log:             opts.Logger,
		autoProbe:       opts.AutoProbe,
		collideBoxes:    opts.CollideBoxes,
		collidePolygons: opts.CollidePolygons,
		perf:            opts.Perf,
		selected:        opts.Default,
		active:          -1,
	}
	o.ApplySettings(settings)
	return o
}

// World returns the live world.
func (o *Orchestrator) World() *engine.World { return o.world }

// State returns the lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Ticks returns the number of Tick calls so far.
func (o *Orchestrator) Ticks() int64 { return o.tick }

// Catalog returns the scenario catalog.
func (o *Orchestrator) Catalog() []scenario.Scenario { return o.catalog }

// Selected returns the scenario id that the next reload builds.
func (o *Orchestrator) Selected() int { return o.selected }

// Active returns the id of the scenario currently in the world, or -1.
func (o *Orchestrator) Active() int { return o.active }

// ActiveName returns the display name of the loaded scenario.
func (o *Orchestrator) ActiveName() string {
	if o.active < 0 {
		return ""
	}
	return o.catalog[o.active].Name
}

// Handles returns the designated bodies of the loaded scenario.
func (o *Orchestrator) Handles() scenario.Handles { return o.handles }

// PendingReload reports whether a reload is queued for the next tick.
func (o *Orchestrator) PendingReload() bool { return o.pendingReload }

// Settings returns the current settings.
func (o *Orchestrator) Settings() Settings { return o.settings }

// ApplySettings installs s and forwards the solver toggles to the engine.
func (o *Orchestrator) ApplySettings(s Settings) {
	o.settings = s
	o.world.Apply(s.StepContext())
	o.world.SetNominalStep(s.TimeStep)
}

// SetView changes only the view transform, leaving toggles and colors alone.
func (o *Orchestrator) SetView(scale, translateX, translateY float64) {
	o.settings.Scale = scale
	o.settings.TranslateX = translateX
	o.settings.TranslateY = translateY
}

// Paused reports whether automatic stepping is suspended.
func (o *Orchestrator) Paused() bool { return o.paused }

// SetPaused suspends or resumes automatic stepping. Loads and manual steps
// still happen while paused.
func (o *Orchestrator) SetPaused(p bool) { o.paused = p }

// Tick advances one frame. The first tick builds the default scenario and,
// unless paused, steps it once. Later ticks step the world and then apply a pending reload,
// so a reload is visible from the following frame on.
//
// Step failures are logged and returned; the world keeps its last good state.
func (o *Orchestrator) Tick() error {
	o.tick++

	if o.state == StateUninitialized {
		o.phase(telemetry.PhaseReload)
		o.load()
		o.state = StateRunning
		if o.paused {
			return nil
		}
		o.phase(telemetry.PhaseStep)
		return o.step(Forward)
	}

	var err error
	if !o.paused {
		o.phase(telemetry.PhaseStep)
		err = o.step(Forward)
	}
	if o.pendingReload {
		o.phase(telemetry.PhaseReload)
		o.load()
		o.pendingReload = false
	}
	return err
}

func (o *Orchestrator) phase(name string) {
	if o.perf != nil {
		o.perf.StartPhase(name)
	}
}

// SelectScenario records the scenario to build on the next reload. Ids outside
// the catalog are ignored.
func (o *Orchestrator) SelectScenario(id int) bool {
	if id < 0 || id >= len(o.catalog) {
		o.log.Warn("ignoring out-of-range scenario", "scenario", id, "catalog_size", len(o.catalog))
		return false
	}
	o.selected = id
	return true
}

// RequestReload queues a rebuild of the selected scenario for the next tick.
func (o *Orchestrator) RequestReload() {
	o.pendingReload = true
}

// StepOnce performs one immediate extra step of +h or -h. Stepping backwards
// integrates with a negative step; it is not an undo.
func (o *Orchestrator) StepOnce(dir Direction) error {
	return o.step(dir)
}

func (o *Orchestrator) step(dir Direction) error {
	if err := o.world.Step(float64(dir) * o.settings.TimeStep); err != nil {
		o.log.Error("engine step failed", "tick", o.tick, "scenario", o.active, "error", err)
		return fmt.Errorf("tick %d: %w", o.tick, err)
	}
	o.bodiesMoved()
	return nil
}

// bodiesMoved invalidates the probe contacts after bodies move: recomputed
// under AutoProbe, cleared otherwise.
func (o *Orchestrator) bodiesMoved() {
	if o.autoProbe && o.world.Alive(o.handles.ProbeA) && o.world.Alive(o.handles.ProbeB) {
		_, _ = o.RecomputeContacts()
		return
	}
	o.clearProbe()
}

// load clears the world and builds the selected scenario.
func (o *Orchestrator) load() {
	o.world.Clear()
	o.world.Apply(o.settings.StepContext())
	o.world.SetNominalStep(o.settings.TimeStep)
	o.handles = scenario.Handles{}
	o.clearProbe()

	id := o.selected
	s := o.catalog[id]
	env := o.env
	env.TimeStep = o.settings.TimeStep

	h, err := s.Build(o.world, env)
	o.active = id
	if err != nil {
		if o.strict {
			panic(fmt.Sprintf("orchestrator: building %q: %v", s.Name, err))
		}
		o.log.Error("scenario build failed", "scenario", id, "name", s.Name, "error", err)
		return
	}
	o.handles = h
	o.log.Info("scenario loaded", "scenario", id, "name", s.Name, "bodies", o.world.BodyCount(), "tick", o.tick)

	o.bodiesMoved()
}

// fail reports a missing designated body: a panic in strict mode, otherwise a
// logged no-op.
func (o *Orchestrator) fail(op string, err error) error {
	if o.strict {
		panic(fmt.Sprintf("orchestrator: %s: %v", op, err))
	}
	o.log.Warn("command ignored", "command", op, "scenario", o.active, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// PerturbActiveBody moves the controllable body by (dx, dy) directly,
// bypassing integration.
func (o *Orchestrator) PerturbActiveBody(dx, dy float64) error {
	ref := o.handles.Controllable
	b, ok := o.world.Body(ref)
	if !ok {
		return o.fail("perturb", ErrNoControllableBody)
	}
	if err := o.world.SetPosition(ref, r2.Add(b.Position, r2.Vec{X: dx, Y: dy})); err != nil {
		return err
	}
	o.bodiesMoved()
	return nil
}

// RecomputeContacts clears the probe buffer and recomputes the contacts
// between the two probe bodies: the box routine when both are boxes,
// otherwise the polygon routine.
func (o *Orchestrator) RecomputeContacts() ([]*engine.Contact, error) {
	o.clearProbe()

	a, okA := o.world.Body(o.handles.ProbeA)
	b, okB := o.world.Body(o.handles.ProbeB)
	if !okA || !okB {
		return nil, o.fail("recompute contacts", ErrNoProbeBodies)
	}

	collide := o.collidePolygons
	if a.Shape == engine.ShapeBox && b.Shape == engine.ShapeBox {
		collide = o.collideBoxes
	}
	n := collide(o.probe[:], a, b)
	return o.ProbeContacts()[:n], nil
}

// ProbeContacts returns the probe buffer, nil slots included.
func (o *Orchestrator) ProbeContacts() []*engine.Contact {
	out := make([]*engine.Contact, len(o.probe))
	copy(out, o.probe[:])
	return out
}

func (o *Orchestrator) clearProbe() {
	for i := range o.probe {
		o.probe[i] = nil
	}
}

// LaunchProjectile adds a projectile to the live world.
func (o *Orchestrator) LaunchProjectile() engine.BodyRef {
	p := scenario.Projectile(o.env.Rand)
	ref := o.world.AddBody(p)
	o.log.Info("projectile launched", "tick", o.tick, "x", p.Position.X, "bodies", o.world.BodyCount())
	return ref
}

// Diagnostics is a snapshot of the world for the print-diagnostics command.
type Diagnostics struct {
	Tick      int64
	Scenario  string
	BodyCount int
	Bodies    []engine.Body
	Arbiters  []engine.Arbiter
	Probe     []*engine.Contact
}

// Diagnostics snapshots the live world.
func (o *Orchestrator) Diagnostics() Diagnostics {
	return Diagnostics{
		Tick:      o.tick,
		Scenario:  o.ActiveName(),
		BodyCount: o.world.BodyCount(),
		Bodies:    o.world.Bodies(),
		Arbiters:  o.world.Arbiters(),
		Probe:     o.ProbeContacts(),
	}
}
