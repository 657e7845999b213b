package orchestrator

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/scenario"
	"gonum.org/v1/gonum/spatial/r2"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	w := engine.New(r2.Vec{Y: -10}, 10)
	return New(w, DefaultSettings(), opts)
}

func TestFirstTickLoadsDefault(t *testing.T) {
	o := newTestOrchestrator(Options{})
	if o.State() != StateUninitialized {
		t.Fatalf("State = %v, want uninitialized", o.State())
	}
	if o.World().BodyCount() != 0 {
		t.Fatalf("BodyCount before first tick = %d, want 0", o.World().BodyCount())
	}

	if err := o.Tick(); err != nil {
		t.Fatalf("Tick error = %v", err)
	}
	if o.State() != StateRunning {
		t.Errorf("State = %v, want running", o.State())
	}
	if o.Active() != scenario.Default {
		t.Errorf("Active = %d, want %d", o.Active(), scenario.Default)
	}
	if o.World().BodyCount() != 4 {
		t.Errorf("BodyCount = %d, want 4", o.World().BodyCount())
	}

	// The first tick steps after building, so the falling box has moved.
	box, _ := o.World().Body(o.World().Refs()[1])
	if box.Velocity.Y >= 0 {
		t.Errorf("box velocity = %v, want falling", box.Velocity)
	}
}

func TestSelectOutOfRangeIgnored(t *testing.T) {
	o := newTestOrchestrator(Options{})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	gen := o.World().Generation()

	for _, id := range []int{-1, 10, 99} {
		if o.SelectScenario(id) {
			t.Errorf("SelectScenario(%d) = true, want false", id)
		}
	}
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}

	if o.Selected() != 0 || o.Active() != 0 {
		t.Errorf("Selected/Active = %d/%d, want 0/0", o.Selected(), o.Active())
	}
	if o.World().Generation() != gen {
		t.Errorf("Generation = %d, want %d", o.World().Generation(), gen)
	}
	if o.World().BodyCount() != 4 {
		t.Errorf("BodyCount = %d, want 4", o.World().BodyCount())
	}
}

func TestReloadAppliesAfterStep(t *testing.T) {
	o := newTestOrchestrator(Options{})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}

	o.SelectScenario(1)
	o.RequestReload()
	if !o.PendingReload() {
		t.Fatal("PendingReload = false after RequestReload")
	}
	// Until the next tick the old scenario is still live.
	if o.World().BodyCount() != 4 {
		t.Errorf("BodyCount before tick = %d, want 4", o.World().BodyCount())
	}

	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	if o.PendingReload() {
		t.Error("PendingReload still set after tick")
	}
	if o.Active() != 1 || o.World().BodyCount() != 2 {
		t.Errorf("Active = %d, bodies = %d, want pendulum with 2 bodies", o.Active(), o.World().BodyCount())
	}

	// The reload happened after the tick's step: the bob is still at rest.
	bob, _ := o.World().Body(o.World().Refs()[1])
	if bob.Position != (r2.Vec{X: 9, Y: 11}) || bob.Velocity != (r2.Vec{}) {
		t.Errorf("bob = %v/%v, want unstepped at (9,11)", bob.Position, bob.Velocity)
	}

	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	bob, _ = o.World().Body(o.World().Refs()[1])
	if bob.Velocity.Y >= 0 {
		t.Errorf("bob velocity after next tick = %v, want falling", bob.Velocity)
	}
}

func TestPausedTickSkipsStep(t *testing.T) {
	o := newTestOrchestrator(Options{})
	o.SetPaused(true)
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	before := o.World().Bodies()

	for i := 0; i < 5; i++ {
		if err := o.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	after := o.World().Bodies()
	for i := range before {
		if before[i].Position != after[i].Position {
			t.Errorf("body %d moved while paused", i)
		}
	}

	if err := o.StepOnce(Forward); err != nil {
		t.Fatal(err)
	}
	// The first step from rest only changes velocity.
	stepped := o.World().Bodies()
	if stepped[1].Velocity.Y >= after[1].Velocity.Y {
		t.Errorf("vy after StepOnce = %v, want below %v", stepped[1].Velocity.Y, after[1].Velocity.Y)
	}
}

func TestStepOnceBackward(t *testing.T) {
	o := newTestOrchestrator(Options{})
	o.SetPaused(true)
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	start, _ := o.World().Body(o.World().Refs()[1])

	if err := o.StepOnce(Backward); err != nil {
		t.Fatal(err)
	}
	// Gravity integrated over -h slows the fall.
	back, _ := o.World().Body(o.World().Refs()[1])
	if back.Velocity.Y <= start.Velocity.Y {
		t.Errorf("vy after backward step = %v, want above %v", back.Velocity.Y, start.Velocity.Y)
	}
}

func TestPerturbActiveBody(t *testing.T) {
	o := newTestOrchestrator(Options{Default: 1})
	o.SetPaused(true)
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	before, _ := o.World().Body(o.Handles().Controllable)

	if err := o.PerturbActiveBody(0.5, -0.5); err != nil {
		t.Fatalf("PerturbActiveBody error = %v", err)
	}
	after, _ := o.World().Body(o.Handles().Controllable)
	want := r2.Add(before.Position, r2.Vec{X: 0.5, Y: -0.5})
	if math.Abs(after.Position.X-want.X) > 1e-12 || math.Abs(after.Position.Y-want.Y) > 1e-12 {
		t.Errorf("Position = %v, want %v", after.Position, want)
	}
}

func emptyCatalog() []scenario.Scenario {
	return []scenario.Scenario{{
		Name:  "empty",
		Build: func(*engine.World, scenario.Env) (scenario.Handles, error) { return scenario.Handles{}, nil },
	}}
}

func TestMissingControllableBody(t *testing.T) {
	o := newTestOrchestrator(Options{Catalog: emptyCatalog()})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := o.PerturbActiveBody(1, 0); !errors.Is(err, ErrNoControllableBody) {
		t.Errorf("PerturbActiveBody error = %v, want ErrNoControllableBody", err)
	}
	if _, err := o.RecomputeContacts(); !errors.Is(err, ErrNoProbeBodies) {
		t.Errorf("RecomputeContacts error = %v, want ErrNoProbeBodies", err)
	}
}

func TestMissingControllableBodyStrictPanics(t *testing.T) {
	o := newTestOrchestrator(Options{Catalog: emptyCatalog(), Strict: true})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic in strict mode")
		}
	}()
	_ = o.PerturbActiveBody(1, 0)
}

func TestRecomputeContactsDispatch(t *testing.T) {
	tests := []struct {
		probe    int
		wantBox  bool
		wantPoly bool
	}{
		{0, true, false}, // box + box
		{1, true, false}, // ground + box
		{6, false, true}, // pentagon + hexagon
		{7, false, true}, // box + hexagon
	}

	for _, tt := range tests {
		var boxCalls, polyCalls int
		o := newTestOrchestrator(Options{
			Catalog: scenario.Probes(),
			Default: tt.probe,
			CollideBoxes: func(out []*engine.Contact, a, b engine.Body) int {
				boxCalls++
				return 0
			},
			CollidePolygons: func(out []*engine.Contact, a, b engine.Body) int {
				polyCalls++
				return 0
			},
		})
		o.SetPaused(true)
		if err := o.Tick(); err != nil {
			t.Fatal(err)
		}
		if _, err := o.RecomputeContacts(); err != nil {
			t.Fatalf("probe %d: RecomputeContacts error = %v", tt.probe, err)
		}
		if (boxCalls > 0) != tt.wantBox || (polyCalls > 0) != tt.wantPoly {
			t.Errorf("probe %d: box/poly calls = %d/%d, want box=%v poly=%v",
				tt.probe, boxCalls, polyCalls, tt.wantBox, tt.wantPoly)
		}
	}
}

func TestRecomputeContactsClearsBuffer(t *testing.T) {
	o := newTestOrchestrator(Options{Catalog: scenario.Probes(), Default: 2})
	o.SetPaused(true)
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}

	contacts, err := o.RecomputeContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) == 0 {
		t.Fatal("overlapping boxes produced no contacts")
	}

	// Move the second box far away; the stale contacts must disappear.
	if err := o.PerturbActiveBody(50, 0); err != nil {
		t.Fatal(err)
	}
	contacts, err = o.RecomputeContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(contacts))
	}
	for i, c := range o.ProbeContacts() {
		if c != nil {
			t.Errorf("probe slot %d = %v, want nil", i, c)
		}
	}
}

func TestStepFailureKeepsLastGoodState(t *testing.T) {
	catalog := []scenario.Scenario{{
		Name: "runaway",
		Build: func(w *engine.World, _ scenario.Env) (scenario.Handles, error) {
			b := engine.NewBox(r2.Vec{X: 1, Y: 1}, 1)
			b.Position = r2.Vec{X: 1, Y: 2}
			b.Velocity = r2.Vec{X: math.MaxFloat64}
			ref := w.AddBody(b)
			return scenario.Handles{Controllable: ref}, nil
		},
	}}

	settings := DefaultSettings()
	settings.TimeStep = 10
	o := New(engine.New(r2.Vec{}, 10), settings, Options{Catalog: catalog, Logger: quietLogger()})

	for i := 0; i < 3; i++ {
		err := o.Tick()
		if !errors.Is(err, engine.ErrStepFailed) {
			t.Fatalf("Tick %d error = %v, want ErrStepFailed", i, err)
		}
	}
	if o.State() != StateRunning {
		t.Errorf("State = %v, want running", o.State())
	}
	b, _ := o.World().Body(o.Handles().Controllable)
	if b.Position != (r2.Vec{X: 1, Y: 2}) {
		t.Errorf("Position = %v, want last good (1,2)", b.Position)
	}
}

func TestLaunchProjectile(t *testing.T) {
	o := newTestOrchestrator(Options{})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	n := o.World().BodyCount()
	ref := o.LaunchProjectile()
	if !o.World().Alive(ref) {
		t.Error("projectile handle not alive")
	}
	if o.World().BodyCount() != n+1 {
		t.Errorf("BodyCount = %d, want %d", o.World().BodyCount(), n+1)
	}
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
}

func TestDiagnostics(t *testing.T) {
	o := newTestOrchestrator(Options{Default: 1})
	for i := 0; i < 3; i++ {
		if err := o.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	d := o.Diagnostics()
	if d.Tick != 3 {
		t.Errorf("Tick = %d, want 3", d.Tick)
	}
	if d.Scenario != "Pendulum" {
		t.Errorf("Scenario = %q, want Pendulum", d.Scenario)
	}
	if d.BodyCount != 2 || len(d.Bodies) != 2 {
		t.Errorf("BodyCount = %d, len(Bodies) = %d, want 2", d.BodyCount, len(d.Bodies))
	}
	if len(d.Probe) != engine.MaxContacts {
		t.Errorf("len(Probe) = %d, want %d", len(d.Probe), engine.MaxContacts)
	}
}

func TestApplySettingsForwardsToggles(t *testing.T) {
	o := newTestOrchestrator(Options{})
	s := o.Settings()
	s.WarmStarting = false
	s.PositionCorrection = false
	o.ApplySettings(s)

	ctx := o.World().Context()
	if ctx.WarmStarting || ctx.PositionCorrection || !ctx.AccumulateImpulses {
		t.Errorf("Context = %+v, want only accumulate impulses", ctx)
	}
}

type phaseRecorder struct {
	phases []string
}

func (r *phaseRecorder) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestTickReportsPhases(t *testing.T) {
	rec := &phaseRecorder{}
	o := newTestOrchestrator(Options{Perf: rec})

	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	o.RequestReload()
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}

	want := []string{"reload", "step", "step", "reload"}
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phases[%d] = %q, want %q", i, rec.phases[i], want[i])
		}
	}
}

func TestAutoProbeAfterBuild(t *testing.T) {
	tests := []struct {
		name      string
		autoProbe bool
		want      bool
	}{
		{"manual", false, false},
		{"auto", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Probe 2 is a pair of overlapping boxes.
			o := newTestOrchestrator(Options{Catalog: scenario.Probes(), Default: 2, AutoProbe: tt.autoProbe})
			o.SetPaused(true)
			if err := o.Tick(); err != nil {
				t.Fatal(err)
			}
			got := false
			for _, c := range o.ProbeContacts() {
				if c != nil {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("probe contacts present = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerturbStaticControllable(t *testing.T) {
	// In the friction ramp the controllable body is the static ramp.
	o := newTestOrchestrator(Options{Default: 2})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	ramp, _ := o.World().Body(o.Handles().Controllable)
	if !ramp.IsStatic() {
		t.Fatal("controllable body is not the static ramp")
	}

	if err := o.PerturbActiveBody(0, -60); err != nil {
		t.Fatalf("PerturbActiveBody error = %v", err)
	}
	for i := 0; i < 240; i++ {
		if err := o.Tick(); err != nil {
			t.Fatal(err)
		}
	}

	// With the ramp gone the boxes end up on the ground.
	bodies := o.World().Bodies()
	for i, b := range bodies[2:] {
		if b.Position.Y > 1 {
			t.Errorf("box %d y = %v, want resting on the ground", i, b.Position.Y)
		}
	}
}

func TestPendulumScenarioSwings(t *testing.T) {
	o := newTestOrchestrator(Options{Default: 1})
	for i := 0; i < 60; i++ {
		if err := o.Tick(); err != nil {
			t.Fatalf("Tick %d error = %v", i, err)
		}
	}

	bob, ok := o.World().Body(o.World().Refs()[1])
	if !ok {
		t.Fatal("bob handle not alive")
	}
	if bob.Position.Y >= 11 {
		t.Errorf("bob y = %v, want below 11", bob.Position.Y)
	}
	dist := r2.Norm(r2.Sub(bob.Position, r2.Vec{X: 0, Y: 11}))
	if math.Abs(dist-9) > 0.1 {
		t.Errorf("anchor distance = %v, want 9 +/- 0.1", dist)
	}
}

func TestSetViewKeepsOtherSettings(t *testing.T) {
	o := newTestOrchestrator(Options{})

	// A panel change and a camera change applied in the same frame.
	s := o.Settings()
	s.WarmStarting = false
	s.MarkerColor.R = 7
	o.ApplySettings(s)
	o.SetView(40, 12, -3)

	got := o.Settings()
	if got.Scale != 40 || got.TranslateX != 12 || got.TranslateY != -3 {
		t.Errorf("view = %v/%v/%v, want 40/12/-3", got.Scale, got.TranslateX, got.TranslateY)
	}
	if got.WarmStarting || got.MarkerColor.R != 7 {
		t.Errorf("SetView reverted panel settings: %+v", got)
	}
	if o.World().Context().WarmStarting {
		t.Error("engine context lost the warm starting toggle")
	}
}

func countContacts(cs []*engine.Contact) int {
	n := 0
	for _, c := range cs {
		if c != nil {
			n++
		}
	}
	return n
}

func TestProbeContactsClearedWhenBodiesMove(t *testing.T) {
	// Probe 2 is a pair of overlapping boxes.
	o := newTestOrchestrator(Options{Catalog: scenario.Probes(), Default: 2})
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	if _, err := o.RecomputeContacts(); err != nil {
		t.Fatal(err)
	}
	if countContacts(o.ProbeContacts()) == 0 {
		t.Fatal("overlapping boxes produced no contacts")
	}

	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}
	if n := countContacts(o.ProbeContacts()); n != 0 {
		t.Errorf("contacts after a step = %d, want 0", n)
	}

	if _, err := o.RecomputeContacts(); err != nil {
		t.Fatal(err)
	}
	if err := o.PerturbActiveBody(0.1, 0); err != nil {
		t.Fatal(err)
	}
	if n := countContacts(o.ProbeContacts()); n != 0 {
		t.Errorf("contacts after a nudge = %d, want 0", n)
	}
}

func TestAutoProbeFollowsNudges(t *testing.T) {
	o := newTestOrchestrator(Options{Catalog: scenario.Probes(), Default: 2, AutoProbe: true})
	o.SetPaused(true)
	if err := o.Tick(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dx   float64
		want bool
	}{
		{"apart", 50, false},
		{"back", -50, true},
	}
	for _, tt := range tests {
		if err := o.PerturbActiveBody(tt.dx, 0); err != nil {
			t.Fatal(err)
		}
		if got := countContacts(o.ProbeContacts()) > 0; got != tt.want {
			t.Errorf("%s: contacts present = %v, want %v", tt.name, got, tt.want)
		}
	}
}
