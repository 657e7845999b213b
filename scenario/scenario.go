// Package scenario holds the catalog of scripted scenes, the projectile
// factory and the contact probes used by the collision debugger.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Tuning is a spring-damper description of a soft joint.
type Tuning struct {
	FrequencyHz  float64
	DampingRatio float64
}

// Env is everything a build procedure may read besides the world.
type Env struct {
	Rand     *rand.Rand
	TimeStep float64
	Bridge   Tuning
	Chain    Tuning
}

// DefaultEnv returns an environment with the stock tuning at 60 Hz.
func DefaultEnv(seed int64) Env {
	return Env{
		Rand:     rand.New(rand.NewSource(seed)),
		TimeStep: 1.0 / 60.0,
		Bridge:   Tuning{FrequencyHz: 2, DampingRatio: 0.7},
		Chain:    Tuning{FrequencyHz: 4, DampingRatio: 0.7},
	}
}

// Handles are the bodies a scenario designates for orchestrator commands.
// Zero handles mean "none".
type Handles struct {
	Controllable engine.BodyRef
	ProbeA       engine.BodyRef
	ProbeB       engine.BodyRef
}

// Scenario is a named build procedure. Build expects an empty world and must
// be deterministic for a given Env seed and time step.
type Scenario struct {
	Name  string
	Build func(w *engine.World, env Env) (Handles, error)
}

// Default is the scenario selected before the user picks one.
const Default = 0

// Catalog returns the ten sandbox scenarios in picker order.
func Catalog() []Scenario {
	return []Scenario{
		{Name: "Single shapes", Build: singleShapes},
		{Name: "Pendulum", Build: pendulum},
		{Name: "Friction ramp", Build: frictionRamp},
		{Name: "Vertical stack", Build: verticalStack},
		{Name: "Pyramid", Build: pyramid},
		{Name: "Teeter", Build: teeter},
		{Name: "Suspension bridge", Build: bridge},
		{Name: "Dominoes", Build: dominoes},
		{Name: "Multi-pendulum", Build: multiPendulum},
		{Name: "Pawn and pendulum", Build: pawnAndPendulum},
	}
}

// Names returns the display names of a catalog.
func Names(catalog []Scenario) []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

// builder accumulates bodies and joints, keeping the first error.
type builder struct {
	w    *engine.World
	refs []engine.BodyRef
	err  error
}

func newBuilder(w *engine.World) *builder {
	return &builder{w: w}
}

func (b *builder) add(body engine.Body) engine.BodyRef {
	ref := b.w.AddBody(body)
	b.refs = append(b.refs, ref)
	return ref
}

// pin joins two bodies rigidly at a world anchor.
func (b *builder) pin(a, c engine.BodyRef, anchor r2.Vec) {
	b.pinSoft(a, c, anchor, 0, engine.DefaultBiasFactor)
}

func (b *builder) pinSoft(a, c engine.BodyRef, anchor r2.Vec, softness, biasFactor float64) {
	if b.err != nil {
		return
	}
	j, err := engine.NewJoint(b.w, a, c, anchor)
	if err != nil {
		b.err = err
		return
	}
	j.Softness = softness
	j.BiasFactor = biasFactor
	if err := b.w.AddJoint(j); err != nil {
		b.err = err
	}
}

// handles designates the second body as controllable and the first two
// bodies as the contact probe pair.
func (b *builder) handles() (Handles, error) {
	if b.err != nil {
		return Handles{}, fmt.Errorf("building scenario: %w", b.err)
	}
	var h Handles
	if len(b.refs) > 0 {
		h.ProbeA = b.refs[0]
	}
	if len(b.refs) > 1 {
		h.Controllable = b.refs[1]
		h.ProbeB = b.refs[1]
	}
	return h, nil
}
