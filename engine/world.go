// Package engine adapts the Chipmunk2D port (github.com/jakecoffman/cp) to
// the sandbox's world model: value bodies, generational body handles, joints
// with softness and bias factor, and arbiters with up to two contacts.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrStaleBody is returned for handles that are not alive in the current generation.
	ErrStaleBody = errors.New("engine: body handle is not alive in this world")
	// ErrInvalidJoint is returned for joints that cannot be attached.
	ErrInvalidJoint = errors.New("engine: invalid joint")
	// ErrInvalidTimeStep is returned for NaN or infinite step sizes.
	ErrInvalidTimeStep = errors.New("engine: invalid time step")
	// ErrStepFailed wraps failures raised while stepping.
	ErrStepFailed = errors.New("engine: step failed")
)

const (
	collisionSlop = 0.01
	defaultStep   = 1.0 / 60.0
)

// BodyRef is a generational handle to a body. Clear invalidates every
// outstanding handle.
type BodyRef = ecs.Entity

// StepContext holds the solver feature toggles. PositionCorrection is mapped
// onto the rigid joint error bias; cp keeps its contact bias fixed.
// WarmStarting and AccumulateImpulses are recorded for the UI since the
// solver always warm starts with accumulated impulses.
type StepContext struct {
	WarmStarting       bool
	PositionCorrection bool
	AccumulateImpulses bool
}

// DefaultStepContext enables every solver feature.
func DefaultStepContext() StepContext {
	return StepContext{WarmStarting: true, PositionCorrection: true, AccumulateImpulses: true}
}

// slot is the arena component backing one body handle.
type slot struct {
	index int
	desc  Body
	body  *cp.Body
	shape *cp.Shape
}

type jointEntry struct {
	Joint
	constraint *cp.Constraint
}

// bodyState is the kinematic part of a body, used to roll back failed steps.
type bodyState struct {
	pos, vel      r2.Vec
	angle, angVel float64
}

// World owns every body, joint and contact of the running scenario.
type World struct {
	gravity     r2.Vec
	iterations  int
	ctx         StepContext
	nominalStep float64
	generation  uint64

	space  *cp.Space
	arena  *ecs.World
	slots  *ecs.Map1[slot]
	refs   []BodyRef
	byBody map[*cp.Body]BodyRef
	joints []jointEntry
}

// New creates an empty world.
func New(gravity r2.Vec, iterations int) *World {
	if iterations < 1 {
		iterations = 1
	}
	arena := ecs.NewWorld()
	w := &World{
		gravity:     gravity,
		iterations:  iterations,
		ctx:         DefaultStepContext(),
		nominalStep: defaultStep,
		arena:       arena,
		slots:       ecs.NewMap1[slot](arena),
		byBody:      make(map[*cp.Body]BodyRef),
	}
	w.space = w.newSpace()
	w.applyBias()
	return w
}

func (w *World) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = uint(w.iterations)
	space.SetGravity(toVector(w.gravity))
	space.SetCollisionSlop(collisionSlop)
	return space
}

// Gravity returns the world gravity.
func (w *World) Gravity() r2.Vec { return w.gravity }

// Iterations returns the solver iteration count.
func (w *World) Iterations() int { return w.iterations }

// Generation counts calls to Clear.
func (w *World) Generation() uint64 { return w.generation }

// NominalStep is the step size joint tuning is converted at.
func (w *World) NominalStep() float64 { return w.nominalStep }

// SetNominalStep sets the step size used to convert joint bias factors and
// softness into solver terms. It applies to joints added afterwards and to
// the bias of existing rigid joints.
func (w *World) SetNominalStep(h float64) {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return
	}
	w.nominalStep = h
	w.applyBias()
}

// Context returns the current solver toggles.
func (w *World) Context() StepContext { return w.ctx }

// Apply installs solver toggles.
func (w *World) Apply(ctx StepContext) {
	if ctx == w.ctx {
		return
	}
	w.ctx = ctx
	w.applyBias()
}

// AddBody transfers b into the world and returns its handle.
func (w *World) AddBody(b Body) BodyRef {
	ref := w.slots.NewEntity(&slot{index: len(w.refs), desc: b.clone()})
	w.attach(ref, w.slots.Get(ref), bodyState{
		pos:    b.Position,
		vel:    b.Velocity,
		angle:  b.Rotation,
		angVel: b.AngularVelocity,
	})
	w.refs = append(w.refs, ref)
	return ref
}

// attach creates the solver body and shape for s at the given state.
func (w *World) attach(ref BodyRef, s *slot, st bodyState) {
	var body *cp.Body
	if s.desc.IsStatic() {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(s.desc.Mass, momentFor(s.desc))
	}
	body.SetPosition(toVector(st.pos))
	body.SetAngle(st.angle)
	if !s.desc.IsStatic() {
		body.SetVelocityVector(toVector(st.vel))
		body.SetAngularVelocity(st.angVel)
	}
	w.space.AddBody(body)

	shape := w.space.AddShape(shapeFor(body, s.desc))
	// The solver multiplies the two coefficients; square roots give the
	// geometric mean sqrt(a*b) per pair.
	shape.SetFriction(math.Sqrt(math.Max(s.desc.Friction, 0)))
	shape.SetElasticity(0)

	s.body = body
	s.shape = shape
	w.byBody[body] = ref
}

// Alive reports whether ref belongs to the current generation.
func (w *World) Alive(ref BodyRef) bool {
	if ref == (BodyRef{}) {
		return false
	}
	return w.arena.Alive(ref)
}

func (w *World) slot(ref BodyRef) (*slot, bool) {
	if !w.Alive(ref) {
		return nil, false
	}
	return w.slots.Get(ref), true
}

// AddJoint attaches j. Both bodies must be alive in this world.
func (w *World) AddJoint(j Joint) error {
	sa, ok := w.slot(j.BodyA)
	if !ok {
		return fmt.Errorf("adding joint: body A: %w", ErrStaleBody)
	}
	sb, ok := w.slot(j.BodyB)
	if !ok {
		return fmt.Errorf("adding joint: body B: %w", ErrStaleBody)
	}
	if j.BodyA == j.BodyB {
		return fmt.Errorf("adding joint: body joined to itself: %w", ErrInvalidJoint)
	}
	if j.Softness < 0 || math.IsNaN(j.Softness) || math.IsNaN(j.BiasFactor) {
		return fmt.Errorf("adding joint: softness %v bias %v: %w", j.Softness, j.BiasFactor, ErrInvalidJoint)
	}

	c := w.space.AddConstraint(w.constraintFor(j, sa, sb))
	w.joints = append(w.joints, jointEntry{Joint: j, constraint: c})
	return nil
}

func (w *World) constraintFor(j Joint, sa, sb *slot) *cp.Constraint {
	if j.IsSoft() {
		k, d := SpringDamper(j.Softness, j.BiasFactor, w.nominalStep)
		return cp.NewDampedSpring(sa.body, sb.body, toVector(j.LocalAnchorA), toVector(j.LocalAnchorB), 0, k, d)
	}
	c := cp.NewPivotJoint2(sa.body, sb.body, toVector(j.LocalAnchorA), toVector(j.LocalAnchorB))
	c.SetErrorBias(w.jointErrorBias(j.BiasFactor))
	return c
}

// jointErrorBias converts a per-step correction fraction into the solver's
// "error remaining after one second" form.
func (w *World) jointErrorBias(biasFactor float64) float64 {
	if !w.ctx.PositionCorrection {
		return 1
	}
	beta := math.Min(math.Max(biasFactor, 0), 1)
	return math.Pow(1-beta, 1/w.nominalStep)
}

func (w *World) applyBias() {
	for _, je := range w.joints {
		if !je.IsSoft() {
			je.constraint.SetErrorBias(w.jointErrorBias(je.BiasFactor))
		}
	}
}

// Step advances the world by dt. A negative dt integrates backwards; it is an
// approximation and does not undo a forward step once contacts are involved.
// On failure every body is restored to its state before the call.
func (w *World) Step(dt float64) (err error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt=%v", ErrInvalidTimeStep, dt)
	}
	if dt == 0 || len(w.refs) == 0 {
		return nil
	}

	saved := w.snapshot()
	defer func() {
		if r := recover(); r != nil {
			// The solver may have been left locked mid-step; start from a
			// fresh space holding the saved state.
			w.rebuild(saved)
			err = fmt.Errorf("%w: %v", ErrStepFailed, r)
		}
	}()

	w.space.Step(dt)

	for i, ref := range w.refs {
		b, _ := w.Body(ref)
		if !b.finite() {
			w.restore(saved)
			return fmt.Errorf("%w: body %d left non-finite state", ErrStepFailed, i)
		}
	}
	return nil
}

func (w *World) snapshot() []bodyState {
	states := make([]bodyState, len(w.refs))
	for i, ref := range w.refs {
		s := w.slots.Get(ref)
		states[i] = bodyState{
			pos:    fromVector(s.body.Position()),
			vel:    fromVector(s.body.Velocity()),
			angle:  s.body.Angle(),
			angVel: s.body.AngularVelocity(),
		}
	}
	return states
}

func (w *World) restore(states []bodyState) {
	for i, ref := range w.refs {
		s := w.slots.Get(ref)
		st := states[i]
		s.body.SetPosition(toVector(st.pos))
		s.body.SetAngle(st.angle)
		if !s.desc.IsStatic() {
			s.body.SetVelocityVector(toVector(st.vel))
			s.body.SetAngularVelocity(st.angVel)
		}
	}
}

func (w *World) rebuild(states []bodyState) {
	w.space = w.newSpace()
	w.byBody = make(map[*cp.Body]BodyRef, len(w.refs))
	for i, ref := range w.refs {
		w.attach(ref, w.slots.Get(ref), states[i])
	}
	for i := range w.joints {
		je := &w.joints[i]
		je.constraint = w.space.AddConstraint(w.constraintFor(je.Joint, w.slots.Get(je.BodyA), w.slots.Get(je.BodyB)))
	}
	w.applyBias()
}

// Clear removes every body, joint and contact and invalidates all handles.
func (w *World) Clear() {
	for _, ref := range w.refs {
		w.arena.RemoveEntity(ref)
	}
	w.refs = w.refs[:0]
	w.joints = nil
	w.byBody = make(map[*cp.Body]BodyRef)
	w.space = w.newSpace()
	w.applyBias()
	w.generation++
}

// BodyCount returns the number of bodies.
func (w *World) BodyCount() int { return len(w.refs) }

// Refs returns the body handles in insertion order.
func (w *World) Refs() []BodyRef {
	out := make([]BodyRef, len(w.refs))
	copy(out, w.refs)
	return out
}

// Index returns the insertion index of ref.
func (w *World) Index(ref BodyRef) (int, bool) {
	s, ok := w.slot(ref)
	if !ok {
		return 0, false
	}
	return s.index, true
}

// Body returns a snapshot of the body behind ref.
func (w *World) Body(ref BodyRef) (Body, bool) {
	s, ok := w.slot(ref)
	if !ok {
		return Body{}, false
	}
	b := s.desc.clone()
	b.Position = fromVector(s.body.Position())
	b.Rotation = s.body.Angle()
	if s.desc.IsStatic() {
		b.Velocity = r2.Vec{}
		b.AngularVelocity = 0
	} else {
		b.Velocity = fromVector(s.body.Velocity())
		b.AngularVelocity = s.body.AngularVelocity()
	}
	return b, true
}

// Bodies returns snapshots of every body in insertion order.
func (w *World) Bodies() []Body {
	out := make([]Body, 0, len(w.refs))
	for _, ref := range w.refs {
		b, _ := w.Body(ref)
		out = append(out, b)
	}
	return out
}

// BodyAt returns the most recently added body containing p.
func (w *World) BodyAt(p r2.Vec) (BodyRef, bool) {
	for i := len(w.refs) - 1; i >= 0; i-- {
		if b, ok := w.Body(w.refs[i]); ok && b.Contains(p) {
			return w.refs[i], true
		}
	}
	return BodyRef{}, false
}

// SetPosition moves a body directly, bypassing integration.
func (w *World) SetPosition(ref BodyRef, p r2.Vec) error {
	s, ok := w.slot(ref)
	if !ok {
		return fmt.Errorf("setting position: %w", ErrStaleBody)
	}
	if !s.desc.IsStatic() {
		s.body.SetPosition(toVector(p))
		return nil
	}
	// Static shapes are indexed once; re-adding rebuilds their bounds.
	w.space.RemoveShape(s.shape)
	s.body.SetPosition(toVector(p))
	w.space.AddShape(s.shape)
	return nil
}

// Joints returns the joints in insertion order.
func (w *World) Joints() []Joint {
	out := make([]Joint, len(w.joints))
	for i, je := range w.joints {
		out[i] = je.Joint
	}
	return out
}

// BodyPair identifies an arbiter. A is the body added first.
type BodyPair struct {
	A, B BodyRef
}

// Arbiter is the contact state between two bodies.
type Arbiter struct {
	Pair     BodyPair
	Contacts [MaxContacts]*Contact
	Impulse  r2.Vec // Total impulse applied during the last step
}

// Arbiters returns the active arbiters ordered by the insertion index of
// their bodies.
func (w *World) Arbiters() []Arbiter {
	seen := make(map[*cp.Arbiter]struct{})
	var out []Arbiter
	for _, ref := range w.refs {
		s := w.slots.Get(ref)
		s.body.EachArbiter(func(arb *cp.Arbiter) {
			if _, dup := seen[arb]; dup {
				return
			}
			seen[arb] = struct{}{}
			if a, ok := w.arbiterFrom(arb); ok {
				out = append(out, a)
			}
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ai, _ := w.Index(out[i].Pair.A)
		aj, _ := w.Index(out[j].Pair.A)
		if ai != aj {
			return ai < aj
		}
		bi, _ := w.Index(out[i].Pair.B)
		bj, _ := w.Index(out[j].Pair.B)
		return bi < bj
	})
	return out
}

func (w *World) arbiterFrom(arb *cp.Arbiter) (Arbiter, bool) {
	shapeA, shapeB := arb.Shapes()
	refA, okA := w.byBody[shapeA.Body()]
	refB, okB := w.byBody[shapeB.Body()]
	if !okA || !okB {
		return Arbiter{}, false
	}

	set := arb.ContactPointSet()
	normal := fromVector(set.Normal)
	ia, _ := w.Index(refA)
	ib, _ := w.Index(refB)
	if ia > ib {
		refA, refB = refB, refA
		normal = r2.Scale(-1, normal)
	}

	out := Arbiter{
		Pair:    BodyPair{A: refA, B: refB},
		Impulse: fromVector(arb.TotalImpulse()),
	}
	for i := 0; i < set.Count && i < MaxContacts; i++ {
		p := set.Points[i]
		out.Contacts[i] = &Contact{
			Position:   midpoint(p.PointA, p.PointB),
			Normal:     normal,
			Separation: p.Distance,
		}
	}
	return out, true
}

func toVector(v r2.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVector(v cp.Vector) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

func midpoint(a, b cp.Vector) r2.Vec {
	return r2.Scale(0.5, r2.Add(fromVector(a), fromVector(b)))
}
