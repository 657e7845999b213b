package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultBiasFactor is the per-step position correction fraction of a rigid joint.
const DefaultBiasFactor = 0.2

// Joint pins two bodies together at a shared anchor. It holds non-owning
// handles; the World rejects handles from an earlier generation.
type Joint struct {
	BodyA, BodyB BodyRef

	// Anchor offsets in each body's local frame.
	LocalAnchorA r2.Vec
	LocalAnchorB r2.Vec

	// Softness 0 is a rigid joint. Positive softness turns the joint into a
	// spring-damper whose stiffness and damping follow from Softness and
	// BiasFactor at the world's nominal step.
	Softness   float64
	BiasFactor float64
}

// NewJoint builds a rigid joint between two live bodies of w at the given
// world-space anchor.
func NewJoint(w *World, a, b BodyRef, anchor r2.Vec) (Joint, error) {
	ba, ok := w.Body(a)
	if !ok {
		return Joint{}, fmt.Errorf("joint body A: %w", ErrStaleBody)
	}
	bb, ok := w.Body(b)
	if !ok {
		return Joint{}, fmt.Errorf("joint body B: %w", ErrStaleBody)
	}

	return Joint{
		BodyA:        a,
		BodyB:        b,
		LocalAnchorA: ba.WorldToLocal(anchor),
		LocalAnchorB: bb.WorldToLocal(anchor),
		Softness:     0,
		BiasFactor:   DefaultBiasFactor,
	}, nil
}

// IsSoft reports whether the joint is modelled as a spring-damper.
func (j Joint) IsSoft() bool {
	return j.Softness > 0
}

// SpringDamper converts softness and bias factor at step h back into spring
// stiffness k and damping d.
func SpringDamper(softness, biasFactor, h float64) (k, d float64) {
	k = biasFactor / (softness * h)
	d = (1 - biasFactor) / softness
	return k, d
}
