package scenario

import (
	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

func singleShapes(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	b.add(ground(100))
	b.add(box(1, 1, 200, 0, 3))

	pent := polygon(Pentagon, 2, 0, 5)
	pent.Friction = 100
	b.add(pent)

	hex := polygon(Hexagon, 2, 5, 4)
	hex.Rotation = 45 // radians
	b.add(hex)

	return b.handles()
}

func pendulum(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	g := b.add(ground(100))
	bob := b.add(box(1, 1, 100, 9, 11))
	b.pin(g, bob, r2.Vec{X: 0, Y: 11})
	return b.handles()
}

func frictionRamp(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	b.add(ground(100))

	ramp := box(13, 0.25, engine.InfiniteMass, -2, 11)
	ramp.Rotation = -0.25
	b.add(ramp)

	for i, friction := range []float64{0.75, 0.5, 0.35, 0.1, 0.0} {
		body := box(0.5, 0.5, 25, -7.5+2*float64(i), 14)
		body.Friction = friction
		b.add(body)
	}
	return b.handles()
}

func verticalStack(w *engine.World, env Env) (Handles, error) {
	b := newBuilder(w)
	b.add(ground(100))
	for i := 0; i < 10; i++ {
		x := env.Rand.Float64()*0.2 - 0.1
		b.add(box(1, 1, 1, x, 0.51+1.05*float64(i)))
	}
	return b.handles()
}

func pyramid(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	b.add(ground(100))

	const rows = 12
	start := r2.Vec{X: -6, Y: 0.75}
	for i := 0; i < rows; i++ {
		p := start
		for j := i; j < rows; j++ {
			b.add(box(1, 1, 10, p.X, p.Y))
			p.X += 1.125
		}
		start = r2.Add(start, r2.Vec{X: 0.5625, Y: 2})
	}
	return b.handles()
}

func teeter(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	g := b.add(ground(100))
	plank := b.add(box(12, 0.25, 10, 0, 3))
	b.add(box(0.5, 0.5, 2, -5, 5))
	b.add(box(0.5, 0.5, 2, -5.5, 5))
	b.add(box(1, 1, 55, 5.5, 15))
	b.pin(g, plank, r2.Vec{X: 0, Y: 3})
	return b.handles()
}

// bridge hangs 16 planks from the ground, each by a soft joint at its left end.
func bridge(w *engine.World, env Env) (Handles, error) {
	const (
		planks = 16
		mass   = 10.0
	)
	softness, bias := SoftJoint(mass, env.Bridge.FrequencyHz, env.Bridge.DampingRatio, env.TimeStep)

	// Every plank hangs from the ground at its left end.
	b := newBuilder(w)
	g := b.add(ground(100))
	for i := 0; i < planks; i++ {
		plank := b.add(box(1, 0.25, mass, -8.5+1.25*float64(i), 5))
		b.pinSoft(plank, g, r2.Vec{X: -9.125 + 1.25*float64(i), Y: 5}, softness, bias)
	}
	return b.handles()
}

func dominoes(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	g := b.add(ground(100))
	b.add(box(12, 0.5, engine.InfiniteMass, -1.5, 10))

	for i := 0; i < 10; i++ {
		d := box(0.2, 2, 10, -6+float64(i), 11.125)
		d.Friction = 0.1
		b.add(d)
	}

	ramp := box(14, 0.5, engine.InfiniteMass, 1, 6)
	ramp.Rotation = 0.3
	b.add(ramp)

	post := b.add(box(0.5, 3, engine.InfiniteMass, -7, 4))

	seesaw := b.add(box(12, 0.25, 10, -0.9, 1))
	b.pin(g, seesaw, r2.Vec{X: -2, Y: 3})

	swing := b.add(box(0.5, 0.5, 16, -10, 15))
	b.pin(post, swing, r2.Vec{X: -7, Y: 15})

	crate := box(2, 2, 10, 6, 2.5)
	crate.Friction = 0.1
	crateRef := b.add(crate)
	b.pin(g, crateRef, r2.Vec{X: 6, Y: 2.6})

	lid := b.add(box(2, 0.2, 10, 6, 3.6))
	b.pin(crateRef, lid, r2.Vec{X: 7, Y: 3.5})

	return b.handles()
}

func multiPendulum(w *engine.World, env Env) (Handles, error) {
	const (
		links = 15
		mass  = 10.0
		y     = 12.0
	)
	softness, bias := SoftJoint(mass, env.Chain.FrequencyHz, env.Chain.DampingRatio, env.TimeStep)

	b := newBuilder(w)
	prev := b.add(ground(100))
	for i := 0; i < links; i++ {
		link := b.add(box(0.75, 0.25, mass, 0.5+float64(i), y))
		b.pinSoft(prev, link, r2.Vec{X: float64(i), Y: y}, softness, bias)
		prev = link
	}
	return b.handles()
}

func pawnAndPendulum(w *engine.World, _ Env) (Handles, error) {
	b := newBuilder(w)
	g := b.add(ground(1000))

	pent := b.add(polygon(Pentagon, 55, -9, 8))

	trunk := polygon(Scale(PawnTrunk, 2), 10, 5, 4)
	head := engine.NewPolygon(Scale(PawnHead, 2), 10)
	head.Position = r2.Vec{X: trunk.Position.X, Y: trunk.Position.Y + 0.5*trunk.Size.Y + 0.5*head.Size.Y}

	headRef := b.add(head)
	trunkRef := b.add(trunk)
	b.pin(headRef, trunkRef, r2.Vec{X: 5, Y: 3})
	b.pin(g, pent, r2.Vec{X: 0, Y: 11})

	return b.handles()
}
