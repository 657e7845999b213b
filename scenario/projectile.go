package scenario

import (
	"math/rand"

	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Projectile returns a 1x1 box launched from above toward the origin.
func Projectile(rng *rand.Rand) engine.Body {
	b := box(1, 1, 50, uniform(rng, -15, 15), 15)
	b.Friction = 0.2
	b.Rotation = uniform(rng, -1.5, 1.5)
	b.Velocity = r2.Scale(-1.5, b.Position)
	b.AngularVelocity = uniform(rng, -20, 20)
	return b
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
