package main

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/orchestrator"
	"github.com/pthm-cable/sandbox/scenario"
	"gonum.org/v1/gonum/spatial/r2"
)

// Fitness weights.
const (
	motionWeight   = 0.01 // per unit of kinetic energy in the settle window
	failurePenalty = 10.0 // per failed engine step
)

// Scenarios whose soft joints are tuned.
var tunedScenarios = []string{"Suspension bridge", "Multi-pendulum"}

// FitnessEvaluator runs headless scenario builds and scores joint behaviour.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig *config.Config
	scenarios  []int
	logger     *slog.Logger

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	lastResult  evalResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	names := scenario.Names(scenario.Catalog())
	var ids []int
	for _, want := range tunedScenarios {
		for i, name := range names {
			if name == want {
				ids = append(ids, i)
			}
		}
	}
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		scenarios:   ids,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bestFitness: math.Inf(1),
	}
}

// runResult holds the measurements from a single scenario run.
type runResult struct {
	drift    float64 // mean anchor separation over all ticks and joints
	motion   float64 // mean kinetic energy of jointed bodies in the settle window
	failures int
}

// evalResult aggregates one Evaluate call.
type evalResult struct {
	Fitness  float64
	Drift    float64
	Motion   float64
	Failures int
}

// LastResult returns the aggregate of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() evalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Every seed runs every tuned scenario; runs execute in parallel, each on
// its own world.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds)*len(fe.scenarios))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		for j, id := range fe.scenarios {
			wg.Add(1)
			go func(idx, scenarioID int, s int64) {
				defer wg.Done()
				results[idx] = fe.runScenario(cfg, scenarioID, s)
			}(i*len(fe.scenarios)+j, id, seed)
		}
	}
	wg.Wait()

	var agg evalResult
	for _, r := range results {
		agg.Drift += r.drift
		agg.Motion += r.motion
		agg.Failures += r.failures
	}
	if n := float64(len(results)); n > 0 {
		agg.Drift /= n
		agg.Motion /= n
	}
	agg.Fitness = agg.Drift + motionWeight*agg.Motion + failurePenalty*float64(agg.Failures)

	fe.mu.Lock()
	if agg.Fitness < fe.bestFitness {
		fe.bestFitness = agg.Fitness
	}
	fe.lastResult = agg
	fe.mu.Unlock()

	return agg.Fitness
}

// runScenario builds one scenario, knocks it with a projectile a quarter of
// the way in and measures joint drift and residual motion.
func (fe *FitnessEvaluator) runScenario(cfg *config.Config, id int, seed int64) runResult {
	w := engine.New(cfg.Derived.Gravity, cfg.Physics.Iterations)
	o := orchestrator.New(w, orchestrator.SettingsFromConfig(cfg), orchestrator.Options{
		Default: id,
		Env:     orchestrator.EnvFromConfig(cfg, rand.New(rand.NewSource(seed))),
		Logger:  fe.logger,
	})

	var res runResult
	var driftSamples, motionSamples int
	impact := fe.ticks / 4
	settle := fe.ticks / 2

	for tick := 0; tick < fe.ticks; tick++ {
		if tick == impact && tick > 0 {
			o.LaunchProjectile()
		}
		if err := o.Tick(); err != nil {
			res.failures++
			continue
		}

		drift, n := jointDrift(w)
		if n > 0 {
			res.drift += drift / float64(n)
			driftSamples++
		}
		if tick >= settle {
			res.motion += jointedKineticEnergy(w)
			motionSamples++
		}
	}

	if driftSamples > 0 {
		res.drift /= float64(driftSamples)
	}
	if motionSamples > 0 {
		res.motion /= float64(motionSamples)
	}
	return res
}

// jointDrift sums the world distance between each joint's two anchors.
func jointDrift(w *engine.World) (float64, int) {
	var total float64
	n := 0
	for _, j := range w.Joints() {
		a, okA := w.Body(j.BodyA)
		b, okB := w.Body(j.BodyB)
		if !okA || !okB {
			continue
		}
		total += r2.Norm(r2.Sub(a.LocalToWorld(j.LocalAnchorA), b.LocalToWorld(j.LocalAnchorB)))
		n++
	}
	return total, n
}

// jointedKineticEnergy sums the linear kinetic energy of dynamic bodies that
// take part in a joint. Free bodies such as the projectile are ignored.
func jointedKineticEnergy(w *engine.World) float64 {
	jointed := make(map[engine.BodyRef]bool)
	for _, j := range w.Joints() {
		jointed[j.BodyA] = true
		jointed[j.BodyB] = true
	}
	var e float64
	for _, ref := range w.Refs() {
		if !jointed[ref] {
			continue
		}
		b, ok := w.Body(ref)
		if !ok || b.IsStatic() {
			continue
		}
		e += 0.5 * b.Mass * r2.Norm2(b.Velocity)
	}
	return e
}

func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
