package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Scenario        string  `csv:"scenario"`

	// Events during window
	Steps        int `csv:"steps"`
	StepFailures int `csv:"step_failures"`
	Reloads      int `csv:"reloads"`
	Launches     int `csv:"launches"`

	// World shape at window end
	Bodies   int `csv:"bodies"`
	Joints   int `csv:"joints"`
	Arbiters int `csv:"arbiters"`
	Contacts int `csv:"contacts"`

	// Speed distribution of dynamic bodies at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	KineticEnergy float64 `csv:"kinetic_energy"`

	// Deepest contact penetration (most negative separation, as a positive depth)
	MaxPenetration float64 `csv:"max_penetration"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population standard deviation and
// percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = math.Sqrt(stat.MomentAbout(2, values, mean, nil))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// sampleWorld fills the world-shape fields of s from w.
func (s *WindowStats) sampleWorld(w *engine.World) {
	bodies := w.Bodies()
	s.Bodies = len(bodies)
	s.Joints = len(w.Joints())

	var speeds []float64
	for _, b := range bodies {
		if b.IsStatic() {
			continue
		}
		v := r2.Norm(b.Velocity)
		speeds = append(speeds, v)
		s.KineticEnergy += 0.5*b.Mass*v*v + 0.5*b.Inertia()*b.AngularVelocity*b.AngularVelocity
	}
	s.SpeedMean, s.SpeedStd, s.SpeedP10, s.SpeedP50, s.SpeedP90 = ComputeDistribution(speeds)

	arbiters := w.Arbiters()
	s.Arbiters = len(arbiters)
	for _, arb := range arbiters {
		for _, c := range arb.Contacts {
			if c == nil {
				continue
			}
			s.Contacts++
			s.MaxPenetration = max(s.MaxPenetration, -c.Separation)
		}
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("scenario", s.Scenario),
		slog.Int("steps", s.Steps),
		slog.Int("step_failures", s.StepFailures),
		slog.Int("reloads", s.Reloads),
		slog.Int("launches", s.Launches),
		slog.Int("bodies", s.Bodies),
		slog.Int("joints", s.Joints),
		slog.Int("arbiters", s.Arbiters),
		slog.Int("contacts", s.Contacts),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_penetration", s.MaxPenetration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"scenario", s.Scenario,
		"bodies", s.Bodies,
		"contacts", s.Contacts,
		"step_failures", s.StepFailures,
		"speed_p50", s.SpeedP50,
		"kinetic_energy", s.KineticEnergy,
		"max_penetration", s.MaxPenetration,
	)
}
