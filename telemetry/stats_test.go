package telemetry

import (
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", std)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
	// Input must stay unsorted.
	if values[0] != 1.0 {
		t.Error("ComputeDistribution sorted its input")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)

	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(3, 0.5)
	w := restingBox()

	c.ObserveGeneration(w.Generation())
	for tick := int64(1); tick <= 3; tick++ {
		if tick == 3 {
			c.RecordStep(errors.New("boom"))
			continue
		}
		c.RecordStep(w.Step(1.0 / 60.0))
		if c.ShouldFlush(tick) {
			t.Fatalf("ShouldFlush(%d) = true before window end", tick)
		}
	}
	c.RecordLaunch()
	w.Clear()
	c.ObserveGeneration(w.Generation())
	c.ObserveGeneration(w.Generation())

	if !c.ShouldFlush(3) {
		t.Fatal("ShouldFlush(3) = false, want true")
	}
	s := c.Flush(3, "resting", w)
	if s.Steps != 3 || s.StepFailures != 1 || s.Launches != 1 || s.Reloads != 1 {
		t.Errorf("counters = steps %d failures %d launches %d reloads %d, want 3/1/1/1",
			s.Steps, s.StepFailures, s.Launches, s.Reloads)
	}
	if s.WindowStartTick != 0 || s.WindowEndTick != 3 || s.SimTimeSec != 1.5 {
		t.Errorf("window = [%d, %d] at %v s", s.WindowStartTick, s.WindowEndTick, s.SimTimeSec)
	}
	if s.Bodies != 0 {
		t.Errorf("Bodies = %d after Clear, want 0", s.Bodies)
	}

	// Counters reset and the window moves on.
	if c.ShouldFlush(5) {
		t.Error("ShouldFlush(5) = true right after flush at 3")
	}
	next := c.Flush(6, "resting", w)
	if next.Steps != 0 || next.Launches != 0 || next.WindowStartTick != 3 {
		t.Errorf("next window = %+v", next)
	}
}

func TestWindowSamplesWorld(t *testing.T) {
	c := NewCollector(10, 1.0/60.0)
	w := restingBox()
	for i := 0; i < 3; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
	}

	s := c.Flush(3, "resting", w)
	if s.Bodies != 2 {
		t.Errorf("Bodies = %d, want 2", s.Bodies)
	}
	if s.Arbiters == 0 || s.Contacts == 0 {
		t.Errorf("arbiters/contacts = %d/%d, want resting contact", s.Arbiters, s.Contacts)
	}
	if s.KineticEnergy < 0 || s.MaxPenetration < 0 {
		t.Errorf("energy/penetration = %v/%v, want non-negative", s.KineticEnergy, s.MaxPenetration)
	}
	// Only the dynamic box contributes to the speed distribution.
	if s.SpeedP10 != s.SpeedP90 {
		t.Errorf("single-body percentiles differ: %v vs %v", s.SpeedP10, s.SpeedP90)
	}
}
