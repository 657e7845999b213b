package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sandbox/config"
)

func TestClampAndApply(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	pv.ApplyToConfig(cfg, []float64{100, -1, 3, 0.5})
	got := pv.ExtractFromConfig(cfg)
	want := []float64{10, 0.05, 3, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	pv := NewParamVector()
	back := pv.Denormalize(pv.Normalize(pv.DefaultVector()))
	for i, v := range pv.DefaultVector() {
		if math.Abs(back[i]-v) > 1e-12 {
			t.Errorf("%s = %v after round trip, want %v", pv.Specs[i].Name, back[i], v)
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	got := pv.ExtractFromConfig(cfg)
	for i, v := range pv.DefaultVector() {
		if got[i] != v {
			t.Errorf("%s: config %v, spec default %v", pv.Specs[i].Path, got[i], v)
		}
	}
}

func TestEvaluateRepeatable(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 40, []int64{1, 2}, cfg)
	if len(fe.scenarios) != len(tunedScenarios) {
		t.Fatalf("resolved %d scenarios, want %d", len(fe.scenarios), len(tunedScenarios))
	}

	a := fe.Evaluate(pv.DefaultVector())
	b := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
		t.Fatalf("fitness = %v, want finite and non-negative", a)
	}
	if math.Abs(a-b) > 1e-6*math.Max(1, a) {
		t.Errorf("fitness not repeatable: %v vs %v", a, b)
	}
	if r := fe.LastResult(); r.Failures != 0 {
		t.Errorf("failures = %d, want 0", r.Failures)
	}
}
