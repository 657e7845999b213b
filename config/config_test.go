package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if math.Abs(cfg.Derived.TimeStep-1.0/60.0) > 1e-12 {
		t.Errorf("TimeStep = %v, want 1/60", cfg.Derived.TimeStep)
	}
	if cfg.Derived.Gravity.X != 0 || cfg.Derived.Gravity.Y != -10 {
		t.Errorf("Gravity = %v, want (0,-10)", cfg.Derived.Gravity)
	}
	if cfg.Physics.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", cfg.Physics.Iterations)
	}
	if cfg.Display.Scale != 18 {
		t.Errorf("Scale = %v, want 18", cfg.Display.Scale)
	}
	if cfg.Derived.MarkerColor.R != 255 || cfg.Derived.MarkerColor.A != 255 {
		t.Errorf("MarkerColor = %v, want opaque white", cfg.Derived.MarkerColor)
	}
	if !cfg.Physics.WarmStarting || !cfg.Physics.PositionCorrection || !cfg.Physics.AccumulateImpulses {
		t.Error("expected all solver toggles enabled by default")
	}
	if cfg.Scenarios.Bridge.FrequencyHz != 2 || cfg.Scenarios.Chain.FrequencyHz != 4 {
		t.Errorf("soft joint frequencies = %v/%v, want 2/4",
			cfg.Scenarios.Bridge.FrequencyHz, cfg.Scenarios.Chain.FrequencyHz)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("physics:\n  hz: 120\nscenarios:\n  default: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if math.Abs(cfg.Derived.TimeStep-1.0/120.0) > 1e-12 {
		t.Errorf("TimeStep = %v, want 1/120", cfg.Derived.TimeStep)
	}
	if cfg.Scenarios.Default != 3 {
		t.Errorf("Default = %d, want 3", cfg.Scenarios.Default)
	}
	// Untouched sections keep their defaults
	if cfg.Physics.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", cfg.Physics.Iterations)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero hz", "physics:\n  hz: 0\n"},
		{"no iterations", "physics:\n  iterations: 0\n"},
		{"negative damping", "scenarios:\n  chain:\n    damping_ratio: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Display.Scale = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if loaded.Display.Scale != 42 {
		t.Errorf("Scale = %v, want 42", loaded.Display.Scale)
	}
}
