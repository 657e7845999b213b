package orchestrator

import (
	"image/color"
	"math/rand"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/engine"
	"github.com/pthm-cable/sandbox/scenario"
)

// Settings are the user-tunable simulation and display parameters. The
// orchestrator forwards the solver toggles to the engine untouched.
type Settings struct {
	Scale       float64 // Pixels per world unit
	TranslateX  float64 // Origin offset in pixels
	TranslateY  float64
	MarkerColor color.RGBA

	TimeStep float64 // Forward step h; StepOnce(Backward) uses -h

	WarmStarting       bool
	PositionCorrection bool
	AccumulateImpulses bool
}

// DefaultSettings mirrors the embedded configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Scale:              18,
		MarkerColor:        color.RGBA{R: 255, G: 255, B: 255, A: 255},
		TimeStep:           1.0 / 60.0,
		WarmStarting:       true,
		PositionCorrection: true,
		AccumulateImpulses: true,
	}
}

// SettingsFromConfig builds settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Scale:              cfg.Display.Scale,
		TranslateX:         cfg.Display.TranslateX,
		TranslateY:         cfg.Display.TranslateY,
		MarkerColor:        cfg.Derived.MarkerColor,
		TimeStep:           cfg.Derived.TimeStep,
		WarmStarting:       cfg.Physics.WarmStarting,
		PositionCorrection: cfg.Physics.PositionCorrection,
		AccumulateImpulses: cfg.Physics.AccumulateImpulses,
	}
}

// EnvFromConfig builds the scenario build environment from a configuration.
func EnvFromConfig(cfg *config.Config, rng *rand.Rand) scenario.Env {
	return scenario.Env{
		Rand:     rng,
		TimeStep: cfg.Derived.TimeStep,
		Bridge: scenario.Tuning{
			FrequencyHz:  cfg.Scenarios.Bridge.FrequencyHz,
			DampingRatio: cfg.Scenarios.Bridge.DampingRatio,
		},
		Chain: scenario.Tuning{
			FrequencyHz:  cfg.Scenarios.Chain.FrequencyHz,
			DampingRatio: cfg.Scenarios.Chain.DampingRatio,
		},
	}
}

// StepContext returns the solver toggles in engine form.
func (s Settings) StepContext() engine.StepContext {
	return engine.StepContext{
		WarmStarting:       s.WarmStarting,
		PositionCorrection: s.PositionCorrection,
		AccumulateImpulses: s.AccumulateImpulses,
	}
}
