package main

import (
	"github.com/pthm-cable/sandbox/config"
)

// ParamSpec is one tunable soft-joint value and the config field it lands in.
type ParamSpec struct {
	Name    string
	Path    string // config key, for logs and output
	Min     float64
	Max     float64
	Default float64

	field func(*config.Config) *float64
}

// span is the width of the parameter's range.
func (s ParamSpec) span() float64 { return s.Max - s.Min }

// ParamVector is the ordered set of tuned parameters. Optimizer vectors use
// the same order as Specs.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the soft-joint tuning parameters: frequency and
// damping ratio for the bridge and for the multi-pendulum chain.
func NewParamVector() *ParamVector {
	bridge := func(c *config.Config) *config.SoftJointConfig { return &c.Scenarios.Bridge }
	chain := func(c *config.Config) *config.SoftJointConfig { return &c.Scenarios.Chain }
	freq := func(sj func(*config.Config) *config.SoftJointConfig) func(*config.Config) *float64 {
		return func(c *config.Config) *float64 { return &sj(c).FrequencyHz }
	}
	damping := func(sj func(*config.Config) *config.SoftJointConfig) func(*config.Config) *float64 {
		return func(c *config.Config) *float64 { return &sj(c).DampingRatio }
	}

	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "bridge_frequency_hz", Path: "scenarios.bridge.frequency_hz", Min: 0.5, Max: 10, Default: 2, field: freq(bridge)},
			{Name: "bridge_damping_ratio", Path: "scenarios.bridge.damping_ratio", Min: 0.05, Max: 2, Default: 0.7, field: damping(bridge)},
			{Name: "chain_frequency_hz", Path: "scenarios.chain.frequency_hz", Min: 0.5, Max: 15, Default: 4, field: freq(chain)},
			{Name: "chain_damping_ratio", Path: "scenarios.chain.damping_ratio", Min: 0.05, Max: 2, Default: 0.7, field: damping(chain)},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// each builds a vector by applying f to every spec and its input value.
func (pv *ParamVector) each(in []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		var v float64
		if in != nil {
			v = in[i]
		}
		out[i] = f(s, v)
	}
	return out
}

// DefaultVector returns the default values.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0,1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / s.span() })
}

// Denormalize maps [0,1] values back to raw values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	return pv.each(normalized, func(s ParamSpec, v float64) float64 { return s.Min + v*s.span() })
}

// Clamp limits every value to its parameter's range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, func(s ParamSpec, x float64) float64 { return min(max(x, s.Min), s.Max) })
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return *s.field(cfg) })
}
