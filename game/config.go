package game

import "github.com/pthm-cable/sandbox/scenario"

// NudgeDistance is how far the arrow keys move the controllable body.
const NudgeDistance = 0.5

// Options holds configuration for game initialization.
type Options struct {
	Seed      int64 // Scenario RNG seed
	Scenario  int   // Initial scenario; -1 = config default
	OutputDir string
	Headless  bool
	Strict    bool

	// CollisionMode turns the sandbox into a contact probe: the automatic
	// tick is paused, Left/Right nudge instead of stepping and contacts are
	// recomputed after every build.
	CollisionMode bool

	// Catalog overrides scenario.Catalog().
	Catalog []scenario.Scenario
}

// DefaultOptions returns options for the interactive sandbox.
func DefaultOptions() Options {
	return Options{Scenario: -1}
}
