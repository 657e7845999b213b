package telemetry

import "github.com/pthm-cable/sandbox/engine"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64
	lastGeneration  uint64

	// Event counters for current window
	steps        int
	stepFailures int
	reloads      int
	launches     int
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int64(windowTicks),
		dt:                  dt,
	}
}

// RecordStep records one forward step and whether it failed.
func (c *Collector) RecordStep(err error) {
	c.steps++
	if err != nil {
		c.stepFailures++
	}
}

// RecordLaunch records a projectile launch.
func (c *Collector) RecordLaunch() {
	c.launches++
}

// ObserveGeneration counts a reload whenever the world generation changes.
func (c *Collector) ObserveGeneration(gen uint64) {
	if gen != c.lastGeneration {
		c.reloads++
		c.lastGeneration = gen
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the current state of w,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int64, scenario string, w *engine.World) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Scenario:        scenario,

		Steps:        c.steps,
		StepFailures: c.stepFailures,
		Reloads:      c.reloads,
		Launches:     c.launches,
	}
	stats.sampleWorld(w)

	// Reset for next window
	c.windowStartTick = currentTick
	c.steps = 0
	c.stepFailures = 0
	c.reloads = 0
	c.launches = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
