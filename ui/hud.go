package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/sandbox/telemetry"
)

// ControlsLegend lists the keyboard bindings shown at the bottom of the screen.
const ControlsLegend = "Left/Right: step -h/+h | Up/Down: nudge | Return: contacts | Space: launch | P: pause | F11: fullscreen | C/J/Tab/I/F3: layers"

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Scenario      string
	Tick          int64
	Bodies        int
	Arbiters      int
	FPS           int32
	Paused        bool
	PendingReload bool
	ScreenHeight  int32
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
	x        int32
}

// NewHUD creates a HUD anchored at column x.
func NewHUD(x int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Scenario, h.x, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Bodies: %d | Arbiters: %d | FPS: %d", data.Tick, data.Bodies, data.Arbiters, data.FPS),
		h.x, 35, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.PendingReload {
		status += " (reload pending)"
	}
	rl.DrawText(status, h.x, 55, 16, rl.Yellow)

	if data.ScreenHeight > 0 {
		rl.DrawText(ControlsLegend, 10, data.ScreenHeight-25, 14, rl.DarkGray)
	}
}

// PerfPanel renders the frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	height := int32(len(telemetry.Phases))*14 + 60
	r.DrawPanel(p.x, p.y, 260, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame timings", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 12, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-9s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
