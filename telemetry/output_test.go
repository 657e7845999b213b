package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Errorf("WritePerf on nil manager = %v", err)
	}
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("WriteStats on nil manager = %v", err)
	}
	if err := om.WriteDiagnostics(1, "x", nil, nil); err != nil {
		t.Errorf("WriteDiagnostics on nil manager = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager = %v", err)
	}
}

func restingBox() *engine.World {
	w := engine.New(r2.Vec{Y: -10}, 10)
	ground := engine.NewBox(r2.Vec{X: 100, Y: 20}, engine.InfiniteMass)
	ground.Position = r2.Vec{Y: -10}
	w.AddBody(ground)
	box := engine.NewBox(r2.Vec{X: 1, Y: 1}, 1)
	box.Position = r2.Vec{Y: 0.45}
	w.AddBody(box)
	return w
}

func TestWriteDiagnosticsHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	w := restingBox()
	for tick := int64(1); tick <= 3; tick++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
		if err := om.WriteDiagnostics(tick, "resting", w, nil); err != nil {
			t.Fatalf("WriteDiagnostics error = %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bodies.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1+3*2 {
		t.Fatalf("bodies.csv lines = %d, want 7", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,scenario,index,shape") {
		t.Errorf("header = %q", lines[0])
	}
	headers := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "tick,") {
			headers++
		}
	}
	if headers != 1 {
		t.Errorf("header rows = %d, want 1", headers)
	}

	contacts, err := os.ReadFile(filepath.Join(dir, "contacts.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(contacts), "arbiter") {
		t.Error("contacts.csv has no arbiter rows")
	}
}

func TestContactRecordsSkipsNil(t *testing.T) {
	w := engine.New(r2.Vec{}, 1)
	probe := []*engine.Contact{nil, {Position: r2.Vec{X: 1, Y: 2}, Normal: r2.Vec{Y: 1}, Separation: -0.1}}

	rows := ContactRecords(5, "probe", w, probe)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.Source != "probe" || r.Slot != 1 || r.BodyA != -1 || r.X != 1 || r.NY != 1 {
		t.Errorf("row = %+v", r)
	}
}

func TestBodyRecords(t *testing.T) {
	poly := engine.NewPolygon([]r2.Vec{{X: 0, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}, 2)
	poly.Position = r2.Vec{X: 3, Y: 4}
	ground := engine.NewBox(r2.Vec{X: 10, Y: 1}, engine.InfiniteMass)

	rows := BodyRecords(9, "s", []engine.Body{ground, poly})
	if !rows[0].Static || rows[1].Static {
		t.Errorf("static flags = %v/%v, want true/false", rows[0].Static, rows[1].Static)
	}
	if rows[1].Shape != "polygon" || rows[1].X != 3 || rows[1].Index != 1 {
		t.Errorf("row = %+v", rows[1])
	}
}

func TestWritePerfAndConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	for i := 0; i < 2; i++ {
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, int64(i)); err != nil {
			t.Fatalf("WritePerf error = %v", err)
		}
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("Dir = %q, want %q", om.Dir(), dir)
	}
}

func TestWriteStats(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector(2, 0.5)
	w := restingBox()
	for _, tick := range []int64{2, 4} {
		if err := om.WriteStats(c.Flush(tick, "resting", w)); err != nil {
			t.Fatalf("WriteStats error = %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats.csv lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,scenario,steps") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "4,") || !strings.Contains(lines[2], ",resting,") {
		t.Errorf("second row = %q", lines[2])
	}
}
