package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/engine"
)

// BodyRecord is one bodies.csv row.
type BodyRecord struct {
	Tick            int64   `csv:"tick"`
	Scenario        string  `csv:"scenario"`
	Index           int     `csv:"index"`
	Shape           string  `csv:"shape"`
	Static          bool    `csv:"static"`
	X               float64 `csv:"x"`
	Y               float64 `csv:"y"`
	Rotation        float64 `csv:"rotation"`
	VX              float64 `csv:"vx"`
	VY              float64 `csv:"vy"`
	AngularVelocity float64 `csv:"angular_velocity"`
	Friction        float64 `csv:"friction"`
}

// ContactRecord is one contacts.csv row. Source is "arbiter" or "probe";
// probe rows have no body pair.
type ContactRecord struct {
	Tick       int64   `csv:"tick"`
	Scenario   string  `csv:"scenario"`
	Source     string  `csv:"source"`
	BodyA      int     `csv:"body_a"`
	BodyB      int     `csv:"body_b"`
	Slot       int     `csv:"slot"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	NX         float64 `csv:"nx"`
	NY         float64 `csv:"ny"`
	Separation float64 `csv:"separation"`
}

// csvSink appends records to one CSV file, writing the header once.
type csvSink struct {
	file          *os.File
	headerWritten bool
}

func (s *csvSink) write(name string, records any) error {
	var err error
	if !s.headerWritten {
		err = gocsv.Marshal(records, s.file)
		s.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, s.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// OutputManager writes diagnostics dumps, window stats and perf rows to an
// output directory.
// A nil manager discards everything.
type OutputManager struct {
	dir      string
	bodies   csvSink
	contacts csvSink
	perf     csvSink
	stats    csvSink
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, f := range []struct {
		name string
		sink *csvSink
	}{
		{"bodies.csv", &om.bodies},
		{"contacts.csv", &om.contacts},
		{"perf.csv", &om.perf},
		{"stats.csv", &om.stats},
	} {
		file, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		f.sink.file = file
	}
	return om, nil
}

// WriteConfig saves the configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteDiagnostics dumps every body, every arbiter contact and the non-nil
// probe contacts of w.
func (om *OutputManager) WriteDiagnostics(tick int64, scenario string, w *engine.World, probe []*engine.Contact) error {
	if om == nil {
		return nil
	}

	bodies := BodyRecords(tick, scenario, w.Bodies())
	if len(bodies) > 0 {
		if err := om.bodies.write("bodies.csv", bodies); err != nil {
			return err
		}
	}

	contacts := ContactRecords(tick, scenario, w, probe)
	if len(contacts) > 0 {
		if err := om.contacts.write("contacts.csv", contacts); err != nil {
			return err
		}
	}
	return nil
}

// WritePerf writes a perf.csv row.
func (om *OutputManager) WritePerf(stats PerfStats, tick int64) error {
	if om == nil {
		return nil
	}
	return om.perf.write("perf.csv", []PerfRecord{stats.ToCSV(tick)})
}

// WriteStats writes a stats.csv row.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.stats.write("stats.csv", []WindowStats{stats})
}

// BodyRecords flattens body snapshots into rows.
func BodyRecords(tick int64, scenario string, bodies []engine.Body) []BodyRecord {
	out := make([]BodyRecord, len(bodies))
	for i, b := range bodies {
		out[i] = BodyRecord{
			Tick:            tick,
			Scenario:        scenario,
			Index:           i,
			Shape:           b.Shape.String(),
			Static:          b.IsStatic(),
			X:               b.Position.X,
			Y:               b.Position.Y,
			Rotation:        b.Rotation,
			VX:              b.Velocity.X,
			VY:              b.Velocity.Y,
			AngularVelocity: b.AngularVelocity,
			Friction:        b.Friction,
		}
	}
	return out
}

// ContactRecords flattens arbiter and probe contacts into rows, skipping
// empty slots.
func ContactRecords(tick int64, scenario string, w *engine.World, probe []*engine.Contact) []ContactRecord {
	var out []ContactRecord
	row := func(source string, a, b, slot int, c *engine.Contact) ContactRecord {
		return ContactRecord{
			Tick: tick, Scenario: scenario, Source: source,
			BodyA: a, BodyB: b, Slot: slot,
			X: c.Position.X, Y: c.Position.Y,
			NX: c.Normal.X, NY: c.Normal.Y,
			Separation: c.Separation,
		}
	}

	for _, arb := range w.Arbiters() {
		ia, _ := w.Index(arb.Pair.A)
		ib, _ := w.Index(arb.Pair.B)
		for slot, c := range arb.Contacts {
			if c != nil {
				out = append(out, row("arbiter", ia, ib, slot, c))
			}
		}
	}
	for slot, c := range probe {
		if c != nil {
			out = append(out, row("probe", -1, -1, slot, c))
		}
	}
	return out
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, s := range []*csvSink{&om.bodies, &om.contacts, &om.perf, &om.stats} {
		if s.file == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
