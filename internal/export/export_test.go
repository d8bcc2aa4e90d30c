package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/sim"
	"github.com/san-kum/polarctl/internal/storage"
	"github.com/san-kum/polarctl/internal/viz"
)

func testRecords() []sim.Record {
	return []sim.Record{
		{Tick: 1, Elapsed: 100 * time.Millisecond, Sample: motion.Sample{X: 1, Y: 2}, Command: motion.Command{Angular: 1.107, Linear: 2.236}},
		{Tick: 3, Elapsed: 300 * time.Millisecond, Sample: motion.Sample{X: 0, Y: 1}, Command: motion.Command{Angular: 1.571, Linear: 1}},
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	samples := []motion.Sample{{X: 1, Y: 2}, {X: -1, Y: 0.5}, {X: 0.5, Y: -1}}
	svg := TrajectoryToSVG(samples, 200, 100, "#ff0000")

	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke color not applied")
	}
	if got := strings.Count(svg, " L"); got != len(samples)-1 {
		t.Errorf("expected %d line segments, got %d", len(samples)-1, got)
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("origin marker missing")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
}

func TestTrajectoryToSVGTooShort(t *testing.T) {
	if svg := TrajectoryToSVG([]motion.Sample{{X: 1}}, 10, 10, "#fff"); svg != "" {
		t.Errorf("expected empty svg, got %q", svg)
	}
}

func TestRadarToSVG(t *testing.T) {
	if RadarToSVG(nil, 2) != "" {
		t.Error("nil radar should give empty svg")
	}

	r := viz.NewRadar(10, 5)
	r.Draw(nil, 1)
	svg := RadarToSVG(r, 2)
	if got := strings.Count(svg, "<circle"); got != 1 {
		t.Errorf("expected one dot for the origin, got %d", got)
	}

	r.Draw([]motion.Sample{{X: 1, Y: 0}}, 1)
	if strings.Count(RadarToSVG(r, 2), "<circle") < 2 {
		t.Error("expected ray dots after drawing a sample")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := storage.RunMetadata{
		ID: "run_abc", Sensor: "fixed", Sink: "none",
		Rotation: 1, Speed: 1, Period: 100 * time.Millisecond,
		Ticks: 3, Skipped: 1,
		Metrics: map[string]float64{"skip_rate": 1.0 / 3},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, testRecords()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.ID != "run_abc" || data.Skipped != 1 {
		t.Errorf("metadata not carried: %+v", data)
	}
	if data.Period != 0.1 {
		t.Errorf("expected period 0.1s, got %v", data.Period)
	}
	if len(data.Records) != 2 || data.Records[1].Tick != 3 || data.Records[1].Y != 1 {
		t.Errorf("records not carried: %+v", data.Records)
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, storage.RunMetadata{ID: "x"}, testRecords()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"angular": 1.107`) {
		t.Errorf("unexpected file contents:\n%s", raw)
	}
}
