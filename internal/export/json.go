package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/polarctl/internal/sim"
	"github.com/san-kum/polarctl/internal/storage"
)

type RecordData struct {
	Tick    int     `json:"tick"`
	Elapsed float64 `json:"elapsed"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angular float64 `json:"angular"`
	Linear  float64 `json:"linear"`
}

type ExportData struct {
	ID       string             `json:"id"`
	Sensor   string             `json:"sensor"`
	Sink     string             `json:"sink"`
	Rotation float64            `json:"rotation_scale"`
	Speed    float64            `json:"speed_scale"`
	Period   float64            `json:"period"`
	Ticks    int                `json:"ticks"`
	Skipped  int                `json:"skipped"`
	Records  []RecordData       `json:"records"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(meta storage.RunMetadata, records []sim.Record) ExportData {
	data := ExportData{
		ID:       meta.ID,
		Sensor:   meta.Sensor,
		Sink:     meta.Sink,
		Rotation: meta.Rotation,
		Speed:    meta.Speed,
		Period:   meta.Period.Seconds(),
		Ticks:    meta.Ticks,
		Skipped:  meta.Skipped,
		Records:  make([]RecordData, len(records)),
		Metrics:  meta.Metrics,
	}
	for i, r := range records {
		data.Records[i] = RecordData{
			Tick:    r.Tick,
			Elapsed: r.Elapsed.Seconds(),
			X:       r.Sample.X,
			Y:       r.Sample.Y,
			Angular: r.Command.Angular,
			Linear:  r.Command.Linear,
		}
	}
	return data
}

// WriteJSON encodes a saved run and its records as indented JSON.
func WriteJSON(w io.Writer, meta storage.RunMetadata, records []sim.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, records))
}

func ExportJSON(path string, meta storage.RunMetadata, records []sim.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, records)
}
