package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/sim"
)

const (
	metadataFile = "metadata.json"
	recordsFile  = "records.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var recordHeader = []string{"tick", "elapsed", "x", "y", "angular", "linear"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Sensor    string             `json:"sensor"`
	Sink      string             `json:"sink"`
	Rotation  float64            `json:"rotation_scale"`
	Speed     float64            `json:"speed_scale"`
	Period    time.Duration      `json:"period"`
	Ticks     int                `json:"ticks"`
	Skipped   int                `json:"skipped"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run under a fresh ID and returns it. meta.ID, Timestamp,
// Ticks, Skipped and Metrics are filled from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, xid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Name = name
	meta.Timestamp = time.Now()
	meta.Ticks = result.Ticks
	meta.Skipped = result.Skipped
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeRecords(filepath.Join(runDir, recordsFile), result.Records); err != nil {
		return "", fmt.Errorf("write records: %w", err)
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecords(path string, records []sim.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordHeader); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Tick),
			strconv.FormatFloat(rec.Elapsed.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(rec.Sample.X, 'g', -1, 64),
			strconv.FormatFloat(rec.Sample.Y, 'g', -1, 64),
			strconv.FormatFloat(rec.Command.Angular, 'g', -1, 64),
			strconv.FormatFloat(rec.Command.Linear, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns saved runs, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// RecordsPath is the CSV file holding a run's published ticks.
func (s *Store) RecordsPath(runID string) string {
	return filepath.Join(s.baseDir, runID, recordsFile)
}

func (s *Store) LoadRecords(runID string) ([]sim.Record, error) {
	file, err := os.Open(s.RecordsPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(recordHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]sim.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", recordsFile, i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(row []string) (sim.Record, error) {
	tick, err := strconv.Atoi(row[0])
	if err != nil {
		return sim.Record{}, err
	}

	vals := make([]float64, 5)
	for j := range vals {
		v, err := strconv.ParseFloat(row[j+1], 64)
		if err != nil {
			return sim.Record{}, err
		}
		vals[j] = v
	}

	return sim.Record{
		Tick:    tick,
		Elapsed: time.Duration(vals[0] * float64(time.Second)),
		Sample:  motion.Sample{X: vals[1], Y: vals[2]},
		Command: motion.Command{Angular: vals[3], Linear: vals[4]},
	}, nil
}

// LoadSamples returns the sensor readings of a saved run, for replay.
func (s *Store) LoadSamples(runID string) ([]motion.Sample, error) {
	records, err := s.LoadRecords(runID)
	if err != nil {
		return nil, err
	}
	samples := make([]motion.Sample, len(records))
	for i, rec := range records {
		samples[i] = rec.Sample
	}
	return samples, nil
}
