package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/sim"
)

var ErrUnknownTrack = errors.New("storage: unknown track")

const (
	metadataFile = "metadata.json"
	sceneFile    = "scene.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type TrackMetadata struct {
	Name    string             `json:"name"`
	File    string             `json:"file"`
	Samples int                `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

type RunMetadata struct {
	ID        string          `json:"id"`
	Scene     string          `json:"scene"`
	Timestamp time.Time       `json:"timestamp"`
	Dt        float64         `json:"dt"`
	Duration  float64         `json:"duration"`
	Steps     int             `json:"steps"`
	Tracks    []TrackMetadata `json:"tracks"`
}

func (m *RunMetadata) Track(name string) (*TrackMetadata, bool) {
	for i := range m.Tracks {
		if m.Tracks[i].Name == name {
			return &m.Tracks[i], true
		}
	}
	return nil, false
}

// Save writes metadata, the scene config and one CSV per track into a new
// run directory and returns the run ID.
func (s *Store) Save(cfg *config.Scene, result *sim.Result) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	runID := id.String()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     cfg.Name,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Tracks:    make([]TrackMetadata, 0, len(result.Tracks)),
	}

	for i, tr := range result.Tracks {
		file := fmt.Sprintf("track_%02d.csv", i)
		if err := writeTrack(filepath.Join(runDir, file), result.Times, tr.Samples); err != nil {
			return "", fmt.Errorf("track %q: %w", tr.Name, err)
		}
		meta.Tracks = append(meta.Tracks, TrackMetadata{
			Name:    tr.Name,
			File:    file,
			Samples: len(tr.Samples),
			Metrics: tr.Metrics,
		})
	}

	if err := config.Save(filepath.Join(runDir, sceneFile), cfg); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runID, nil
}

func writeTrack(path string, times []float64, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"time"}, sim.Columns...)); err != nil {
		return err
	}
	for i, smp := range samples {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range smp.Row() {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	slices.SortStableFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadScene reads back the scene config a run was sampled from.
func (s *Store) LoadScene(runID string) (*config.Scene, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}

// LoadTrack reads the samples of one track. Rows that fail to parse are
// skipped.
func (s *Store) LoadTrack(runID, track string) ([]sim.Sample, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tm, ok := meta.Track(track)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTrack, track)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, tm.File))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	samples := make([]sim.Sample, 0, len(records)-1)

	for _, record := range records[1:] {
		values := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			values = append(values, val)
		}
		if len(values) != len(record) || len(values) == 0 {
			continue
		}
		smp, err := sim.SampleFromRow(values[1:])
		if err != nil {
			continue
		}
		times = append(times, values[0])
		samples = append(samples, smp)
	}

	return samples, times, nil
}
