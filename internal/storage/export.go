package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/kinframe/internal/sim"
)

type ExportTrack struct {
	Name    string             `json:"name"`
	Columns []string           `json:"columns"`
	Samples [][]float64        `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

type ExportData struct {
	Scene    string        `json:"scene"`
	Dt       float64       `json:"dt"`
	Duration float64       `json:"duration"`
	Steps    int           `json:"steps"`
	Times    []float64     `json:"times"`
	Tracks   []ExportTrack `json:"tracks"`
}

func NewExportData(scene string, dt, duration float64, result *sim.Result) ExportData {
	data := ExportData{
		Scene:    scene,
		Dt:       dt,
		Duration: duration,
		Steps:    len(result.Times),
		Times:    result.Times,
		Tracks:   make([]ExportTrack, len(result.Tracks)),
	}
	for i, tr := range result.Tracks {
		rows := make([][]float64, len(tr.Samples))
		for j, s := range tr.Samples {
			rows[j] = s.Row()
		}
		data.Tracks[i] = ExportTrack{Name: tr.Name, Columns: sim.Columns, Samples: rows, Metrics: tr.Metrics}
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
