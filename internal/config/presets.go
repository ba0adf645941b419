package config

import (
	"math"
	"slices"
)

const swingScript = `
local a = params.amplitude or 0.5
local w = params.omega or 2
function motion(t)
  local s = a * math.sin(w * t) * math.exp(-0.1 * t)
  local c = a * math.cos(w * t) * math.exp(-0.1 * t)
  return s, w * c - 0.1 * s, -w * w * s - 0.2 * w * c + 0.01 * s
end
`

var zAxis = []float64{0, 0, 1}

var Presets = map[string]*Scene{
	"chain": {
		Name: "chain", Dt: 0.01, Duration: 1,
		Frames: []FrameConfig{
			{Name: "a", Type: FrameFixed, PoseConfig: PoseConfig{Translation: []float64{1, 0, 0}}},
			{Name: "b", Parent: "a", Type: FrameFixed, PoseConfig: PoseConfig{Translation: []float64{0, 1, 0}}},
			{Name: "c", Parent: "b", Type: FrameFixed, PoseConfig: PoseConfig{Translation: []float64{0, 0, 1}}},
		},
		Tracks: []TrackConfig{
			{Frame: "c"},
			{Name: "c_in_a", Frame: "c", RelativeTo: "a", InCoordinatesOf: "a"},
		},
	},
	"rotating": {
		Name: "rotating", Dt: 0.01, Duration: 2 * math.Pi,
		Frames: []FrameConfig{
			{Name: "hub", Type: FrameRevolute, Axis: zAxis, Motion: &MotionConfig{Kind: "ramp", Velocity: 1}},
			{Name: "rim", Parent: "hub", Type: FrameFixed, PoseConfig: PoseConfig{Translation: []float64{1, 0, 0}}},
		},
		Tracks: []TrackConfig{
			{Frame: "rim"},
			{Name: "rim_in_hub", Frame: "rim", RelativeTo: "hub", InCoordinatesOf: "hub"},
		},
	},
	"arm": {
		Name: "arm", Dt: 0.005, Duration: 4,
		Frames: []FrameConfig{
			{Name: "shoulder", Type: FrameRevolute, Axis: zAxis,
				Motion: &MotionConfig{Kind: "sine", Amplitude: 0.8, Frequency: 0.5}},
			{Name: "elbow", Parent: "shoulder", Type: FrameRevolute, Axis: zAxis,
				ParentOffset: &PoseConfig{Translation: []float64{1, 0, 0}},
				Motion:       &MotionConfig{Kind: "sine", Amplitude: 1.2, Frequency: 0.75, Phase: math.Pi / 2}},
			{Name: "tool", Parent: "elbow", Type: FrameFixed, PoseConfig: PoseConfig{Translation: []float64{0.8, 0, 0}}},
		},
		Tracks: []TrackConfig{
			{Frame: "tool"},
			{Name: "tool_in_shoulder", Frame: "tool", RelativeTo: "shoulder", InCoordinatesOf: "shoulder"},
			{Name: "fingertip", Frame: "tool", Offset: []float64{0.1, 0.05, 0}},
		},
	},
	"slider": {
		Name: "slider", Dt: 0.01, Duration: 6,
		Frames: []FrameConfig{
			{Name: "turntable", Type: FrameRevolute, Axis: zAxis, Motion: &MotionConfig{Kind: "ramp", Velocity: 0.5}},
			{Name: "carriage", Parent: "turntable", Type: FramePrismatic, Axis: []float64{1, 0, 0},
				Motion: &MotionConfig{Kind: "sine", Amplitude: 0.5, Frequency: 0.25, Offset: 1}},
		},
		Tracks: []TrackConfig{
			{Frame: "carriage"},
			{Name: "carriage_on_table", Frame: "carriage", RelativeTo: "turntable", InCoordinatesOf: "turntable"},
		},
	},
	"scripted": {
		Name: "scripted", Dt: 0.01, Duration: 10,
		Frames: []FrameConfig{
			{Name: "pivot", Type: FrameFixed, PoseConfig: PoseConfig{
				Translation: []float64{0, 0, 2},
				Rotation:    &RotationConfig{Axis: []float64{1, 0, 0}, Angle: math.Pi / 2},
			}},
			{Name: "bob", Parent: "pivot", Type: FrameRevolute, Axis: zAxis,
				ChildOffset: &PoseConfig{Translation: []float64{0, 1, 0}},
				Motion:      &MotionConfig{Kind: "lua", Script: swingScript, Params: map[string]float64{"amplitude": 0.6}}},
		},
		Tracks: []TrackConfig{{Frame: "bob"}},
	},
}

// GetPreset returns a copy of the named preset with default logging, or nil.
func GetPreset(name string) *Scene {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Logging = DefaultScene().Logging
	cfg.Frames = slices.Clone(p.Frames)
	cfg.Tracks = slices.Clone(p.Tracks)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
