package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 5.0
	WorldName       = "world"
)

// Frame types.
const (
	FrameFixed     = "fixed"
	FrameSimple    = "simple"
	FrameRevolute  = "revolute"
	FramePrismatic = "prismatic"
)

var (
	ErrInvalidScene      = errors.New("config: invalid scene")
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)

type Scene struct {
	Name     string        `yaml:"name" toml:"name"`
	Dt       float64       `yaml:"dt" toml:"dt"`
	Duration float64       `yaml:"duration" toml:"duration"`
	Logging  LoggingConfig `yaml:"logging" toml:"logging"`
	Frames   []FrameConfig `yaml:"frames" toml:"frames"`
	Tracks   []TrackConfig `yaml:"tracks,omitempty" toml:"tracks,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// PoseConfig is a rigid transform: translation plus an optional rotation.
type PoseConfig struct {
	Translation []float64       `yaml:"translation,omitempty" toml:"translation,omitempty"`
	Rotation    *RotationConfig `yaml:"rotation,omitempty" toml:"rotation,omitempty"`
}

// RotationConfig is either an axis-angle pair or roll/pitch/yaw, radians.
type RotationConfig struct {
	Axis  []float64 `yaml:"axis,omitempty" toml:"axis,omitempty"`
	Angle float64   `yaml:"angle,omitempty" toml:"angle,omitempty"`
	RPY   []float64 `yaml:"rpy,omitempty" toml:"rpy,omitempty"`
}

type FrameConfig struct {
	Name   string `yaml:"name" toml:"name"`
	Parent string `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Type   string `yaml:"type" toml:"type"`

	// pose relative to the parent (fixed, simple)
	PoseConfig `yaml:",inline"`

	// spatial vectors [wx wy wz vx vy vz] in the frame's own coordinates (simple)
	Velocity     []float64 `yaml:"velocity,omitempty" toml:"velocity,omitempty"`
	Acceleration []float64 `yaml:"acceleration,omitempty" toml:"acceleration,omitempty"`

	// joints
	Axis         []float64     `yaml:"axis,omitempty" toml:"axis,omitempty"`
	ParentOffset *PoseConfig   `yaml:"parent_offset,omitempty" toml:"parent_offset,omitempty"`
	ChildOffset  *PoseConfig   `yaml:"child_offset,omitempty" toml:"child_offset,omitempty"`
	Motion       *MotionConfig `yaml:"motion,omitempty" toml:"motion,omitempty"`
}

type MotionConfig struct {
	Kind         string             `yaml:"kind" toml:"kind"`
	Value        float64            `yaml:"value,omitempty" toml:"value,omitempty"`
	Velocity     float64            `yaml:"velocity,omitempty" toml:"velocity,omitempty"`
	Acceleration float64            `yaml:"acceleration,omitempty" toml:"acceleration,omitempty"`
	Amplitude    float64            `yaml:"amplitude,omitempty" toml:"amplitude,omitempty"`
	Frequency    float64            `yaml:"frequency,omitempty" toml:"frequency,omitempty"` // Hz
	Phase        float64            `yaml:"phase,omitempty" toml:"phase,omitempty"`
	Offset       float64            `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Script       string             `yaml:"script,omitempty" toml:"script,omitempty"`
	ScriptFile   string             `yaml:"script_file,omitempty" toml:"script_file,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty" toml:"params,omitempty"`
}

// TrackConfig selects a point whose motion is sampled: the point at Offset
// in Frame, observed from RelativeTo, expressed in InCoordinatesOf. Empty
// frame names mean world.
type TrackConfig struct {
	Name            string    `yaml:"name,omitempty" toml:"name,omitempty"`
	Frame           string    `yaml:"frame" toml:"frame"`
	Offset          []float64 `yaml:"offset,omitempty" toml:"offset,omitempty"`
	RelativeTo      string    `yaml:"relative_to,omitempty" toml:"relative_to,omitempty"`
	InCoordinatesOf string    `yaml:"in_coordinates_of,omitempty" toml:"in_coordinates_of,omitempty"`
}

// Label is the track name, falling back to the frame name.
func (t TrackConfig) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Frame
}

func DefaultScene() *Scene {
	return &Scene{
		Name:     "scene",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a scene from a .yaml, .yml or .toml file, overlaying the
// defaults, and validates it.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	cfg := DefaultScene()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Scene) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene for problems a builder cannot recover from.
// Parents must be declared before their children.
func (s *Scene) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidScene, s.Dt)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidScene, s.Duration)
	}

	seen := map[string]bool{WorldName: true}
	for i, f := range s.Frames {
		if f.Name == "" {
			return fmt.Errorf("%w: frame %d has no name", ErrInvalidScene, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate frame %q", ErrInvalidScene, f.Name)
		}
		if f.Parent != "" && !seen[f.Parent] {
			return fmt.Errorf("%w: frame %q: parent %q must be declared first", ErrInvalidScene, f.Name, f.Parent)
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("%w: frame %q: %v", ErrInvalidScene, f.Name, err)
		}
		seen[f.Name] = true
	}

	labels := make(map[string]bool, len(s.Tracks))
	for _, t := range s.Tracks {
		for _, ref := range []string{t.Frame, t.RelativeTo, t.InCoordinatesOf} {
			if ref != "" && !seen[ref] {
				return fmt.Errorf("%w: track %q: unknown frame %q", ErrInvalidScene, t.Label(), ref)
			}
		}
		if t.Frame == "" {
			return fmt.Errorf("%w: track %q has no frame", ErrInvalidScene, t.Label())
		}
		if labels[t.Label()] {
			return fmt.Errorf("%w: duplicate track %q", ErrInvalidScene, t.Label())
		}
		if err := checkLen("offset", t.Offset, 3); err != nil {
			return fmt.Errorf("%w: track %q: %v", ErrInvalidScene, t.Label(), err)
		}
		labels[t.Label()] = true
	}
	return nil
}

func (f FrameConfig) validate() error {
	switch f.Type {
	case FrameFixed, FrameSimple, "":
		if f.Motion != nil {
			return errors.New("motion needs a joint type")
		}
	case FrameRevolute, FramePrismatic:
		if err := f.Motion.validate(); err != nil {
			return err
		}
		if err := checkLen("axis", f.Axis, 3); err != nil {
			return err
		}
		for _, p := range []*PoseConfig{f.ParentOffset, f.ChildOffset} {
			if err := p.validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown type %q", f.Type)
	}
	if err := f.PoseConfig.validate(); err != nil {
		return err
	}
	if err := checkLen("velocity", f.Velocity, 6); err != nil {
		return err
	}
	return checkLen("acceleration", f.Acceleration, 6)
}

func (p *PoseConfig) validate() error {
	if p == nil {
		return nil
	}
	if err := checkLen("translation", p.Translation, 3); err != nil {
		return err
	}
	if r := p.Rotation; r != nil {
		if len(r.RPY) > 0 && len(r.Axis) > 0 {
			return errors.New("rotation takes either axis/angle or rpy")
		}
		if err := checkLen("rpy", r.RPY, 3); err != nil {
			return err
		}
		return checkLen("rotation axis", r.Axis, 3)
	}
	return nil
}

func (m *MotionConfig) validate() error {
	if m == nil {
		return nil
	}
	switch m.Kind {
	case "constant", "ramp", "sine", "":
	case "lua":
		if m.Script == "" && m.ScriptFile == "" {
			return errors.New("lua motion needs script or script_file")
		}
	default:
		return fmt.Errorf("unknown motion kind %q", m.Kind)
	}
	return nil
}

// checkLen accepts an omitted vector or one of exactly n entries.
func checkLen(field string, v []float64, n int) error {
	if len(v) != 0 && len(v) != n {
		return fmt.Errorf("%s needs %d values, got %d", field, n, len(v))
	}
	return nil
}
