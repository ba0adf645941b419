package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Columns names the values of Sample.Row, in order.
var Columns = []string{
	"x", "y", "z",
	"vx", "vy", "vz",
	"wx", "wy", "wz",
	"ax", "ay", "az",
	"alphax", "alphay", "alphaz",
}

// Sample is the state of one tracked point at one instant. Linear
// acceleration is the classical second derivative of Position.
type Sample struct {
	Position            mgl64.Vec3
	LinearVelocity      mgl64.Vec3
	AngularVelocity     mgl64.Vec3
	LinearAcceleration  mgl64.Vec3
	AngularAcceleration mgl64.Vec3
}

func (s Sample) Row() []float64 {
	row := make([]float64, 0, len(Columns))
	for _, v := range []mgl64.Vec3{s.Position, s.LinearVelocity, s.AngularVelocity, s.LinearAcceleration, s.AngularAcceleration} {
		row = append(row, v[0], v[1], v[2])
	}
	return row
}

// SampleFromRow is the inverse of Row.
func SampleFromRow(row []float64) (Sample, error) {
	if len(row) != len(Columns) {
		return Sample{}, fmt.Errorf("sample row has %d values, want %d", len(row), len(Columns))
	}
	at := func(i int) mgl64.Vec3 { return mgl64.Vec3{row[i], row[i+1], row[i+2]} }
	return Sample{
		Position:            at(0),
		LinearVelocity:      at(3),
		AngularVelocity:     at(6),
		LinearAcceleration:  at(9),
		AngularAcceleration: at(12),
	}, nil
}

func (s Sample) IsValid() bool {
	for _, v := range s.Row() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s Sample) Speed() float64        { return s.LinearVelocity.Len() }
func (s Sample) AngularSpeed() float64 { return s.AngularVelocity.Len() }

// Metric accumulates a scalar over the samples of one track.
type Metric interface {
	Name() string
	Observe(s Sample, t float64)
	Value() float64
	Reset()
}

// MetricFactory makes a fresh metric for each track.
type MetricFactory func() Metric

// Observer sees every step, samples ordered like the sampler's tracks.
type Observer interface {
	OnStep(t float64, samples []Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

type TrackResult struct {
	Name    string
	Samples []Sample
	Metrics map[string]float64
}

type Result struct {
	Times      []float64
	Tracks     []TrackResult
	StepsTaken int
}

func (r *Result) Track(name string) (*TrackResult, bool) {
	for i := range r.Tracks {
		if r.Tracks[i].Name == name {
			return &r.Tracks[i], true
		}
	}
	return nil, false
}

// SampleError reports a non-finite sample.
type SampleError struct {
	Step  int
	Time  float64
	Track string
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("track %q: invalid sample (NaN/Inf) at step %d, t=%.4f", e.Track, e.Step, e.Time)
}
