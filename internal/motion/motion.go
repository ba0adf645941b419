package motion

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownKind  = errors.New("motion: unknown kind")
	ErrNoMotionFunc = errors.New("motion: script does not define motion(t)")
)

// Kinds accepted by New.
const (
	KindConstant = "constant"
	KindRamp     = "ramp"
	KindSine     = "sine"
	KindLua      = "lua"
)

// State is a joint coordinate and its derivatives.
type State struct {
	Q, Dq, Ddq float64
}

func (s State) Values() (float64, float64, float64) { return s.Q, s.Dq, s.Ddq }

func (s State) IsValid() bool {
	for _, v := range []float64{s.Q, s.Dq, s.Ddq} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Motion interface {
	Name() string
	Sample(t float64) State
}

// Params configures the analytic kinds. Unused fields are ignored.
type Params struct {
	Value        float64
	Velocity     float64
	Acceleration float64
	Amplitude    float64
	Frequency    float64 // Hz
	Phase        float64
	Offset       float64
}

// New builds an analytic motion of the given kind.
func New(kind string, p Params) (Motion, error) {
	switch kind {
	case KindConstant, "":
		return Constant{Value: p.Value}, nil
	case KindRamp:
		return Ramp{Start: p.Value, Velocity: p.Velocity, Acceleration: p.Acceleration}, nil
	case KindSine:
		return Sine{Amplitude: p.Amplitude, Frequency: p.Frequency, Phase: p.Phase, Offset: p.Offset}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

type Constant struct {
	Value float64
}

func (Constant) Name() string           { return KindConstant }
func (c Constant) Sample(float64) State { return State{Q: c.Value} }

// Ramp moves with constant acceleration from Start.
type Ramp struct {
	Start, Velocity, Acceleration float64
}

func (Ramp) Name() string { return KindRamp }

func (r Ramp) Sample(t float64) State {
	return State{
		Q:   r.Start + r.Velocity*t + 0.5*r.Acceleration*t*t,
		Dq:  r.Velocity + r.Acceleration*t,
		Ddq: r.Acceleration,
	}
}

// Sine is Offset + Amplitude*sin(2*pi*Frequency*t + Phase).
type Sine struct {
	Amplitude, Frequency, Phase, Offset float64
}

func (Sine) Name() string { return KindSine }

func (s Sine) Sample(t float64) State {
	w := 2 * math.Pi * s.Frequency
	x := w*t + s.Phase
	return State{
		Q:   s.Offset + s.Amplitude*math.Sin(x),
		Dq:  s.Amplitude * w * math.Cos(x),
		Ddq: -s.Amplitude * w * w * math.Sin(x),
	}
}
