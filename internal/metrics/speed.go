package metrics

import (
	"math"

	"github.com/san-kum/kinframe/internal/sim"
)

type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(s sim.Sample, t float64) {
	m.sum += s.Speed()
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// Peak tracks the largest magnitude of one sample quantity.
type Peak struct {
	name string
	of   func(sim.Sample) float64
	max  float64
}

func NewPeakSpeed() *Peak {
	return &Peak{name: "peak_speed", of: sim.Sample.Speed}
}

func NewPeakAngularSpeed() *Peak {
	return &Peak{name: "peak_angular_speed", of: sim.Sample.AngularSpeed}
}

func NewPeakAcceleration() *Peak {
	return &Peak{name: "peak_acceleration", of: func(s sim.Sample) float64 { return s.LinearAcceleration.Len() }}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s sim.Sample, t float64) {
	p.max = math.Max(p.max, p.of(s))
}

func (p *Peak) Value() float64 { return p.max }
func (p *Peak) Reset()         { p.max = 0 }
