package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/sim"
)

// PathLength sums the straight-line distance between consecutive positions.
type PathLength struct {
	name    string
	last    mgl64.Vec3
	length  float64
	samples int
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(s sim.Sample, t float64) {
	if p.samples > 0 {
		p.length += s.Position.Sub(p.last).Len()
	}
	p.last = s.Position
	p.samples++
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.last = mgl64.Vec3{}
	p.length = 0
	p.samples = 0
}

// Reach is the fraction of samples whose position stays within radius of
// the origin of the reference frame.
type Reach struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewReach(radius float64) *Reach {
	return &Reach{
		name:   "reach",
		radius: radius,
	}
}

func (r *Reach) Name() string { return r.name }

func (r *Reach) Observe(s sim.Sample, t float64) {
	r.samples++
	if s.Position.Len() > r.radius {
		r.violations++
	}
}

func (r *Reach) Value() float64 {
	if r.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(r.violations)/float64(r.samples)
}

func (r *Reach) Reset() {
	r.violations = 0
	r.samples = 0
}
