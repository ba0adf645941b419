package kinematics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/san-kum/kinframe/internal/spatial"
)

// trajectory returns q, dq and ddq at time t.
type trajectory func(t float64) (float64, float64, float64)

func sine(amp, freq, phase float64) trajectory {
	return func(t float64) (float64, float64, float64) {
		x := freq*t + phase
		return amp * math.Sin(x), amp * freq * math.Cos(x), -amp * freq * freq * math.Sin(x)
	}
}

// rig is a moving mechanism with analytic joint trajectories.
type rig struct {
	base   *SimpleFrame
	joints []*JointFrame
	paths  []trajectory
	ref    *JointFrame
	refQ   trajectory
	drone  *SimpleFrame
}

// newRig builds
//
//	World -> base (free motion) -> shoulder (revolute) -> slide (prismatic) -> wrist (revolute)
//	                                                                         -> drone (free motion)
//	                            -> ref (revolute)
func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{}
	r.base = NewSimpleFrame(nil, "base", spatial.Identity())
	cleanup(t, r.base.Frame)

	shoulder := NewRevoluteFrame(r.base.Frame, "shoulder", mgl64.Vec3{0, 0, 1},
		translated(0.5, 0, 0), spatial.NewIsometry(spatial.AxisAngle(mgl64.Vec3{1, 0, 0}, 0.2), mgl64.Vec3{0, 0, -0.2}))
	slide := NewPrismaticFrame(shoulder.Frame, "slide", mgl64.Vec3{1, 1, 0},
		spatial.NewIsometry(spatial.AxisAngle(mgl64.Vec3{1, 0, 0}, 0.3), mgl64.Vec3{0, 0.4, 0}), translated(0.1, 0, 0))
	wrist := NewRevoluteFrame(slide.Frame, "wrist", mgl64.Vec3{1, 0, 0},
		translated(0, 0, 0.3), translated(0, -0.25, 0))
	r.joints = []*JointFrame{shoulder, slide, wrist}
	r.paths = []trajectory{sine(1.0, 1.3, 0), sine(0.5, 0.7, 1.1), sine(0.8, 2.0, 0.3)}

	r.ref = NewRevoluteFrame(r.base.Frame, "ref", mgl64.Vec3{0, 1, 0}, translated(0, 0, 1), spatial.Identity())
	r.refQ = sine(0.6, 0.9, 0.2)

	r.drone = NewSimpleFrame(slide.Frame, "drone", spatial.Identity())
	return r
}

func (r *rig) at(t float64) {
	axis := mgl64.Vec3{0, 1, 1}.Normalize()
	th, dth, ddth := sine(0.4, 1.0, 0)(t)
	p := mgl64.Vec3{math.Sin(t), 0.5 * t * t, 0.2 * math.Cos(2*t)}
	dp := mgl64.Vec3{math.Cos(t), t, -0.4 * math.Sin(2*t)}
	ddp := mgl64.Vec3{-math.Sin(t), 1, -0.8 * math.Cos(2*t)}

	r.base.SetRelativeTransform(spatial.NewIsometry(spatial.AxisAngle(axis, th), p))
	r.base.SetClassicDerivatives(dp, axis.Mul(dth), ddp, axis.Mul(ddth))

	for i, j := range r.joints {
		j.SetState(r.paths[i](t))
	}
	r.ref.SetState(r.refQ(t))

	// drone flies relative to the slide while everything above it moves
	droneAxis := mgl64.Vec3{1, 0, 1}.Normalize()
	ph, dph, ddph := sine(0.7, 1.7, 0.4)(t)
	q := mgl64.Vec3{0.2 * math.Cos(t), 0.3 * t, 0.3 * math.Sin(0.5*t)}
	dq := mgl64.Vec3{-0.2 * math.Sin(t), 0.3, 0.15 * math.Cos(0.5*t)}
	ddq := mgl64.Vec3{-0.2 * math.Cos(t), 0, -0.075 * math.Sin(0.5*t)}
	r.drone.SetRelativeTransform(spatial.NewIsometry(spatial.AxisAngle(droneAxis, ph), q))
	r.drone.SetClassicDerivatives(dq, droneAxis.Mul(dph), ddq, droneAxis.Mul(ddph))
}

// angularFromRotations extracts w from dR/dt * R^T.
func angularFromRotations(minus, plus, now mgl64.Mat3, h float64) mgl64.Vec3 {
	dr := plus.Sub(minus).Mul(1 / (2 * h))
	s := dr.Mul3(now.Transpose())
	return mgl64.Vec3{
		(s.At(2, 1) - s.At(1, 2)) / 2,
		(s.At(0, 2) - s.At(2, 0)) / 2,
		(s.At(1, 0) - s.At(0, 1)) / 2,
	}
}

func TestQueriesMatchFiniteDifferences(t *testing.T) {
	r := newRig(t)
	offset := mgl64.Vec3{0.1, -0.2, 0.05}

	const (
		t0 = 0.7
		h  = 1e-5
		// central differences are second order in h
		fdTol = 1e-6
	)

	targets := []struct {
		name  string
		frame *Frame
	}{
		{"wrist", r.joints[len(r.joints)-1].Frame},
		{"drone", r.drone.Frame},
	}
	cases := []struct {
		name string
		rel  *Frame
	}{
		{"world", nil},
		{"moving reference", r.ref.Frame},
		{"ancestor", r.joints[0].Frame},
		{"parent", r.joints[1].Frame},
	}
	for _, target := range targets {
		tip := target.frame
		for _, tc := range cases {
			t.Run(target.name+"/"+tc.name, func(t *testing.T) {
				relFrame := orWorld(tc.rel)
				point := func(tm float64) mgl64.Vec3 {
					r.at(tm)
					return tip.Transform(relFrame).Apply(offset)
				}
				rotation := func(tm float64) mgl64.Mat3 {
					r.at(tm)
					return tip.Transform(relFrame).Rotation
				}
				linVel := func(tm float64) mgl64.Vec3 {
					r.at(tm)
					return tip.PointLinearVelocity(offset, tc.rel, tc.rel)
				}
				angVel := func(tm float64) mgl64.Vec3 {
					r.at(tm)
					return tip.AngularVelocity(tc.rel, tc.rel)
				}

				fdVel := point(t0 + h).Sub(point(t0 - h)).Mul(1 / (2 * h))
				fdAng := angularFromRotations(rotation(t0-h), rotation(t0+h), rotation(t0), h)
				fdAcc := linVel(t0 + h).Sub(linVel(t0 - h)).Mul(1 / (2 * h))
				fdAlpha := angVel(t0 + h).Sub(angVel(t0 - h)).Mul(1 / (2 * h))

				r.at(t0)
				gotVel := tip.PointLinearVelocity(offset, tc.rel, tc.rel)
				gotAng := tip.AngularVelocity(tc.rel, tc.rel)
				gotAcc := tip.PointLinearAcceleration(offset, tc.rel, tc.rel)
				gotAlpha := tip.AngularAcceleration(tc.rel, tc.rel)

				assert.True(t, spatial.Vec3ApproxEqual(gotVel, fdVel, fdTol), "velocity %v vs %v", gotVel, fdVel)
				assert.True(t, spatial.Vec3ApproxEqual(gotAng, fdAng, fdTol), "angular velocity %v vs %v", gotAng, fdAng)
				assert.True(t, spatial.Vec3ApproxEqual(gotAcc, fdAcc, fdTol), "acceleration %v vs %v", gotAcc, fdAcc)
				assert.True(t, spatial.Vec3ApproxEqual(gotAlpha, fdAlpha, fdTol), "angular acceleration %v vs %v", gotAlpha, fdAlpha)
			})
		}
	}
}

func TestSpatialVelocityIsBodyTwistDerivative(t *testing.T) {
	r := newRig(t)

	const (
		t0 = 1.3
		h  = 1e-5
	)
	for _, tip := range []*Frame{r.joints[len(r.joints)-1].Frame, r.drone.Frame} {
		velocity := func(tm float64) spatial.Vec6 {
			r.at(tm)
			return tip.SpatialVelocity()
		}
		fd := velocity(t0 + h).Sub(velocity(t0 - h)).Scale(1 / (2 * h))

		r.at(t0)
		assert.True(t, tip.SpatialAcceleration().ApproxEqual(fd, 1e-6), "%s: %v vs %v", tip.Name(), tip.SpatialAcceleration(), fd)
	}
}
