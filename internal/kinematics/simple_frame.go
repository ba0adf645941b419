package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/spatial"
)

// SimpleFrame is a frame whose relative pose, velocity and acceleration are
// set directly by its owner.
//
// The relative acceleration is the whole contribution of this frame's motion
// to its world acceleration:
//
//	A = AdInvT(X, A_parent) + RelativeSpatialAcceleration()
//
// so PrimaryRelativeAcceleration equals it and PartialAcceleration is zero.
//
// After SetClassicDerivatives the stored acceleration is the derivative of
// the relative velocity as seen from the parent, and the relative
// acceleration adds ad(V, V_rel) to it so the world acceleration stays exact
// under a moving parent.
type SimpleFrame struct {
	*Frame

	relativeTf  spatial.Isometry
	relativeVel spatial.Vec6
	relativeAcc spatial.Vec6
	classic     bool
}

func NewSimpleFrame(parent *Frame, name string, relativeTf spatial.Isometry) *SimpleFrame {
	sf := &SimpleFrame{relativeTf: relativeTf}
	sf.Frame = NewFrame(parent, name, sf)
	return sf
}

// Clone creates a frame under parent with the same relative state.
func (sf *SimpleFrame) Clone(parent *Frame, name string) *SimpleFrame {
	c := NewSimpleFrame(parent, name, sf.relativeTf)
	c.relativeVel = sf.relativeVel
	c.relativeAcc = sf.relativeAcc
	c.classic = sf.classic
	return c
}

func (sf *SimpleFrame) RelativeTransform() spatial.Isometry       { return sf.relativeTf }
func (sf *SimpleFrame) RelativeSpatialVelocity() spatial.Vec6     { return sf.relativeVel }
func (sf *SimpleFrame) PrimaryRelativeAcceleration() spatial.Vec6 { return sf.RelativeSpatialAcceleration() }
func (sf *SimpleFrame) PartialAcceleration() spatial.Vec6         { return spatial.Zero6() }

func (sf *SimpleFrame) RelativeSpatialAcceleration() spatial.Vec6 {
	if !sf.classic {
		return sf.relativeAcc
	}
	return sf.relativeAcc.Add(spatial.Ad(sf.Frame.SpatialVelocity(), sf.relativeVel))
}

// SetRelativeTransform sets the pose relative to the parent. Velocity and
// acceleration are invalidated as well because their world expression
// depends on the pose.
func (sf *SimpleFrame) SetRelativeTransform(tf spatial.Isometry) {
	sf.relativeTf = tf
	sf.NotifyTransformUpdate()
}

func (sf *SimpleFrame) SetRelativeTranslation(p mgl64.Vec3) {
	tf := sf.relativeTf
	tf.Translation = p
	sf.SetRelativeTransform(tf)
}

func (sf *SimpleFrame) SetRelativeRotation(r mgl64.Mat3) {
	tf := sf.relativeTf
	tf.Rotation = r
	sf.SetRelativeTransform(tf)
}

// SetTransform sets the pose of the frame expressed in withRespectTo (nil
// means World).
func (sf *SimpleFrame) SetTransform(tf spatial.Isometry, withRespectTo *Frame) {
	wrt := orWorld(withRespectTo)
	sf.SetRelativeTransform(wrt.Transform(sf.parent).Mul(tf))
}

// SetRelativeSpatialVelocity sets the velocity relative to the parent. v is
// given in inCoordinatesOf (nil means the frame itself).
func (sf *SimpleFrame) SetRelativeSpatialVelocity(v spatial.Vec6, inCoordinatesOf *Frame) {
	sf.relativeVel = sf.toOwnCoordinates(v, inCoordinatesOf)
	sf.NotifyVelocityUpdate()
}

// SetRelativeSpatialAcceleration sets the acceleration relative to the
// parent. a is given in inCoordinatesOf (nil means the frame itself).
func (sf *SimpleFrame) SetRelativeSpatialAcceleration(a spatial.Vec6, inCoordinatesOf *Frame) {
	sf.relativeAcc = sf.toOwnCoordinates(a, inCoordinatesOf)
	sf.classic = false
	sf.NotifyAccelerationUpdate()
}

// SetClassicDerivatives sets velocity and acceleration from the classical
// derivatives of the origin relative to the parent, in parent coordinates.
// The linear acceleration is converted to its spatial form a - w x v.
// Querying LinearAcceleration(parent, parent) gives linAcc back whatever the
// parent's own motion.
func (sf *SimpleFrame) SetClassicDerivatives(linVel, angVel, linAcc, angAcc mgl64.Vec3) {
	v := spatial.Vec6{Angular: angVel, Linear: linVel}
	a := spatial.Vec6{Angular: angAcc, Linear: linAcc.Sub(angVel.Cross(linVel))}
	sf.relativeVel = spatial.AdInvR(sf.relativeTf, v)
	sf.relativeAcc = spatial.AdInvR(sf.relativeTf, a)
	sf.classic = true
	sf.NotifyVelocityUpdate()
}

func (sf *SimpleFrame) toOwnCoordinates(v spatial.Vec6, in *Frame) spatial.Vec6 {
	if in == nil || in == sf.Frame {
		return v
	}
	if in == sf.parent {
		return spatial.AdInvR(sf.relativeTf, v)
	}
	return spatial.AdR(in.Transform(sf.Frame), v)
}
