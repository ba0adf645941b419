package kinematics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/spatial"
)

type JointType int

const (
	Revolute JointType = iota
	Prismatic
)

func (j JointType) String() string {
	switch j {
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	}
	return fmt.Sprintf("JointType(%d)", int(j))
}

// JointFrame is a frame attached to its parent through a single-axis joint
// with position q, velocity dq and acceleration ddq.
//
// The relative pose is parentToJoint * motion(q) * childToJoint^-1, where
// parentToJoint is the joint frame in parent coordinates and childToJoint is
// the joint frame in this frame's coordinates. With the constant joint
// Jacobian S (in this frame's coordinates):
//
//	relative velocity     S dq
//	primary acceleration  S ddq
//	partial acceleration  ad(V, S dq)
//
// where V is the frame's own spatial velocity.
type JointFrame struct {
	*Frame

	jointType     JointType
	axis          mgl64.Vec3
	parentToJoint spatial.Isometry
	childToJoint  spatial.Isometry
	jacobian      spatial.Vec6

	q, dq, ddq float64
}

func NewRevoluteFrame(parent *Frame, name string, axis mgl64.Vec3, parentToJoint, childToJoint spatial.Isometry) *JointFrame {
	return newJointFrame(parent, name, Revolute, axis, parentToJoint, childToJoint)
}

func NewPrismaticFrame(parent *Frame, name string, axis mgl64.Vec3, parentToJoint, childToJoint spatial.Isometry) *JointFrame {
	return newJointFrame(parent, name, Prismatic, axis, parentToJoint, childToJoint)
}

func newJointFrame(parent *Frame, name string, jt JointType, axis mgl64.Vec3, parentToJoint, childToJoint spatial.Isometry) *JointFrame {
	if axis.Len() == 0 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	jf := &JointFrame{
		jointType:     jt,
		axis:          axis.Normalize(),
		parentToJoint: parentToJoint,
		childToJoint:  childToJoint,
	}
	jf.updateJacobian()
	jf.Frame = NewFrame(parent, name, jf)
	return jf
}

func (jf *JointFrame) JointType() JointType  { return jf.jointType }
func (jf *JointFrame) Axis() mgl64.Vec3      { return jf.axis }
func (jf *JointFrame) Position() float64     { return jf.q }
func (jf *JointFrame) Velocity() float64     { return jf.dq }
func (jf *JointFrame) Acceleration() float64 { return jf.ddq }

// RelativeJacobian maps dq to the relative spatial velocity.
func (jf *JointFrame) RelativeJacobian() spatial.Vec6 { return jf.jacobian }

func (jf *JointFrame) updateJacobian() {
	var local spatial.Vec6
	if jf.jointType == Revolute {
		local.Angular = jf.axis
	} else {
		local.Linear = jf.axis
	}
	jf.jacobian = spatial.AdT(jf.childToJoint, local)
}

func (jf *JointFrame) SetPosition(q float64) {
	jf.q = q
	jf.NotifyTransformUpdate()
}

func (jf *JointFrame) SetVelocity(dq float64) {
	jf.dq = dq
	jf.NotifyVelocityUpdate()
}

func (jf *JointFrame) SetAcceleration(ddq float64) {
	jf.ddq = ddq
	jf.NotifyAccelerationUpdate()
}

func (jf *JointFrame) SetState(q, dq, ddq float64) {
	jf.q, jf.dq, jf.ddq = q, dq, ddq
	jf.NotifyTransformUpdate()
}

func (jf *JointFrame) SetTransformFromParent(tf spatial.Isometry) {
	jf.parentToJoint = tf
	jf.NotifyTransformUpdate()
}

func (jf *JointFrame) SetTransformFromChild(tf spatial.Isometry) {
	jf.childToJoint = tf
	jf.updateJacobian()
	jf.NotifyTransformUpdate()
}

func (jf *JointFrame) jointMotion() spatial.Isometry {
	if jf.jointType == Revolute {
		return spatial.Rotation(jf.axis, jf.q)
	}
	return spatial.Translation(jf.axis.Mul(jf.q))
}

func (jf *JointFrame) RelativeTransform() spatial.Isometry {
	return jf.parentToJoint.Mul(jf.jointMotion()).Mul(jf.childToJoint.Inverse())
}

func (jf *JointFrame) RelativeSpatialVelocity() spatial.Vec6 {
	return jf.jacobian.Scale(jf.dq)
}

func (jf *JointFrame) RelativeSpatialAcceleration() spatial.Vec6 {
	return jf.PrimaryRelativeAcceleration().Add(jf.PartialAcceleration())
}

func (jf *JointFrame) PrimaryRelativeAcceleration() spatial.Vec6 {
	return jf.jacobian.Scale(jf.ddq)
}

func (jf *JointFrame) PartialAcceleration() spatial.Vec6 {
	return spatial.Ad(jf.SpatialVelocity(), jf.RelativeSpatialVelocity())
}
