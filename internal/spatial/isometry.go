package spatial

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Isometry is a rigid transform: rotation followed by translation.
// The zero value is not a valid transform; use Identity.
type Isometry struct {
	Rotation    mgl64.Mat3
	Translation mgl64.Vec3
}

func Identity() Isometry {
	return Isometry{Rotation: mgl64.Ident3()}
}

func Translation(p mgl64.Vec3) Isometry {
	return Isometry{Rotation: mgl64.Ident3(), Translation: p}
}

// Rotation returns a pure rotation of angle radians about axis.
// A zero axis yields the identity.
func Rotation(axis mgl64.Vec3, angle float64) Isometry {
	return Isometry{Rotation: AxisAngle(axis, angle)}
}

// AxisAngle builds a rotation matrix from an axis and an angle in radians.
func AxisAngle(axis mgl64.Vec3, angle float64) mgl64.Mat3 {
	if axis.Len() == 0 || angle == 0 {
		return mgl64.Ident3()
	}
	q := mgl64.QuatRotate(angle, axis.Normalize())
	return mgl64.Mat3FromCols(
		q.Rotate(mgl64.Vec3{1, 0, 0}),
		q.Rotate(mgl64.Vec3{0, 1, 0}),
		q.Rotate(mgl64.Vec3{0, 0, 1}),
	)
}

// RPY builds the rotation Rz(yaw) * Ry(pitch) * Rx(roll).
func RPY(roll, pitch, yaw float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(yaw).Mul3(mgl64.Rotate3DY(pitch)).Mul3(mgl64.Rotate3DX(roll))
}

func NewIsometry(rot mgl64.Mat3, p mgl64.Vec3) Isometry {
	return Isometry{Rotation: rot, Translation: p}
}

// Mul composes t followed by o: the result maps o's child coordinates into
// t's parent coordinates.
func (t Isometry) Mul(o Isometry) Isometry {
	return Isometry{
		Rotation:    t.Rotation.Mul3(o.Rotation),
		Translation: t.Rotation.Mul3x1(o.Translation).Add(t.Translation),
	}
}

func (t Isometry) Inverse() Isometry {
	rt := t.Rotation.Transpose()
	return Isometry{Rotation: rt, Translation: rt.Mul3x1(t.Translation).Mul(-1)}
}

// Apply maps a point.
func (t Isometry) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(p).Add(t.Translation)
}

// ApplyVector maps a free vector (rotation only).
func (t Isometry) ApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(v)
}

// ApproxEqual compares entry-wise with an absolute tolerance.
func (t Isometry) ApproxEqual(o Isometry, eps float64) bool {
	for i := range t.Rotation {
		if math.Abs(t.Rotation[i]-o.Rotation[i]) > eps {
			return false
		}
	}
	return Vec3ApproxEqual(t.Translation, o.Translation, eps)
}

// Vec3ApproxEqual compares component-wise with an absolute tolerance.
func Vec3ApproxEqual(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func (t Isometry) IsIdentity(eps float64) bool {
	return t.ApproxEqual(Identity(), eps)
}

// IsValid reports whether every entry is finite and the rotation is orthonormal.
func (t Isometry) IsValid() bool {
	for _, c := range t.Rotation {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	for _, c := range t.Translation {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return Isometry{Rotation: t.Rotation.Mul3(t.Rotation.Transpose())}.IsIdentity(1e-9)
}

func (t Isometry) String() string {
	p := t.Translation
	return fmt.Sprintf("t=(%.6g, %.6g, %.6g) R=%v", p[0], p[1], p[2], t.Rotation)
}
