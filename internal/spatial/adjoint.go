package spatial

import "github.com/go-gl/mathgl/mgl64"

// AdT maps V from the source frame of t into its destination frame:
//
//	[ R      0 ] [w]
//	[ [p]x R R ] [v]
func AdT(t Isometry, v Vec6) Vec6 {
	w := t.Rotation.Mul3x1(v.Angular)
	return Vec6{
		Angular: w,
		Linear:  t.Translation.Cross(w).Add(t.Rotation.Mul3x1(v.Linear)),
	}
}

// AdInvT is AdT(t.Inverse(), v) without forming the inverse.
func AdInvT(t Isometry, v Vec6) Vec6 {
	rt := t.Rotation.Transpose()
	return Vec6{
		Angular: rt.Mul3x1(v.Angular),
		Linear:  rt.Mul3x1(v.Linear.Sub(t.Translation.Cross(v.Angular))),
	}
}

// AdR rotates both halves of v by the rotation of t.
func AdR(t Isometry, v Vec6) Vec6 {
	return Vec6{
		Angular: t.Rotation.Mul3x1(v.Angular),
		Linear:  t.Rotation.Mul3x1(v.Linear),
	}
}

func AdInvR(t Isometry, v Vec6) Vec6 {
	rt := t.Rotation.Transpose()
	return Vec6{
		Angular: rt.Mul3x1(v.Angular),
		Linear:  rt.Mul3x1(v.Linear),
	}
}

// Ad is the spatial cross product ad(a) b.
func Ad(a, b Vec6) Vec6 {
	return Vec6{
		Angular: a.Angular.Cross(b.Angular),
		Linear:  a.Angular.Cross(b.Linear).Add(a.Linear.Cross(b.Angular)),
	}
}

// Matrix6 is a row-major 6x6 operator on Vec6.
type Matrix6 [6][6]float64

func (m Matrix6) MulVec(v Vec6) Vec6 {
	in := v.Array()
	var out [6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			out[i] += m[i][j] * in[j]
		}
	}
	return NewVec6(out[0], out[1], out[2], out[3], out[4], out[5])
}

// AdjointMatrix returns the explicit 6x6 form of AdT(t, ·).
func AdjointMatrix(t Isometry) Matrix6 {
	var m Matrix6
	px := skew(t.Translation).Mul3(t.Rotation)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r := t.Rotation.At(i, j)
			m[i][j] = r
			m[i+3][j+3] = r
			m[i+3][j] = px.At(i, j)
		}
	}
	return m
}

func skew(p mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -p[2], p[1]},
		mgl64.Vec3{p[2], 0, -p[0]},
		mgl64.Vec3{-p[1], p[0], 0},
	)
}

// OffsetVelocity moves a body-fixed motion vector from the frame origin to
// the point at offset: the linear part gains w x offset.
func OffsetVelocity(v Vec6, offset mgl64.Vec3) Vec6 {
	v.Linear = v.Linear.Add(v.Angular.Cross(offset))
	return v
}

// ClassicLinearAcceleration converts a spatial acceleration of a point with
// spatial velocity v into the classical linear acceleration a + w x v.
func ClassicLinearAcceleration(a, v Vec6) mgl64.Vec3 {
	return a.Linear.Add(v.Angular.Cross(v.Linear))
}
