package spatial

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec6 is a spatial motion vector (twist or its derivative).
type Vec6 struct {
	Angular mgl64.Vec3
	Linear  mgl64.Vec3
}

func NewVec6(wx, wy, wz, vx, vy, vz float64) Vec6 {
	return Vec6{
		Angular: mgl64.Vec3{wx, wy, wz},
		Linear:  mgl64.Vec3{vx, vy, vz},
	}
}

// Vec6FromSlice reads angular-then-linear components. Missing entries are zero.
func Vec6FromSlice(s []float64) Vec6 {
	var a [6]float64
	copy(a[:], s)
	return NewVec6(a[0], a[1], a[2], a[3], a[4], a[5])
}

func Zero6() Vec6 { return Vec6{} }

func (v Vec6) Add(o Vec6) Vec6 {
	return Vec6{Angular: v.Angular.Add(o.Angular), Linear: v.Linear.Add(o.Linear)}
}

func (v Vec6) Sub(o Vec6) Vec6 {
	return Vec6{Angular: v.Angular.Sub(o.Angular), Linear: v.Linear.Sub(o.Linear)}
}

func (v Vec6) Scale(c float64) Vec6 {
	return Vec6{Angular: v.Angular.Mul(c), Linear: v.Linear.Mul(c)}
}

func (v Vec6) Neg() Vec6 { return v.Scale(-1) }

func (v Vec6) Dot(o Vec6) float64 {
	return v.Angular.Dot(o.Angular) + v.Linear.Dot(o.Linear)
}

func (v Vec6) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec6) IsZero() bool { return v == Vec6{} }

func (v Vec6) IsValid() bool {
	for _, c := range v.Array() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares component-wise with an absolute tolerance.
func (v Vec6) ApproxEqual(o Vec6, eps float64) bool {
	a, b := v.Array(), o.Array()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func (v Vec6) Array() [6]float64 {
	return [6]float64{
		v.Angular[0], v.Angular[1], v.Angular[2],
		v.Linear[0], v.Linear[1], v.Linear[2],
	}
}

func (v Vec6) String() string {
	return fmt.Sprintf("[w=(%.6g, %.6g, %.6g) v=(%.6g, %.6g, %.6g)]",
		v.Angular[0], v.Angular[1], v.Angular[2],
		v.Linear[0], v.Linear[1], v.Linear[2])
}
