package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-12

func randomIsometry(r *rand.Rand) Isometry {
	axis := mgl64.Vec3{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5}
	rot := AxisAngle(axis, (r.Float64()-0.5)*2*math.Pi)
	return NewIsometry(rot, mgl64.Vec3{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()})
}

func randomVec6(r *rand.Rand) Vec6 {
	return NewVec6(r.NormFloat64(), r.NormFloat64(), r.NormFloat64(),
		r.NormFloat64(), r.NormFloat64(), r.NormFloat64())
}

func TestIsometryCompose(t *testing.T) {
	a := Translation(mgl64.Vec3{1, 0, 0})
	b := Translation(mgl64.Vec3{0, 1, 0})

	got := a.Mul(b).Translation
	if !Vec3ApproxEqual(got, mgl64.Vec3{1, 1, 0}, eps) {
		t.Errorf("expected (1,1,0), got %v", got)
	}
}

func TestRotationAboutZ(t *testing.T) {
	a := Rotation(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	b := Translation(mgl64.Vec3{1, 0, 0})

	got := a.Mul(b).Translation
	if !Vec3ApproxEqual(got, mgl64.Vec3{0, 1, 0}, eps) {
		t.Errorf("expected (0,1,0), got %v", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		tf := randomIsometry(r)
		if !tf.Mul(tf.Inverse()).IsIdentity(1e-9) {
			t.Fatalf("T * T^-1 is not identity for %v", tf)
		}
		if !tf.IsValid() {
			t.Fatalf("random isometry not valid: %v", tf)
		}
	}
}

func TestAxisAngleZeroAxis(t *testing.T) {
	if !Rotation(mgl64.Vec3{}, 1.0).IsIdentity(eps) {
		t.Error("zero axis should give identity")
	}
}

func TestRPYMatchesAxisAngle(t *testing.T) {
	tests := []struct {
		name             string
		roll, pitch, yaw float64
		axis             mgl64.Vec3
		angle            float64
	}{
		{"roll", 0.3, 0, 0, mgl64.Vec3{1, 0, 0}, 0.3},
		{"pitch", 0, -0.7, 0, mgl64.Vec3{0, 1, 0}, -0.7},
		{"yaw", 0, 0, 1.1, mgl64.Vec3{0, 0, 1}, 1.1},
	}
	for _, tt := range tests {
		got := NewIsometry(RPY(tt.roll, tt.pitch, tt.yaw), mgl64.Vec3{})
		want := Rotation(tt.axis, tt.angle)
		if !got.ApproxEqual(want, 1e-9) {
			t.Errorf("%s: expected %v, got %v", tt.name, want, got)
		}
	}
}

func TestAdInvTMatchesAdOfInverse(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		tf := randomIsometry(r)
		v := randomVec6(r)

		fast := AdInvT(tf, v)
		slow := AdT(tf.Inverse(), v)
		if !fast.ApproxEqual(slow, 1e-9) {
			t.Fatalf("AdInvT mismatch: %v vs %v", fast, slow)
		}
		if !AdT(tf, fast).ApproxEqual(v, 1e-9) {
			t.Fatalf("AdT(AdInvT(v)) != v")
		}
	}
}

func TestAdjointMatrixMatchesAdT(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		tf := randomIsometry(r)
		v := randomVec6(r)
		if !AdjointMatrix(tf).MulVec(v).ApproxEqual(AdT(tf, v), 1e-9) {
			t.Fatalf("matrix form disagrees with AdT")
		}
	}
}

func TestAdjointComposition(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	a, b := randomIsometry(r), randomIsometry(r)
	v := randomVec6(r)

	got := AdT(a, AdT(b, v))
	want := AdT(a.Mul(b), v)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Ad(a)Ad(b) != Ad(ab): %v vs %v", got, want)
	}
}

func TestAdRPreservesNorms(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	tf := randomIsometry(r)
	v := randomVec6(r)

	got := AdR(tf, v)
	if math.Abs(got.Angular.Len()-v.Angular.Len()) > 1e-9 || math.Abs(got.Linear.Len()-v.Linear.Len()) > 1e-9 {
		t.Error("AdR changed vector lengths")
	}
	if !AdInvR(tf, got).ApproxEqual(v, 1e-9) {
		t.Error("AdInvR does not undo AdR")
	}
}

func TestAdCrossProduct(t *testing.T) {
	v := NewVec6(0, 0, 1, 0, 1, 0)
	if !Ad(v, v).IsZero() {
		t.Errorf("ad(v, v) should be zero, got %v", Ad(v, v))
	}

	a := NewVec6(0, 0, 2, 0, 0, 0)
	b := NewVec6(0, 0, 0, 1, 0, 0)
	want := NewVec6(0, 0, 0, 0, 2, 0)
	if !Ad(a, b).ApproxEqual(want, eps) {
		t.Errorf("expected %v, got %v", want, Ad(a, b))
	}
}

func TestOffsetVelocity(t *testing.T) {
	v := NewVec6(0, 0, 1, 1, 0, 0)
	got := OffsetVelocity(v, mgl64.Vec3{1, 0, 0})
	want := NewVec6(0, 0, 1, 1, 1, 0)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestClassicLinearAcceleration(t *testing.T) {
	// point circling the z axis at radius 1, unit speed
	v := NewVec6(0, 0, 1, 0, 1, 0)
	got := ClassicLinearAcceleration(Zero6(), v)
	if !Vec3ApproxEqual(got, mgl64.Vec3{-1, 0, 0}, eps) {
		t.Errorf("expected centripetal (-1,0,0), got %v", got)
	}
}

func TestVec6Helpers(t *testing.T) {
	v := Vec6FromSlice([]float64{1, 2, 3})
	if v.Linear != (mgl64.Vec3{}) || v.Angular != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("unexpected short-slice parse: %v", v)
	}
	if !v.Sub(v).IsZero() {
		t.Error("v - v should be zero")
	}
	if v.Add(v.Neg()).Norm() != 0 {
		t.Error("v + (-v) should have zero norm")
	}
	bad := NewVec6(math.NaN(), 0, 0, 0, 0, 0)
	if bad.IsValid() {
		t.Error("NaN vector reported valid")
	}
}
