package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/spatial"
)

// Cross-frame queries. A result "relative to R, in coordinates of C" is the
// motion of f's origin (or of a point rigidly attached to f) as seen by an
// observer fixed to R, with both halves rotated into C. nil selects World for
// either argument.

// expressIn rotates a vector given in f's coordinates into in's coordinates.
func (f *Frame) expressIn(v spatial.Vec6, in *Frame) spatial.Vec6 {
	if in == f {
		return v
	}
	return spatial.AdR(f.Transform(in), v)
}

func (f *Frame) SpatialVelocityIn(inCoordinatesOf *Frame) spatial.Vec6 {
	return f.SpatialVelocityRelative(nil, inCoordinatesOf)
}

func (f *Frame) SpatialVelocityRelative(relativeTo, inCoordinatesOf *Frame) spatial.Vec6 {
	rel, in := orWorld(relativeTo), orWorld(inCoordinatesOf)
	if f == rel {
		return spatial.Zero6()
	}
	v := f.SpatialVelocity()
	if !rel.isWorld {
		v = v.Sub(spatial.AdT(rel.Transform(f), rel.SpatialVelocity()))
	}
	return f.expressIn(v, in)
}

// PointSpatialVelocity is the velocity relative to World, in f's
// coordinates, of the point at offset (in f's coordinates).
func (f *Frame) PointSpatialVelocity(offset mgl64.Vec3) spatial.Vec6 {
	return spatial.OffsetVelocity(f.SpatialVelocity(), offset)
}

func (f *Frame) PointSpatialVelocityRelative(offset mgl64.Vec3, relativeTo, inCoordinatesOf *Frame) spatial.Vec6 {
	rel, in := orWorld(relativeTo), orWorld(inCoordinatesOf)
	if f == rel {
		return spatial.Zero6()
	}
	v := spatial.OffsetVelocity(f.SpatialVelocityRelative(rel, f), offset)
	return f.expressIn(v, in)
}

// LinearVelocity is the classical velocity of f's origin.
func (f *Frame) LinearVelocity(relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	return f.SpatialVelocityRelative(relativeTo, inCoordinatesOf).Linear
}

func (f *Frame) PointLinearVelocity(offset mgl64.Vec3, relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	return f.PointSpatialVelocityRelative(offset, relativeTo, inCoordinatesOf).Linear
}

func (f *Frame) AngularVelocity(relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	return f.SpatialVelocityRelative(relativeTo, inCoordinatesOf).Angular
}

func (f *Frame) SpatialAccelerationIn(inCoordinatesOf *Frame) spatial.Vec6 {
	return f.SpatialAccelerationRelative(nil, inCoordinatesOf)
}

// SpatialAccelerationRelative is the time derivative, taken in f, of
// SpatialVelocityRelative(relativeTo, f), rotated into inCoordinatesOf.
func (f *Frame) SpatialAccelerationRelative(relativeTo, inCoordinatesOf *Frame) spatial.Vec6 {
	rel, in := orWorld(relativeTo), orWorld(inCoordinatesOf)
	if f == rel {
		return spatial.Zero6()
	}
	a := f.SpatialAcceleration()
	if !rel.isWorld {
		tf := rel.Transform(f)
		a = a.Sub(spatial.AdT(tf, rel.SpatialAcceleration())).
			Add(spatial.Ad(f.SpatialVelocity(), spatial.AdT(tf, rel.SpatialVelocity())))
	}
	return f.expressIn(a, in)
}

func (f *Frame) PointSpatialAcceleration(offset mgl64.Vec3) spatial.Vec6 {
	return spatial.OffsetVelocity(f.SpatialAcceleration(), offset)
}

func (f *Frame) PointSpatialAccelerationRelative(offset mgl64.Vec3, relativeTo, inCoordinatesOf *Frame) spatial.Vec6 {
	rel, in := orWorld(relativeTo), orWorld(inCoordinatesOf)
	if f == rel {
		return spatial.Zero6()
	}
	a := spatial.OffsetVelocity(f.SpatialAccelerationRelative(rel, f), offset)
	return f.expressIn(a, in)
}

// LinearAcceleration is the classical acceleration of f's origin, which
// adds the w x v term to the spatial linear part.
func (f *Frame) LinearAcceleration(relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	return f.PointLinearAcceleration(mgl64.Vec3{}, relativeTo, inCoordinatesOf)
}

func (f *Frame) PointLinearAcceleration(offset mgl64.Vec3, relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	rel, in := orWorld(relativeTo), orWorld(inCoordinatesOf)
	if f == rel {
		return mgl64.Vec3{}
	}
	a := spatial.OffsetVelocity(f.SpatialAccelerationRelative(rel, f), offset)
	v := spatial.OffsetVelocity(f.SpatialVelocityRelative(rel, f), offset)
	lin := spatial.ClassicLinearAcceleration(a, v)
	if in == f {
		return lin
	}
	return f.Transform(in).ApplyVector(lin)
}

func (f *Frame) AngularAcceleration(relativeTo, inCoordinatesOf *Frame) mgl64.Vec3 {
	return f.SpatialAccelerationRelative(relativeTo, inCoordinatesOf).Angular
}
