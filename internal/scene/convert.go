package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/spatial"
)

// vec3 reads an optional 3-vector; an empty slice is zero.
func vec3(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}

func rotation(r *config.RotationConfig) mgl64.Mat3 {
	switch {
	case r == nil:
		return mgl64.Ident3()
	case len(r.RPY) == 3:
		return spatial.RPY(r.RPY[0], r.RPY[1], r.RPY[2])
	}
	return spatial.AxisAngle(vec3(r.Axis), r.Angle)
}

func pose(p *config.PoseConfig) spatial.Isometry {
	if p == nil {
		return spatial.Identity()
	}
	return spatial.NewIsometry(rotation(p.Rotation), vec3(p.Translation))
}
