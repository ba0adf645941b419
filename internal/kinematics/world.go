package kinematics

import (
	"sync"

	"github.com/san-kum/kinframe/internal/spatial"
)

// WorldName is the name of the root frame.
const WorldName = "world"

var (
	worldOnce  sync.Once
	worldFrame *Frame
)

// World returns the process-wide root frame.
func World() *Frame {
	worldOnce.Do(func() {
		f := &Frame{
			rel:            worldKinematics{},
			worldTransform: spatial.Identity(),
			isWorld:        true,
		}
		f.Entity = Entity{name: WorldName, frame: f}
		worldFrame = f
	})
	return worldFrame
}

type worldKinematics struct{}

func (worldKinematics) RelativeTransform() spatial.Isometry       { return spatial.Identity() }
func (worldKinematics) RelativeSpatialVelocity() spatial.Vec6     { return spatial.Zero6() }
func (worldKinematics) RelativeSpatialAcceleration() spatial.Vec6 { return spatial.Zero6() }
func (worldKinematics) PrimaryRelativeAcceleration() spatial.Vec6 { return spatial.Zero6() }
func (worldKinematics) PartialAcceleration() spatial.Vec6         { return spatial.Zero6() }
