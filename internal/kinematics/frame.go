package kinematics

import (
	"slices"

	"github.com/san-kum/kinframe/internal/spatial"
)

// RelativeKinematics is the motion of a frame relative to its parent. All
// vectors are expressed in the frame's own coordinates.
//
// Implementations must satisfy
//
//	RelativeSpatialAcceleration() == PrimaryRelativeAcceleration() + PartialAcceleration()
//
// and must call the owning frame's Notify*Update methods whenever a returned
// value changes.
type RelativeKinematics interface {
	RelativeTransform() spatial.Isometry
	RelativeSpatialVelocity() spatial.Vec6
	RelativeSpatialAcceleration() spatial.Vec6
	// PrimaryRelativeAcceleration is the part linear in joint accelerations.
	PrimaryRelativeAcceleration() spatial.Vec6
	// PartialAcceleration is the velocity-product (bias) part.
	PartialAcceleration() spatial.Vec6
}

// ChildObserver is notified when entities join or leave a frame.
type ChildObserver interface {
	ProcessNewEntity(e *Entity)
	ProcessRemovedEntity(e *Entity)
}

// Frame is an entity with its own coordinate system. It caches its world
// pose, spatial velocity and spatial acceleration.
type Frame struct {
	Entity

	rel      RelativeKinematics
	observer ChildObserver

	worldTransform spatial.Isometry
	velocity       spatial.Vec6
	acceleration   spatial.Vec6

	// childFrames is the subset of childEntities that are frames.
	childEntities []*Entity
	childFrames   []*Frame

	isWorld bool
}

// NewFrame creates a frame under parent (nil means World) whose relative
// motion is supplied by rel. Concrete types usually pass themselves.
func NewFrame(parent *Frame, name string, rel RelativeKinematics) *Frame {
	if rel == nil {
		panic("kinematics: NewFrame requires RelativeKinematics")
	}
	f := &Frame{rel: rel, worldTransform: spatial.Identity()}
	f.Entity = Entity{name: name, frame: f}
	f.markStale()
	f.attach(orWorld(parent))
	return f
}

func orWorld(f *Frame) *Frame {
	if f == nil {
		return World()
	}
	return f
}

func (f *Frame) IsWorld() bool { return f.isWorld }

func (f *Frame) SetChildObserver(o ChildObserver) { f.observer = o }

func (f *Frame) RelativeTransform() spatial.Isometry   { return f.rel.RelativeTransform() }
func (f *Frame) RelativeSpatialVelocity() spatial.Vec6 { return f.rel.RelativeSpatialVelocity() }
func (f *Frame) RelativeSpatialAcceleration() spatial.Vec6 {
	return f.rel.RelativeSpatialAcceleration()
}
func (f *Frame) PrimaryRelativeAcceleration() spatial.Vec6 {
	return f.rel.PrimaryRelativeAcceleration()
}
func (f *Frame) PartialAcceleration() spatial.Vec6 { return f.rel.PartialAcceleration() }

// WorldTransform returns the pose of the frame in World coordinates.
func (f *Frame) WorldTransform() spatial.Isometry {
	if f.isWorld {
		return spatial.Identity()
	}
	if f.needTransformUpdate {
		f.worldTransform = f.parentWorldTransform().Mul(f.rel.RelativeTransform())
		f.needTransformUpdate = false
	}
	return f.worldTransform
}

// Transform returns the pose of f expressed in withRespectTo (nil means World).
func (f *Frame) Transform(withRespectTo *Frame) spatial.Isometry {
	wrt := orWorld(withRespectTo)
	switch {
	case wrt.isWorld:
		return f.WorldTransform()
	case wrt == f:
		return spatial.Identity()
	case wrt == f.parent:
		return f.rel.RelativeTransform()
	}
	return wrt.WorldTransform().Inverse().Mul(f.WorldTransform())
}

// SpatialVelocity returns the velocity of f relative to World, in f's
// coordinates.
func (f *Frame) SpatialVelocity() spatial.Vec6 {
	if f.isWorld {
		return spatial.Zero6()
	}
	if f.needVelocityUpdate {
		f.velocity = spatial.AdInvT(f.rel.RelativeTransform(), f.parentVelocity()).
			Add(f.rel.RelativeSpatialVelocity())
		f.needVelocityUpdate = false
	}
	return f.velocity
}

// SpatialAcceleration returns the acceleration of f relative to World, in
// f's coordinates.
func (f *Frame) SpatialAcceleration() spatial.Vec6 {
	if f.isWorld {
		return spatial.Zero6()
	}
	if f.needAccelerationUpdate {
		f.acceleration = spatial.AdInvT(f.rel.RelativeTransform(), f.parentAcceleration()).
			Add(f.rel.PrimaryRelativeAcceleration()).
			Add(f.rel.PartialAcceleration())
		f.needAccelerationUpdate = false
	}
	return f.acceleration
}

// A detached frame acts as its own root: identity pose, no parent motion.
func (f *Frame) parentWorldTransform() spatial.Isometry {
	if f.parent == nil {
		return spatial.Identity()
	}
	return f.parent.WorldTransform()
}

func (f *Frame) parentVelocity() spatial.Vec6 {
	if f.parent == nil {
		return spatial.Zero6()
	}
	return f.parent.SpatialVelocity()
}

func (f *Frame) parentAcceleration() spatial.Vec6 {
	if f.parent == nil {
		return spatial.Zero6()
	}
	return f.parent.SpatialAcceleration()
}

// ChildEntities returns the direct children in attachment order.
func (f *Frame) ChildEntities() []*Entity { return slices.Clone(f.childEntities) }

// ChildFrames returns the direct children that are frames, in attachment order.
func (f *Frame) ChildFrames() []*Frame { return slices.Clone(f.childFrames) }

func (f *Frame) NumChildEntities() int { return len(f.childEntities) }
func (f *Frame) NumChildFrames() int   { return len(f.childFrames) }

// IsAncestorOf reports whether f lies strictly above o in the tree.
func (f *Frame) IsAncestorOf(o *Frame) bool {
	if o == nil {
		return false
	}
	n := o.depth() - f.depth()
	if n <= 0 {
		return false
	}
	p := o
	for ; n > 0; n-- {
		p = p.parent
	}
	return p == f
}

// depth is the number of edges between f and its root.
func (f *Frame) depth() int {
	d := 0
	for p := f.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

func (f *Frame) addChild(e *Entity) {
	f.childEntities = append(f.childEntities, e)
	if e.frame != nil {
		f.childFrames = append(f.childFrames, e.frame)
	}
}

func (f *Frame) removeChild(e *Entity) {
	if i := slices.Index(f.childEntities, e); i >= 0 {
		f.childEntities = slices.Delete(f.childEntities, i, i+1)
	}
	if e.frame != nil {
		if i := slices.Index(f.childFrames, e.frame); i >= 0 {
			f.childFrames = slices.Delete(f.childFrames, i, i+1)
		}
	}
}

func (f *Frame) processNewEntity(e *Entity) {
	if f.observer != nil {
		f.observer.ProcessNewEntity(e)
	}
}

func (f *Frame) processRemovedEntity(e *Entity) {
	if f.observer != nil {
		f.observer.ProcessRemovedEntity(e)
	}
}
