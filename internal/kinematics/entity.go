package kinematics

// UpdateListener lets a concrete type extend the dirty protocol, e.g. to drop
// caches derived from the world pose. Each method runs once per clean-to-stale
// transition, after the entity's own flag is set and before its children are
// visited.
type UpdateListener interface {
	TransformUpdated()
	VelocityUpdated()
	AccelerationUpdated()
}

// Entity is a leaf of the frame graph. It lives in exactly one parent frame.
type Entity struct {
	name   string
	parent *Frame

	// frame is set when this entity is the base of a Frame.
	frame    *Frame
	listener UpdateListener

	needTransformUpdate    bool
	needVelocityUpdate     bool
	needAccelerationUpdate bool
}

// NewEntity creates a leaf entity under parent. A nil parent means World.
func NewEntity(parent *Frame, name string) *Entity {
	e := &Entity{name: name}
	e.markStale()
	e.attach(orWorld(parent))
	return e
}

func (e *Entity) Name() string { return e.name }

// Parent returns the parent frame. It is nil for World and for destroyed
// entities.
func (e *Entity) Parent() *Frame { return e.parent }

// Frame returns the frame this entity is the base of, or nil for a leaf.
func (e *Entity) Frame() *Frame { return e.frame }

func (e *Entity) IsFrame() bool { return e.frame != nil }

func (e *Entity) SetUpdateListener(l UpdateListener) { e.listener = l }

func (e *Entity) NeedsTransformUpdate() bool    { return e.needTransformUpdate }
func (e *Entity) NeedsVelocityUpdate() bool     { return e.needVelocityUpdate }
func (e *Entity) NeedsAccelerationUpdate() bool { return e.needAccelerationUpdate }

func (e *Entity) isWorld() bool { return e.frame != nil && e.frame.isWorld }

func (e *Entity) markStale() {
	e.needTransformUpdate = true
	e.needVelocityUpdate = true
	e.needAccelerationUpdate = true
}

// Reparent moves the entity under newParent (nil means World). The graph is
// left unchanged when the move is rejected.
func (e *Entity) Reparent(newParent *Frame) error {
	newParent = orWorld(newParent)
	if e.isWorld() {
		return &GraphError{Op: "reparent", Entity: e.name, Parent: newParent.name, Wrapped: ErrIllegalOperation}
	}
	if newParent == e.parent {
		return nil
	}
	if e.frame != nil && (e.frame == newParent || e.frame.IsAncestorOf(newParent)) {
		return &GraphError{Op: "reparent", Entity: e.name, Parent: newParent.name, Wrapped: ErrWouldCycle}
	}

	old := e.parent
	if old != nil {
		old.removeChild(e)
	}
	e.parent = newParent
	newParent.addChild(e)

	e.NotifyTransformUpdate()

	newParent.processNewEntity(e)
	if old != nil {
		old.processRemovedEntity(e)
	}
	return nil
}

// Destroy detaches the entity from its parent. Children of a destroyed frame
// are left attached to it; the owner must reparent or destroy them.
func (e *Entity) Destroy() error {
	if e.isWorld() {
		return &GraphError{Op: "destroy", Entity: e.name, Wrapped: ErrIllegalOperation}
	}
	old := e.parent
	if old == nil {
		return nil
	}
	old.removeChild(e)
	e.parent = nil
	e.NotifyTransformUpdate()
	old.processRemovedEntity(e)
	return nil
}

func (e *Entity) attach(p *Frame) {
	e.parent = p
	p.addChild(e)
	p.processNewEntity(e)
}

// NotifyTransformUpdate marks the world pose stale for this entity and its
// descendants. Velocity and acceleration are invalidated too.
func (e *Entity) NotifyTransformUpdate() {
	if e.isWorld() {
		return
	}
	e.NotifyVelocityUpdate()
	if e.needTransformUpdate {
		return
	}
	e.needTransformUpdate = true
	if e.listener != nil {
		e.listener.TransformUpdated()
	}
	for _, c := range e.children() {
		c.NotifyTransformUpdate()
	}
}

// NotifyVelocityUpdate marks the spatial velocity stale for this entity and
// its descendants. Acceleration is invalidated too.
func (e *Entity) NotifyVelocityUpdate() {
	if e.isWorld() {
		return
	}
	e.NotifyAccelerationUpdate()
	if e.needVelocityUpdate {
		return
	}
	e.needVelocityUpdate = true
	if e.listener != nil {
		e.listener.VelocityUpdated()
	}
	for _, c := range e.children() {
		c.NotifyVelocityUpdate()
	}
}

func (e *Entity) NotifyAccelerationUpdate() {
	if e.isWorld() || e.needAccelerationUpdate {
		return
	}
	e.needAccelerationUpdate = true
	if e.listener != nil {
		e.listener.AccelerationUpdated()
	}
	for _, c := range e.children() {
		c.NotifyAccelerationUpdate()
	}
}

func (e *Entity) children() []*Entity {
	if e.frame == nil {
		return nil
	}
	return e.frame.childEntities
}
