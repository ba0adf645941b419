package kinematics

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kinframe/internal/spatial"
)

type countingListener struct {
	transform, velocity, acceleration int
}

func (c *countingListener) TransformUpdated()    { c.transform++ }
func (c *countingListener) VelocityUpdated()     { c.velocity++ }
func (c *countingListener) AccelerationUpdated() { c.acceleration++ }

type recordingObserver struct {
	added, removed []string
}

func (r *recordingObserver) ProcessNewEntity(e *Entity)     { r.added = append(r.added, e.Name()) }
func (r *recordingObserver) ProcessRemovedEntity(e *Entity) { r.removed = append(r.removed, e.Name()) }

// cleanup detaches the given roots from World when the test ends.
func cleanup(t *testing.T, roots ...*Frame) {
	t.Helper()
	t.Cleanup(func() {
		for _, f := range roots {
			_ = f.Destroy()
		}
	})
}

func translated(x, y, z float64) spatial.Isometry {
	return spatial.Translation(mgl64.Vec3{x, y, z})
}

// chain builds World -> a -> b -> c with unit offsets along x, y, z.
func chain(t *testing.T) (a, b, c *SimpleFrame) {
	t.Helper()
	a = NewSimpleFrame(nil, "a", translated(1, 0, 0))
	b = NewSimpleFrame(a.Frame, "b", translated(0, 1, 0))
	c = NewSimpleFrame(b.Frame, "c", translated(0, 0, 1))
	cleanup(t, a.Frame)
	return a, b, c
}

func TestNewFrameAttachesToParent(t *testing.T) {
	a, b, c := chain(t)

	assert.Same(t, World(), a.Parent())
	assert.Same(t, a.Frame, b.Parent())
	assert.Same(t, b.Frame, c.Parent())

	assert.Contains(t, a.ChildFrames(), b.Frame)
	assert.Contains(t, a.ChildEntities(), &b.Entity)
	assert.Contains(t, World().ChildFrames(), a.Frame)
	assert.Equal(t, 1, a.depth())
	assert.Equal(t, 3, c.depth())

	assert.True(t, a.IsAncestorOf(c.Frame))
	assert.True(t, World().IsAncestorOf(c.Frame))
	assert.False(t, c.IsAncestorOf(a.Frame))
	assert.False(t, b.IsAncestorOf(b.Frame))
	assert.False(t, a.IsAncestorOf(nil))
}

func TestLeafEntityIsNotAChildFrame(t *testing.T) {
	a, _, _ := chain(t)
	marker := NewEntity(a.Frame, "marker")

	assert.False(t, marker.IsFrame())
	assert.Nil(t, marker.Frame())
	assert.Equal(t, 2, a.NumChildEntities())
	assert.Equal(t, 1, a.NumChildFrames())
	assert.True(t, marker.NeedsTransformUpdate())
}

func TestNilParentMeansWorld(t *testing.T) {
	f := NewSimpleFrame(nil, "orphan", spatial.Identity())
	cleanup(t, f.Frame)

	assert.Same(t, World(), f.Parent())
	e := NewEntity(nil, "leaf")
	t.Cleanup(func() { _ = e.Destroy() })
	assert.Same(t, World(), e.Parent())
}

func TestReparentMovesChildSets(t *testing.T) {
	a, b, c := chain(t)

	require.NoError(t, c.Reparent(a.Frame))

	assert.Same(t, a.Frame, c.Parent())
	assert.NotContains(t, b.ChildFrames(), c.Frame)
	assert.NotContains(t, b.ChildEntities(), &c.Entity)
	assert.Contains(t, a.ChildFrames(), c.Frame)
	assert.Equal(t, 0, b.NumChildEntities())
}

func TestReparentToSameParentIsNoop(t *testing.T) {
	a, b, _ := chain(t)
	_ = b.WorldTransform()
	obs := &recordingObserver{}
	a.SetChildObserver(obs)

	require.NoError(t, b.Reparent(a.Frame))

	assert.False(t, b.NeedsTransformUpdate())
	assert.Empty(t, obs.added)
}

func TestReparentRejectsCycles(t *testing.T) {
	a, b, c := chain(t)
	before := c.WorldTransform()

	tests := []struct {
		name   string
		target *Frame
	}{
		{"self", a.Frame},
		{"child", b.Frame},
		{"grandchild", c.Frame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Reparent(tt.target)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrWouldCycle))

			var gerr *GraphError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, "a", gerr.Entity)
			assert.Equal(t, "reparent", gerr.Op)
		})
	}

	assert.Same(t, World(), a.Parent())
	assert.True(t, c.WorldTransform().ApproxEqual(before, 1e-12))
}

func TestWorldIsImmutable(t *testing.T) {
	a, _, _ := chain(t)
	w := World()

	err := w.Reparent(a.Frame)
	assert.True(t, errors.Is(err, ErrIllegalOperation))
	assert.Nil(t, w.Parent())

	err = w.Destroy()
	assert.True(t, errors.Is(err, ErrIllegalOperation))

	w.NotifyTransformUpdate()
	assert.False(t, w.NeedsTransformUpdate())
	assert.False(t, w.NeedsVelocityUpdate())
	assert.False(t, w.NeedsAccelerationUpdate())
	assert.True(t, w.WorldTransform().IsIdentity(0))
	assert.True(t, w.SpatialVelocity().IsZero())
	assert.True(t, w.SpatialAcceleration().IsZero())
	assert.True(t, w.IsWorld())
	assert.Same(t, w, World())
}

func TestReparentCallsHooks(t *testing.T) {
	a, b, c := chain(t)
	oldObs, newObs := &recordingObserver{}, &recordingObserver{}
	b.SetChildObserver(oldObs)
	a.SetChildObserver(newObs)

	require.NoError(t, c.Reparent(a.Frame))

	assert.Equal(t, []string{"c"}, oldObs.removed)
	assert.Equal(t, []string{"c"}, newObs.added)
	assert.Empty(t, oldObs.added)
	assert.Empty(t, newObs.removed)
}

func TestReparentMarksAllCachesStale(t *testing.T) {
	a, _, c := chain(t)
	_ = c.WorldTransform()
	_ = c.SpatialVelocity()
	_ = c.SpatialAcceleration()
	require.False(t, c.NeedsTransformUpdate())

	require.NoError(t, c.Reparent(a.Frame))

	assert.True(t, c.NeedsTransformUpdate())
	assert.True(t, c.NeedsVelocityUpdate())
	assert.True(t, c.NeedsAccelerationUpdate())
	assert.True(t, spatial.Vec3ApproxEqual(c.WorldTransform().Translation, mgl64.Vec3{1, 0, 1}, 1e-12))
}

func TestNotifyIsIdempotent(t *testing.T) {
	a, b, c := chain(t)
	_ = c.WorldTransform()
	_ = c.SpatialVelocity()
	_ = c.SpatialAcceleration()

	lb, lc := &countingListener{}, &countingListener{}
	b.SetUpdateListener(lb)
	c.SetUpdateListener(lc)

	a.NotifyTransformUpdate()
	a.NotifyTransformUpdate()

	for _, l := range []*countingListener{lb, lc} {
		assert.Equal(t, 1, l.transform)
		assert.Equal(t, 1, l.velocity)
		assert.Equal(t, 1, l.acceleration)
	}
}

func TestNotifyImplications(t *testing.T) {
	a, b, _ := chain(t)
	clean := func() {
		_ = b.WorldTransform()
		_ = b.SpatialVelocity()
		_ = b.SpatialAcceleration()
	}

	clean()
	a.NotifyAccelerationUpdate()
	assert.False(t, b.NeedsTransformUpdate())
	assert.False(t, b.NeedsVelocityUpdate())
	assert.True(t, b.NeedsAccelerationUpdate())

	clean()
	a.NotifyVelocityUpdate()
	assert.False(t, b.NeedsTransformUpdate())
	assert.True(t, b.NeedsVelocityUpdate())
	assert.True(t, b.NeedsAccelerationUpdate())

	clean()
	a.NotifyTransformUpdate()
	assert.True(t, b.NeedsTransformUpdate())
	assert.True(t, b.NeedsVelocityUpdate())
	assert.True(t, b.NeedsAccelerationUpdate())
}

func TestPoseChangeRestalesCleanVelocity(t *testing.T) {
	a, b, _ := chain(t)
	a.SetRelativeSpatialVelocity(spatial.NewVec6(0, 0, 1, 0, 0, 0), nil)

	a.SetRelativeTransform(translated(1, 0, 0))
	v1 := b.SpatialVelocity()
	require.True(t, a.NeedsTransformUpdate())

	// velocity was refreshed while the pose stayed stale
	a.SetRelativeTransform(spatial.Rotation(mgl64.Vec3{0, 0, 1}, 0.5))
	assert.True(t, b.NeedsVelocityUpdate())
	assert.True(t, b.SpatialVelocity().ApproxEqual(v1, 1e-12))
}

func TestDestroyLeavesChildrenAttached(t *testing.T) {
	a, b, c := chain(t)
	obs := &recordingObserver{}
	a.SetChildObserver(obs)

	require.NoError(t, b.Destroy())

	assert.Nil(t, b.Parent())
	assert.NotContains(t, a.ChildFrames(), b.Frame)
	assert.Equal(t, []string{"b"}, obs.removed)
	assert.Same(t, b.Frame, c.Parent())

	// b is now its own root.
	got := c.WorldTransform().Translation
	assert.True(t, spatial.Vec3ApproxEqual(got, mgl64.Vec3{0, 1, 1}, 1e-12), "got %v", got)

	require.NoError(t, b.Destroy())
	require.NoError(t, b.Reparent(nil))
	assert.True(t, spatial.Vec3ApproxEqual(c.WorldTransform().Translation, mgl64.Vec3{0, 1, 1}, 1e-12))
	cleanup(t, b.Frame)
}

func TestNewFramePanicsWithoutKinematics(t *testing.T) {
	assert.Panics(t, func() { NewFrame(nil, "bad", nil) })
}
