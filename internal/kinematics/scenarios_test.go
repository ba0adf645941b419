package kinematics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinframe/internal/kinematics"
	"github.com/san-kum/kinframe/internal/spatial"
)

func beClose(want mgl64.Vec3) OmegaMatcher {
	return WithTransform(func(got mgl64.Vec3) bool {
		return spatial.Vec3ApproxEqual(got, want, 1e-12)
	}, BeTrue())
}

var _ = Describe("Frame graph", func() {
	var a, b *kinematics.SimpleFrame

	BeforeEach(func() {
		a = kinematics.NewSimpleFrame(nil, "A", spatial.Identity())
		b = kinematics.NewSimpleFrame(a.Frame, "B", spatial.Identity())
		DeferCleanup(func() {
			_ = b.Destroy()
			_ = a.Destroy()
		})
	})

	Context("with a static two-link chain", func() {
		BeforeEach(func() {
			a.SetRelativeTranslation(mgl64.Vec3{1, 0, 0})
			b.SetRelativeTranslation(mgl64.Vec3{0, 1, 0})
		})

		It("composes translations into the world pose", func() {
			Expect(b.WorldTransform().Translation).To(beClose(mgl64.Vec3{1, 1, 0}))
		})

		It("expresses B relative to A", func() {
			Expect(b.Transform(a.Frame).Translation).To(beClose(mgl64.Vec3{0, 1, 0}))
		})
	})

	Context("with a rotating parent", func() {
		It("rotates the child offset", func() {
			a.SetRelativeTransform(spatial.Rotation(mgl64.Vec3{0, 0, 1}, math.Pi/2))
			b.SetRelativeTranslation(mgl64.Vec3{1, 0, 0})

			Expect(b.WorldTransform().Translation).To(beClose(mgl64.Vec3{0, 1, 0}))
		})
	})

	Context("when composing velocities", func() {
		BeforeEach(func() {
			b.SetRelativeSpatialVelocity(spatial.NewVec6(0, 0, 0, 1, 0, 0), nil)
		})

		It("passes the relative velocity through a static parent", func() {
			Expect(b.SpatialVelocity().Linear).To(beClose(mgl64.Vec3{1, 0, 0}))
			Expect(b.SpatialVelocity().Angular).To(beClose(mgl64.Vec3{}))
		})

		It("carries the parent's angular velocity", func() {
			_ = b.SpatialVelocity()
			a.SetRelativeSpatialVelocity(spatial.NewVec6(0, 0, 1, 0, 0, 0), nil)

			Expect(b.NeedsVelocityUpdate()).To(BeTrue())
			Expect(b.SpatialVelocity().Angular).To(beClose(mgl64.Vec3{0, 0, 1}))
			Expect(b.SpatialVelocity().Linear).To(beClose(mgl64.Vec3{1, 0, 0}))
			// w x v shows up in the classical acceleration of B's origin
			Expect(b.LinearAcceleration(nil, nil)).To(beClose(mgl64.Vec3{0, 1, 0}))
		})

		It("adds the lever-arm term for an offset child", func() {
			b.SetRelativeTranslation(mgl64.Vec3{0, 1, 0})
			a.SetRelativeSpatialVelocity(spatial.NewVec6(0, 0, 1, 0, 0, 0), nil)

			// w x r = z x y = -x, plus B's own (1,0,0)
			Expect(b.LinearVelocity(nil, nil)).To(beClose(mgl64.Vec3{0, 0, 0}))
		})
	})

	Context("when reparenting", func() {
		It("drops the cached world pose", func() {
			a.SetRelativeTranslation(mgl64.Vec3{5, 0, 0})
			b.SetRelativeTranslation(mgl64.Vec3{0, 2, 0})
			Expect(b.WorldTransform().Translation).To(beClose(mgl64.Vec3{5, 2, 0}))

			Expect(b.Reparent(kinematics.World())).To(Succeed())

			Expect(b.Parent()).To(BeIdenticalTo(kinematics.World()))
			Expect(b.WorldTransform().Translation).To(beClose(mgl64.Vec3{0, 2, 0}))
		})

		It("rejects cycles and leaves the tree unchanged", func() {
			c := kinematics.NewSimpleFrame(b.Frame, "C", spatial.Translation(mgl64.Vec3{0, 0, 1}))
			a.SetRelativeTranslation(mgl64.Vec3{1, 0, 0})
			before := c.WorldTransform()

			err := a.Reparent(c.Frame)

			Expect(err).To(MatchError(kinematics.ErrWouldCycle))
			Expect(a.Parent()).To(BeIdenticalTo(kinematics.World()))
			Expect(b.Parent()).To(BeIdenticalTo(a.Frame))
			Expect(c.Parent()).To(BeIdenticalTo(b.Frame))
			Expect(c.WorldTransform()).To(Equal(before))
		})
	})

	Context("with the world frame", func() {
		It("cannot be reparented", func() {
			err := kinematics.World().Reparent(a.Frame)

			Expect(err).To(MatchError(kinematics.ErrIllegalOperation))
			Expect(kinematics.World().Parent()).To(BeNil())
			Expect(a.Parent()).To(BeIdenticalTo(kinematics.World()))
			Expect(kinematics.World().ChildFrames()).To(ContainElement(a.Frame))
		})

		It("cannot be destroyed", func() {
			Expect(kinematics.World().Destroy()).To(MatchError(kinematics.ErrIllegalOperation))
		})
	})
})
