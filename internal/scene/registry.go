package scene

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/kinematics"
	"github.com/san-kum/kinframe/internal/motion"
	"github.com/san-kum/kinframe/internal/spatial"
)

// FrameBuilder creates the frame described by fc under parent.
type FrameBuilder func(parent *kinematics.Frame, fc config.FrameConfig) (*Node, error)

// MotionBuilder creates a joint motion.
type MotionBuilder func(mc config.MotionConfig, log *zap.Logger) (motion.Motion, error)

type Registry struct {
	frames  map[string]FrameBuilder
	motions map[string]MotionBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		frames:  make(map[string]FrameBuilder),
		motions: make(map[string]MotionBuilder),
	}

	r.frames[config.FrameFixed] = buildSimple
	r.frames[config.FrameSimple] = buildSimple
	r.frames[config.FrameRevolute] = buildJoint(kinematics.NewRevoluteFrame)
	r.frames[config.FramePrismatic] = buildJoint(kinematics.NewPrismaticFrame)

	for _, kind := range []string{motion.KindConstant, motion.KindRamp, motion.KindSine} {
		r.motions[kind] = analyticMotion
	}
	r.motions[motion.KindLua] = func(mc config.MotionConfig, log *zap.Logger) (motion.Motion, error) {
		if mc.ScriptFile != "" {
			return motion.NewLuaFile(mc.ScriptFile, mc.Params, log)
		}
		return motion.NewLua(mc.Script, mc.Params, log)
	}

	return r
}

func (r *Registry) RegisterFrame(kind string, b FrameBuilder)   { r.frames[kind] = b }
func (r *Registry) RegisterMotion(kind string, b MotionBuilder) { r.motions[kind] = b }

func (r *Registry) frameBuilder(kind string) (FrameBuilder, error) {
	if kind == "" {
		kind = config.FrameFixed
	}
	fn, ok := r.frames[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFrameType, kind)
	}
	return fn, nil
}

func (r *Registry) motion(mc *config.MotionConfig, log *zap.Logger) (motion.Motion, error) {
	if mc == nil {
		return motion.Constant{}, nil
	}
	kind := mc.Kind
	if kind == "" {
		kind = motion.KindConstant
	}
	fn, ok := r.motions[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", motion.ErrUnknownKind, kind)
	}
	return fn(*mc, log)
}

func (r *Registry) FrameTypes() []string {
	names := make([]string, 0, len(r.frames))
	for name := range r.frames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func analyticMotion(mc config.MotionConfig, _ *zap.Logger) (motion.Motion, error) {
	return motion.New(mc.Kind, motion.Params{
		Value:        mc.Value,
		Velocity:     mc.Velocity,
		Acceleration: mc.Acceleration,
		Amplitude:    mc.Amplitude,
		Frequency:    mc.Frequency,
		Phase:        mc.Phase,
		Offset:       mc.Offset,
	})
}

func buildSimple(parent *kinematics.Frame, fc config.FrameConfig) (*Node, error) {
	sf := kinematics.NewSimpleFrame(parent, fc.Name, pose(&fc.PoseConfig))
	if len(fc.Velocity) > 0 {
		sf.SetRelativeSpatialVelocity(spatial.Vec6FromSlice(fc.Velocity), nil)
	}
	if len(fc.Acceleration) > 0 {
		sf.SetRelativeSpatialAcceleration(spatial.Vec6FromSlice(fc.Acceleration), nil)
	}
	return &Node{Config: fc, Frame: sf.Frame, Simple: sf}, nil
}

type jointCtor func(parent *kinematics.Frame, name string, axis mgl64.Vec3, parentToJoint, childToJoint spatial.Isometry) *kinematics.JointFrame

// buildJoint uses the inline pose as the parent offset when parent_offset
// is absent.
func buildJoint(ctor jointCtor) FrameBuilder {
	return func(parent *kinematics.Frame, fc config.FrameConfig) (*Node, error) {
		parentOffset := fc.ParentOffset
		if parentOffset == nil {
			parentOffset = &fc.PoseConfig
		}
		jf := ctor(parent, fc.Name, vec3(fc.Axis), pose(parentOffset), pose(fc.ChildOffset))
		return &Node{Config: fc, Frame: jf.Frame, Joint: jf}, nil
	}
}
