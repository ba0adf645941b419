package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/kinematics"
	"github.com/san-kum/kinframe/internal/motion"
)

var (
	ErrUnknownFrame     = errors.New("scene: unknown frame")
	ErrUnknownFrameType = errors.New("scene: unknown frame type")
)

// Node is one frame of a built scene. Exactly one of Simple and Joint is set.
type Node struct {
	Config config.FrameConfig
	Frame  *kinematics.Frame
	Simple *kinematics.SimpleFrame
	Joint  *kinematics.JointFrame
	Motion motion.Motion
}

func (n *Node) Name() string { return n.Frame.Name() }

// Kind is the configured frame type.
func (n *Node) Kind() string {
	if n.Config.Type == "" {
		return config.FrameFixed
	}
	return n.Config.Type
}

// Scene owns the frames built from a scene config. Its frames hang off
// World until Close.
type Scene struct {
	cfg     *config.Scene
	log     *zap.Logger
	nodes   []*Node
	byName  map[string]*Node
	byFrame map[*kinematics.Frame]*Node
	time    float64
}

// Build creates the frames of cfg with the default registry. A nil log
// discards output.
func Build(cfg *config.Scene, log *zap.Logger) (*Scene, error) {
	return NewRegistry().Build(cfg, log)
}

func (r *Registry) Build(cfg *config.Scene, log *zap.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{
		cfg:     cfg,
		log:     log,
		byName:  make(map[string]*Node, len(cfg.Frames)),
		byFrame: make(map[*kinematics.Frame]*Node, len(cfg.Frames)),
	}

	for _, fc := range cfg.Frames {
		if err := s.add(r, fc); err != nil {
			s.Close()
			return nil, fmt.Errorf("frame %q: %w", fc.Name, err)
		}
	}

	s.Apply(0)
	log.Info("scene built",
		zap.String("scene", cfg.Name),
		zap.Int("frames", len(s.nodes)),
		zap.Int("tracks", len(cfg.Tracks)))
	return s, nil
}

func (s *Scene) add(r *Registry, fc config.FrameConfig) error {
	build, err := r.frameBuilder(fc.Type)
	if err != nil {
		return err
	}
	parent, err := s.Frame(fc.Parent)
	if err != nil {
		return err
	}
	n, err := build(parent, fc)
	if err != nil {
		return err
	}
	if n.Joint != nil {
		n.Motion, err = r.motion(fc.Motion, s.log)
		if err != nil {
			_ = n.Frame.Destroy()
			return err
		}
	}
	s.nodes = append(s.nodes, n)
	s.byName[fc.Name] = n
	s.byFrame[n.Frame] = n

	s.log.Debug("built frame",
		zap.String("frame", fc.Name),
		zap.String("type", n.Kind()),
		zap.String("parent", parent.Name()))
	return nil
}

func (s *Scene) Config() *config.Scene { return s.cfg }
func (s *Scene) Nodes() []*Node        { return slices.Clone(s.nodes) }
func (s *Scene) Time() float64         { return s.time }

// Frame looks up a frame by name. An empty name or "world" is World.
func (s *Scene) Frame(name string) (*kinematics.Frame, error) {
	if name == "" || name == config.WorldName {
		return kinematics.World(), nil
	}
	n, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, name)
	}
	return n.Frame, nil
}

func (s *Scene) Node(name string) (*Node, bool) {
	n, ok := s.byName[name]
	return n, ok
}

// Apply drives every joint to its motion state at time t.
func (s *Scene) Apply(t float64) {
	s.time = t
	for _, n := range s.nodes {
		if n.Joint != nil && n.Motion != nil {
			n.Joint.SetState(n.Motion.Sample(t).Values())
		}
	}
}

// Walk visits the scene's frames depth-first in attachment order. prefix is
// the tree-drawing indent for the node.
func (s *Scene) Walk(fn func(n *Node, prefix string)) {
	var roots []*Node
	for _, n := range s.nodes {
		if p := n.Frame.Parent(); p == nil || p.IsWorld() {
			roots = append(roots, n)
		}
	}
	s.walk(roots, "", fn)
}

func (s *Scene) walk(nodes []*Node, indent string, fn func(*Node, string)) {
	for i, n := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		fn(n, indent+branch)

		var children []*Node
		for _, c := range n.Frame.ChildFrames() {
			if cn, ok := s.byFrame[c]; ok {
				children = append(children, cn)
			}
		}
		s.walk(children, indent+next, fn)
	}
}

// Summary is a one-line description of the node's current state.
func (n *Node) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", n.Name(), n.Kind())
	if n.Joint != nil {
		fmt.Fprintf(&b, " axis=%s q=%s dq=%s ddq=%s", fmtVec(n.Joint.Axis()),
			fmtNum(n.Joint.Position()), fmtNum(n.Joint.Velocity()), fmtNum(n.Joint.Acceleration()))
	}
	fmt.Fprintf(&b, " at %s", fmtVec(n.Frame.WorldTransform().Translation))
	return b.String()
}

// Describe writes the frame tree and tracks at the current time.
func (s *Scene) Describe(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d frames, %d tracks, dt=%g duration=%g, t=%s\n",
		s.cfg.Name, len(s.nodes), len(s.cfg.Tracks), s.cfg.Dt, s.cfg.Duration, fmtNum(s.time))
	b.WriteString(config.WorldName + "\n")
	s.Walk(func(n *Node, prefix string) {
		b.WriteString(prefix + n.Summary() + "\n")
	})
	if len(s.cfg.Tracks) > 0 {
		b.WriteString("tracks:\n")
		for _, t := range s.cfg.Tracks {
			b.WriteString("  " + describeTrack(t) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func describeTrack(t config.TrackConfig) string {
	s := t.Label() + ": " + t.Frame
	if len(t.Offset) > 0 {
		s += " + " + fmtVec(vec3(t.Offset))
	}
	if t.RelativeTo != "" {
		s += " relative to " + t.RelativeTo
	}
	if t.InCoordinatesOf != "" {
		s += " in " + t.InCoordinatesOf
	}
	return s
}

// Close destroys the scene's frames, children first, and releases motion
// resources. It is safe to call more than once.
func (s *Scene) Close() {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if c, ok := n.Motion.(interface{ Close() }); ok {
			c.Close()
		}
		if err := n.Frame.Destroy(); err != nil {
			s.log.Warn("destroy frame", zap.String("frame", n.Name()), zap.Error(err))
		}
	}
	s.nodes = nil
	clear(s.byName)
	clear(s.byFrame)
}

func fmtNum(v float64) string {
	if math.Abs(v) < 5e-5 {
		v = 0
	}
	return fmt.Sprintf("%.4f", v)
}

func fmtVec(v mgl64.Vec3) string {
	return "(" + fmtNum(v[0]) + ", " + fmtNum(v[1]) + ", " + fmtNum(v[2]) + ")"
}
