package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/scene"
)

// Skeleton links every frame origin of sc to its parent's origin and
// draws a short axis triad of length axisLen at each frame.
func Skeleton(sc *scene.Scene, axisLen float64) *Wireframe {
	w := NewWireframe()
	for _, n := range sc.Nodes() {
		pose := n.Frame.WorldTransform()
		origin := pose.Translation
		if p := n.Frame.Parent(); p != nil {
			w.AddEdge(p.WorldTransform().Translation, origin)
		}
		if axisLen > 0 {
			for i := 0; i < 3; i++ {
				w.AddEdge(origin, origin.Add(pose.Rotation.Col(i).Mul(axisLen)))
			}
		}
	}
	return w
}

// TrackPoint is the world position of a track's point.
func TrackPoint(tr scene.Track) mgl64.Vec3 {
	return tr.Frame.WorldTransform().Apply(tr.Offset)
}

// Trail joins consecutive points.
func Trail(points []mgl64.Vec3) *Wireframe {
	w := NewWireframe()
	for i := 1; i < len(points); i++ {
		w.AddEdge(points[i-1], points[i])
	}
	if len(points) == 1 {
		w.AddPoint(points[0])
	}
	return w
}
