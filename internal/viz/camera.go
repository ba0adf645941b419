package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects world points onto a canvas. The view looks down the
// camera z axis after applying RotX, RotY and RotZ to the scene.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, Near: 0.1, RotX: -1.1, RotZ: -0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(100, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.2) }

// Fit sets the zoom so a sphere of the given radius fills the view.
func (c *Camera) Fit(radius float64) {
	c.Zoom = 1.2 / math.Max(radius, 0.1)
}

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.RotX).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DZ(c.RotZ))
}

// Project maps p to dot coordinates on an sw x sh area. It reports the
// depth and whether the point lands on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	return c.project(c.rotation(), p, sw, sh)
}

func (c *Camera) project(rot mgl64.Mat3, p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	q := rot.Mul3x1(p).Mul(c.Zoom)
	if q.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - q.Z())
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(math.Round(q.X()*scale*pScale)) + sw/2
	sy := int(math.Round(-q.Y()*scale*pScale)) + sh/2
	return sx, sy, q.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }
func (w *Wireframe) Append(o *Wireframe)     { w.Edges = append(w.Edges, o.Edges...) }

// Radius is the largest distance of any edge end from the origin.
func (w *Wireframe) Radius() float64 {
	r := 0.0
	for _, e := range w.Edges {
		r = math.Max(r, math.Max(e.Start.Len(), e.End.Len()))
	}
	return r
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render draws the wireframe back to front.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	rot := cam.rotation()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.project(rot, e.Start, cw, ch)
		x2, y2, d2, v2 := cam.project(rot, e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
