package viz

import (
	"fmt"
	"math"
	"strings"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// WireframeSVG projects w through cam onto a width x height image.
func WireframeSVG(w *Wireframe, cam *Camera, width, height int, stroke string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<g stroke=%q stroke-width="1.5" fill=%q>`+"\n", stroke, stroke))

	rot := cam.rotation()
	for _, e := range w.Edges {
		x1, y1, _, v1 := cam.project(rot, e.Start, width, height)
		x2, y2, _, v2 := cam.project(rot, e.End, width, height)
		if !v1 && !v2 {
			continue
		}
		if x1 == x2 && y1 == y2 {
			sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="2"/>`+"\n", x1, y1))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", x1, y1, x2, y2))
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectorySVG draws xs against ys as one path scaled to fit.
func TrajectorySVG(xs, ys []float64, width, height int, stroke string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke=%q stroke-width="1.5" d="M`, stroke))
	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
