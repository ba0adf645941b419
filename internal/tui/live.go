package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kinframe/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	trailLength = 60
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

type point struct{ x, y int }

// LiveRenderer draws the x-y plane of every track as sampling runs. Each
// track is plotted in its own coordinates, so positions are mixed only
// when the tracks share a reference frame.
type LiveRenderer struct {
	out       io.Writer
	title     string
	names     []string
	scale     float64
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trails    [][]point
}

// NewLiveRenderer plots points within scale of the origin. A frameRate of
// zero draws every step.
func NewLiveRenderer(out io.Writer, title string, names []string, scale float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if scale <= 0 {
		scale = 1
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		names:     names,
		scale:     scale,
		frameRate: frameRate,
		canvas:    canvas,
		trails:    make([][]point, len(names)),
	}
}

func (r *LiveRenderer) OnStep(t float64, samples []sim.Sample) {
	for i, s := range samples {
		if i >= len(r.trails) {
			break
		}
		r.trails[i] = append(r.trails[i], r.toScreen(s.Position[0], s.Position[1]))
		if len(r.trails[i]) > trailLength {
			r.trails[i] = r.trails[i][1:]
		}
	}

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.drawAxes()
	for i, trail := range r.trails {
		for j, p := range trail {
			if j == len(trail)-1 {
				r.set(p.x, p.y, marker(i))
			} else {
				r.set(p.x, p.y, '.')
			}
		}
	}
	r.render(t, samples)
}

func marker(i int) rune { return rune('A' + i%26) }

func (r *LiveRenderer) toScreen(x, y float64) point {
	sx := width/2 + int(math.Round(x/r.scale*float64(width/2-1)))
	sy := height/2 - int(math.Round(y/r.scale*float64(height/2-1)))
	return point{sx, sy}
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) drawAxes() {
	for x := 0; x < width; x++ {
		r.set(x, height/2, '-')
	}
	for y := 0; y < height; y++ {
		r.set(width/2, y, '|')
	}
	r.set(width/2, height/2, '+')
}

func (r *LiveRenderer) render(t float64, samples []sim.Sample) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString("  " + titleStyle.Render(r.title) + fmt.Sprintf("  t=%.2fs", t) + "\n")
	b.WriteString("  " + dimStyle.Render(strings.Repeat("-", width)) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + dimStyle.Render(strings.Repeat("-", width)) + "\n")
	for i, s := range samples {
		if i >= len(r.names) {
			break
		}
		b.WriteString(fmt.Sprintf("  %c %-18s |v|=%7.3f |w|=%7.3f |a|=%7.3f\n",
			marker(i), r.names[i], s.Speed(), s.AngularSpeed(), s.LinearAcceleration.Len()))
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
