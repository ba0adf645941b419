package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinframe/internal/scene"
	"github.com/san-kum/kinframe/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 600
	trailCapacity   = 200
)

type TickMsg time.Time

// Snapshot is one sampled instant kept for replay.
type Snapshot struct {
	Time    float64
	Samples []sim.Sample
}

// Model is the live watch view of a scene.
type Model struct {
	scene    *scene.Scene
	sampler  *sim.Sampler
	tracks   []scene.Track
	name     string
	dt       float64
	duration float64
	t        float64
	samples  []sim.Sample
	running  bool
	selected int
	history  []Snapshot
	playHead int
	trail    []mgl64.Vec3
	canvas   *Canvas
	camera   *Camera
	showHelp bool
	fps      int
}

// NewModel watches sc, stepping dt per frame. The view loops back to t=0
// after duration when it is positive.
func NewModel(sc *scene.Scene, tracks []scene.Track, dt, duration float64) Model {
	m := Model{
		scene:    sc,
		sampler:  sim.New(sc, tracks, nil),
		tracks:   tracks,
		name:     sc.Config().Name,
		dt:       dt,
		duration: duration,
		running:  true,
		history:  make([]Snapshot, 0, historyCapacity),
		playHead: -1,
		trail:    make([]mgl64.Vec3, 0, trailCapacity),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(),
		fps:      30,
	}
	m.restart()
	m.camera.Fit(Skeleton(sc, 0).Radius() * 1.2)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "tab":
			if len(m.tracks) > 0 {
				m.selected = (m.selected + 1) % len(m.tracks)
				m.trail = m.trail[:0]
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
				m.show()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) restart() {
	m.t = 0
	m.history = m.history[:0]
	m.trail = m.trail[:0]
	m.playHead = -1
	m.record(m.sampler.Step(0))
}

func (m *Model) step() {
	next := m.t + m.dt
	if m.duration > 0 && next > m.duration+m.dt/2 {
		next = 0
		m.trail = m.trail[:0]
	}
	m.t = next
	m.record(m.sampler.Step(m.t))
}

func (m *Model) record(samples []sim.Sample) {
	m.samples = samples
	m.history = append(m.history, Snapshot{Time: m.t, Samples: samples})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	if len(m.tracks) > 0 {
		m.trail = append(m.trail, TrackPoint(m.tracks[m.selected]))
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
}

// show moves the scene to the snapshot under the play head.
func (m *Model) show() {
	if m.playHead < 0 || m.playHead >= len(m.history) {
		m.scene.Apply(m.t)
		return
	}
	m.scene.Apply(m.history[m.playHead].Time)
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(0, m.playHead+dir)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
	m.show()
}

func (m Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return Snapshot{Time: m.t, Samples: m.samples}
}

func (m *Model) draw() {
	m.canvas.Clear()
	w := Skeleton(m.scene, 0.15/m.camera.Zoom)
	w.Append(Trail(m.trail))
	Render(m.canvas, w, m.camera)
}

func (m Model) View() string {
	snap := m.current()
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	switch {
	case m.playHead != -1 && m.running:
		status = fmt.Sprintf("REPLAYING (%.2fs)", snap.Time-m.t)
	case m.playHead != -1:
		status = fmt.Sprintf("REPLAY PAUSED (%.2fs)", snap.Time-m.t)
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", snap.Time)) + "\n")
	if m.duration > 0 {
		s.WriteString(labelStyle.Render("") + ProgressBar(snap.Time/m.duration, 24) + "\n")
	}

	if len(m.tracks) > 0 && len(snap.Samples) == len(m.tracks) {
		smp := snap.Samples[m.selected]
		s.WriteString("\n" + selectedStyle().Render("▸ "+m.tracks[m.selected].Name) + "\n")
		s.WriteString(vecLine("pos", smp.Position))
		s.WriteString(vecLine("vel", smp.LinearVelocity))
		s.WriteString(vecLine("omega", smp.AngularVelocity))
		s.WriteString(vecLine("acc", smp.LinearAcceleration))
		s.WriteString(vecLine("alpha", smp.AngularAcceleration))

		speeds := m.speedHistory()
		if len(speeds) > 1 {
			chart := asciigraph.Plot(speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("speed"))
			s.WriteString("\n" + chart + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit\nTab:Track [ ]:Replay ?:Help"))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m Model) speedHistory() []float64 {
	out := make([]float64, 0, len(m.history))
	for _, h := range m.history {
		if m.selected < len(h.Samples) {
			out = append(out, h.Samples[m.selected].Speed())
		}
	}
	return out
}

func vecLine(label string, v mgl64.Vec3) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf("%8.3f %8.3f %8.3f", v[0], v[1], v[2])) + "\n"
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from t=0         ║
║  Q        - Quit                     ║
║  Tab      - Select next track        ║
║  [ ]      - Step through history     ║
║  x y z    - Rotate camera            ║
║  + -      - Zoom                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
