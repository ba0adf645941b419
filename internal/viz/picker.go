package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Launcher builds the watch model for a chosen entry.
type Launcher func(name string) (Model, error)

// Picker is a menu of scenes. Choosing one hands control to its watch
// model.
type Picker struct {
	names    []string
	info     map[string]string
	cursor   int
	launch   Launcher
	watching bool
	live     Model
	err      error
}

func NewPicker(names []string, info map[string]string, launch Launcher) *Picker {
	return &Picker{names: names, info: info, launch: launch}
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.watching {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.watching = false
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter":
		if len(p.names) == 0 {
			return p, nil
		}
		p.Close()
		live, err := p.launch(p.names[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		p.live = live
		p.watching = true
		return p, live.Init()
	}
	return p, nil
}

func (p *Picker) View() string {
	if p.watching {
		return p.live.View() + "\n" + mutedStyle().Render("esc: back to menu")
	}

	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle().UnsetMarginBottom().Render("KINFRAME") + "\n")
	b.WriteString("    " + mutedStyle().Render("kinematic frame scenes") + "\n")
	b.WriteString("    " + Separator(26) + "\n\n")
	for i, name := range p.names {
		desc := p.info[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", selectedStyle().Render("▸"),
				selectedStyle().Render(fmt.Sprintf("%-12s", name)), accentStyle().Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", valueStyle.Render(fmt.Sprintf("%-12s", name)), mutedStyle().Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + warnStyle().Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + mutedStyle().Render("j/k navigate  enter watch  q quit") + "\n")
	return b.String()
}

// Close releases the scene of a model the picker launched last.
func (p *Picker) Close() {
	if p.live.scene != nil {
		p.live.scene.Close()
		p.live = Model{}
	}
}
