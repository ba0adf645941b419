package viz

import (
	"strings"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/scene"
)

// Tree renders the scene's frame tree under World.
func Tree(sc *scene.Scene) string {
	var b strings.Builder
	b.WriteString(headerStyle().UnsetMarginBottom().Render(config.WorldName) + "\n")
	sc.Walk(func(n *scene.Node, prefix string) {
		b.WriteString(mutedStyle().Render(prefix))
		b.WriteString(selectedStyle().Render(n.Name()))
		b.WriteString(" " + valueStyle.Render(strings.TrimPrefix(n.Summary(), n.Name()+" ")))
		b.WriteByte('\n')
	})
	return b.String()
}
