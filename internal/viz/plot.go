package viz

import (
	"fmt"
	"slices"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinframe/internal/sim"
)

// Column returns one named column (see sim.Columns) of samples.
func Column(samples []sim.Sample, name string) ([]float64, error) {
	idx := slices.Index(sim.Columns, name)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q (want one of %v)", name, sim.Columns)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Row()[idx]
	}
	return out, nil
}

// Plot draws series as a line chart, one series per column.
func Plot(series [][]float64, caption string, width, height int) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return "no data"
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(series) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow, asciigraph.Cyan}
		opts = append(opts, asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...))
	}
	return asciigraph.PlotMany(series, opts...)
}
