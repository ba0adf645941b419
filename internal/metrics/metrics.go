// Package metrics holds per-track metrics for the sampler.
package metrics

import (
	"fmt"
	"slices"

	"github.com/san-kum/kinframe/internal/sim"
)

var registry = map[string]sim.MetricFactory{
	"mean_speed":         func() sim.Metric { return NewMeanSpeed() },
	"peak_speed":         func() sim.Metric { return NewPeakSpeed() },
	"peak_angular_speed": func() sim.Metric { return NewPeakAngularSpeed() },
	"peak_acceleration":  func() sim.Metric { return NewPeakAcceleration() },
	"path_length":        func() sim.Metric { return NewPathLength() },
}

// Standard is the set every sampling run records.
func Standard() []sim.MetricFactory {
	out := make([]sim.MetricFactory, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func ByName(name string) (sim.MetricFactory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", name)
	}
	return f, nil
}
