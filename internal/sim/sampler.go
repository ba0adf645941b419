package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/kinframe/internal/scene"
)

// Sampler steps a scene through time and records its tracks.
type Sampler struct {
	scene     *scene.Scene
	tracks    []scene.Track
	metrics   []MetricFactory
	observers []Observer
	log       *zap.Logger
}

func New(sc *scene.Scene, tracks []scene.Track, log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{
		scene:     sc,
		tracks:    tracks,
		metrics:   make([]MetricFactory, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (s *Sampler) AddMetric(m MetricFactory) { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

func (s *Sampler) Tracks() []scene.Track { return s.tracks }

// Measure queries one track at the scene's current state.
func Measure(tr scene.Track) Sample {
	f, rel, in := tr.Frame, tr.RelativeTo, tr.InCoordinatesOf
	p := f.Transform(rel).Apply(tr.Offset)
	if in != rel {
		p = rel.Transform(in).ApplyVector(p)
	}
	return Sample{
		Position:            p,
		LinearVelocity:      f.PointLinearVelocity(tr.Offset, rel, in),
		AngularVelocity:     f.AngularVelocity(rel, in),
		LinearAcceleration:  f.PointLinearAcceleration(tr.Offset, rel, in),
		AngularAcceleration: f.AngularAcceleration(rel, in),
	}
}

// Step applies the scene's motions at t and measures every track.
func (s *Sampler) Step(t float64) []Sample {
	s.scene.Apply(t)
	out := make([]Sample, len(s.tracks))
	for i, tr := range s.tracks {
		out[i] = Measure(tr)
	}
	return out
}

// Run samples at t = 0, dt, 2dt, ... up to Duration. On cancellation the
// partial result is returned with the context's error.
func (s *Sampler) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := numSteps(cfg)
	result := &Result{
		Times:  make([]float64, 0, steps+1),
		Tracks: make([]TrackResult, len(s.tracks)),
	}

	metrics := make([][]Metric, len(s.tracks))
	for i, tr := range s.tracks {
		result.Tracks[i] = TrackResult{
			Name:    tr.Name,
			Samples: make([]Sample, 0, steps+1),
			Metrics: make(map[string]float64),
		}
		for _, mf := range s.metrics {
			m := mf()
			m.Reset()
			metrics[i] = append(metrics[i], m)
		}
	}

	s.log.Debug("sampling",
		zap.Int("tracks", len(s.tracks)),
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt))

	var runErr error
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		t := float64(i) * cfg.Dt
		samples := s.Step(t)
		for j, smp := range samples {
			if !smp.IsValid() {
				runErr = &SampleError{Step: i, Time: t, Track: s.tracks[j].Name}
				break
			}
		}
		if runErr != nil {
			break
		}

		for j, smp := range samples {
			result.Tracks[j].Samples = append(result.Tracks[j].Samples, smp)
			for _, m := range metrics[j] {
				m.Observe(smp, t)
			}
		}
		for _, obs := range s.observers {
			obs.OnStep(t, samples)
		}
		result.Times = append(result.Times, t)
		result.StepsTaken = i
	}

	for j := range metrics {
		for _, m := range metrics[j] {
			result.Tracks[j].Metrics[m.Name()] = m.Value()
		}
	}

	if runErr != nil {
		s.log.Warn("sampling stopped", zap.Int("step", result.StepsTaken), zap.Error(runErr))
		return result, runErr
	}
	s.log.Info("sampling complete",
		zap.Int("samples", len(result.Times)),
		zap.Float64("duration", cfg.Duration))
	return result, nil
}

// RunWithCallback steps without recording. It stops when callback returns
// false, once t passes Duration, or when ctx is done. A zero Duration runs
// until one of the others.
func (s *Sampler) RunWithCallback(ctx context.Context, cfg Config, callback func(t float64, samples []Sample) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if cfg.Duration > 0 && t > cfg.Duration+cfg.Dt/2 {
			return nil
		}
		if !callback(t, s.Step(t)) {
			return nil
		}
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func numSteps(cfg Config) int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}
