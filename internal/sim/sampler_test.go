package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/scene"
	"github.com/san-kum/kinframe/internal/spatial"
)

func rotating(t *testing.T) (*scene.Scene, []scene.Track) {
	t.Helper()
	sc, err := scene.Build(config.GetPreset("rotating"), zap.NewNop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(sc.Close)
	tracks, err := sc.Tracks()
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	return sc, tracks
}

func near(a, b mgl64.Vec3) bool { return spatial.Vec3ApproxEqual(a, b, 1e-9) }

func TestSamplerRun(t *testing.T) {
	sc, tracks := rotating(t)
	s := New(sc, tracks, zap.NewNop())

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	rim, ok := result.Track("rim")
	if !ok {
		t.Fatal("missing rim track")
	}
	if len(rim.Samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(rim.Samples))
	}

	last := rim.Samples[10]
	c, sn := math.Cos(1), math.Sin(1)
	if !near(last.Position, mgl64.Vec3{c, sn, 0}) {
		t.Errorf("position: got %v", last.Position)
	}
	if !near(last.LinearVelocity, mgl64.Vec3{-sn, c, 0}) {
		t.Errorf("velocity: got %v", last.LinearVelocity)
	}
	if !near(last.LinearAcceleration, mgl64.Vec3{-c, -sn, 0}) {
		t.Errorf("acceleration: got %v", last.LinearAcceleration)
	}
	if !near(last.AngularVelocity, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("angular velocity: got %v", last.AngularVelocity)
	}

	onHub, _ := result.Track("rim_in_hub")
	for i, smp := range onHub.Samples {
		if !near(smp.Position, mgl64.Vec3{1, 0, 0}) || smp.Speed() > 1e-9 || smp.AngularSpeed() > 1e-9 {
			t.Errorf("sample %d: rim should be still on the hub, got %+v", i, smp)
		}
	}
}

func TestMeasureOffsetInMovingCoordinates(t *testing.T) {
	sc, _ := rotating(t)
	tr, err := sc.Track(config.TrackConfig{Frame: "rim", Offset: []float64{0.5, 0, 0}, InCoordinatesOf: "hub"})
	if err != nil {
		t.Fatal(err)
	}

	sc.Apply(math.Pi / 2)
	got := Measure(tr)

	// world position (0, 1.5, 0) seen along the hub axes
	if !near(got.Position, mgl64.Vec3{1.5, 0, 0}) {
		t.Errorf("position: got %v", got.Position)
	}
	if !near(got.LinearVelocity, mgl64.Vec3{0, 1.5, 0}) {
		t.Errorf("velocity: got %v", got.LinearVelocity)
	}
	if !near(got.LinearAcceleration, mgl64.Vec3{-1.5, 0, 0}) {
		t.Errorf("acceleration: got %v", got.LinearAcceleration)
	}
}

func TestSamplerInvalidConfig(t *testing.T) {
	sc, tracks := rotating(t)
	s := New(sc, tracks, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSamplerCancel(t *testing.T) {
	sc, tracks := rotating(t)
	s := New(sc, tracks, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopAt := 5
	s.AddObserver(observerFunc(func(t float64, _ []Sample) {
		if t >= float64(stopAt)*0.01-1e-12 {
			cancel()
		}
	}))

	result, err := s.Run(ctx, Config{Dt: 0.01, Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Times) != stopAt+1 {
		t.Errorf("expected %d samples before cancel, got %d", stopAt+1, len(result.Times))
	}
}

type observerFunc func(t float64, samples []Sample)

func (f observerFunc) OnStep(t float64, samples []Sample) { f(t, samples) }

type countMetric struct{ n int }

func (c *countMetric) Name() string                { return "count" }
func (c *countMetric) Observe(_ Sample, _ float64) { c.n++ }
func (c *countMetric) Value() float64              { return float64(c.n) }
func (c *countMetric) Reset()                      { c.n = 0 }

func TestSamplerMetricsPerTrack(t *testing.T) {
	sc, tracks := rotating(t)
	s := New(sc, tracks, zap.NewNop())
	s.AddMetric(func() Metric { return &countMetric{} })

	var steps int
	s.AddObserver(observerFunc(func(_ float64, samples []Sample) {
		steps++
		if len(samples) != len(tracks) {
			t.Errorf("expected %d samples per step, got %d", len(tracks), len(samples))
		}
	}))

	result, err := s.Run(context.Background(), Config{Dt: 0.25, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if steps != 5 {
		t.Errorf("expected 5 observed steps, got %d", steps)
	}
	for _, tr := range result.Tracks {
		if tr.Metrics["count"] != 5 {
			t.Errorf("%s: expected count 5, got %v", tr.Name, tr.Metrics["count"])
		}
	}
}

func TestRunWithCallback(t *testing.T) {
	sc, tracks := rotating(t)
	s := New(sc, tracks, zap.NewNop())

	var times []float64
	err := s.RunWithCallback(context.Background(), Config{Dt: 0.5}, func(t float64, _ []Sample) bool {
		times = append(times, t)
		return len(times) < 3
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 3 || times[2] != 1.0 {
		t.Errorf("unexpected callback times %v", times)
	}
	if sc.Time() != 1.0 {
		t.Errorf("scene should be left at t=1, got %v", sc.Time())
	}

	times = nil
	err = s.RunWithCallback(context.Background(), Config{Dt: 0.5, Duration: 1}, func(t float64, _ []Sample) bool {
		times = append(times, t)
		return true
	})
	if err != nil || len(times) != 3 {
		t.Errorf("expected 3 bounded callbacks, got %v (err %v)", times, err)
	}
}

func TestSampleRow(t *testing.T) {
	s := Sample{
		Position:            mgl64.Vec3{1, 2, 3},
		LinearAcceleration:  mgl64.Vec3{4, 5, 6},
		AngularAcceleration: mgl64.Vec3{0, 0, 7},
	}
	row := s.Row()
	if len(row) != len(Columns) || row[9] != 4 || row[14] != 7 {
		t.Fatalf("unexpected row %v", row)
	}
	back, err := SampleFromRow(row)
	if err != nil || back != s {
		t.Errorf("expected %+v, got %+v (err %v)", s, back, err)
	}
	if _, err := SampleFromRow(row[:3]); err == nil {
		t.Error("expected error for short row")
	}

	s.Position[0] = math.NaN()
	if s.IsValid() {
		t.Error("NaN sample should be invalid")
	}
}
