package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/kinframe/internal/config"
	"github.com/san-kum/kinframe/internal/kinematics"
)

// Track is a point on a frame observed from RelativeTo, expressed in
// InCoordinatesOf. Nil frames mean World.
type Track struct {
	Name            string
	Frame           *kinematics.Frame
	Offset          mgl64.Vec3
	RelativeTo      *kinematics.Frame
	InCoordinatesOf *kinematics.Frame
}

func (s *Scene) Track(tc config.TrackConfig) (Track, error) {
	t := Track{Name: tc.Label(), Offset: vec3(tc.Offset)}
	var err error
	if t.Frame, err = s.Frame(tc.Frame); err != nil {
		return Track{}, fmt.Errorf("track %q: %w", t.Name, err)
	}
	if t.RelativeTo, err = s.Frame(tc.RelativeTo); err != nil {
		return Track{}, fmt.Errorf("track %q: %w", t.Name, err)
	}
	if t.InCoordinatesOf, err = s.Frame(tc.InCoordinatesOf); err != nil {
		return Track{}, fmt.Errorf("track %q: %w", t.Name, err)
	}
	return t, nil
}

// Tracks resolves every configured track.
func (s *Scene) Tracks() ([]Track, error) {
	out := make([]Track, 0, len(s.cfg.Tracks))
	for _, tc := range s.cfg.Tracks {
		t, err := s.Track(tc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
