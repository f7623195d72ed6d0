package labelmesh

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// SnapshotVersion is the session format written by SaveSession.
const SnapshotVersion = 1

// Snapshot is the serializable state of a mesh.
type Snapshot struct {
	Version   int                `json:"version"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Points    []Point            `json:"points"`
	Triangles []SnapshotTriangle `json:"triangles"`
}

// SnapshotTriangle stores the point indices and the label of a triangle.
type SnapshotTriangle struct {
	V     [3]int `json:"v"`
	Label Label  `json:"label"`
}

// Snapshot captures the current points and triangles.
func (m *Mesh) Snapshot() Snapshot {
	s := Snapshot{
		Version:   SnapshotVersion,
		Width:     m.width,
		Height:    m.height,
		Points:    m.Points(),
		Triangles: make([]SnapshotTriangle, len(m.triangles)),
	}
	for i, t := range m.triangles {
		s.Triangles[i] = SnapshotTriangle{V: t.V, Label: t.Label}
	}
	return s
}

// FromSnapshot rebuilds a mesh from a snapshot. Circumcircles are recomputed.
func FromSnapshot(s Snapshot, opts ...Option) (*Mesh, error) {
	if s.Version != SnapshotVersion {
		return nil, errors.Errorf("unsupported session version %d", s.Version)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, errors.Errorf("invalid session canvas %gx%g", s.Width, s.Height)
	}

	m, err := NewMesh(s.Width, s.Height, opts...)
	if err != nil {
		return nil, err
	}
	if len(s.Points) < len(m.points) {
		return nil, errors.Errorf("session holds %d points, the canvas corners are missing", len(s.Points))
	}
	for i, corner := range m.points {
		if s.Points[i] != corner {
			return nil, errors.Errorf("session point %d is (%g, %g), expected canvas corner (%g, %g)",
				i, s.Points[i].X, s.Points[i].Y, corner.X, corner.Y)
		}
	}
	m.points = append([]Point(nil), s.Points...)

	triangles := make([]*LabeledTriangle, 0, len(s.Triangles))
	for i, st := range s.Triangles {
		for _, v := range st.V {
			if v < 0 || v >= len(m.points) {
				return nil, errors.Errorf("session triangle %d references point %d of %d", i, v, len(m.points))
			}
		}
		if !st.Label.Valid() {
			return nil, errors.Wrapf(ErrUnknownLabel, "session triangle %d", i)
		}
		t, err := m.newTriangle(st.V[0], st.V[1], st.V[2], st.Label)
		if err != nil {
			return nil, errors.Wrapf(err, "session triangle %d", i)
		}
		triangles = append(triangles, t)
	}
	m.triangles = triangles
	return m, nil
}

// SaveSession writes the mesh snapshot as JSON.
func SaveSession(w io.Writer, m *Mesh) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(m.Snapshot()), "encoding session")
}

// LoadSession reads a JSON snapshot written by SaveSession.
func LoadSession(r io.Reader, opts ...Option) (*Mesh, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding session")
	}
	return FromSnapshot(s, opts...)
}
