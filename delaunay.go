package labelmesh

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LabeledTriangle is a mesh triangle. Its vertices are indices into the mesh
// point arena and its circumcircle is computed once, when the triangle is created.
type LabeledTriangle struct {
	V      [3]int
	Label  Label
	circle Circle
}

// Circumcircle returns the cached circumcircle.
func (t *LabeledTriangle) Circumcircle() Circle {
	return t.circle
}

// Edges returns the three canonical edges of the triangle.
func (t *LabeledTriangle) Edges() [3]Edge {
	return [3]Edge{
		NewEdge(t.V[0], t.V[1]),
		NewEdge(t.V[1], t.V[2]),
		NewEdge(t.V[2], t.V[0]),
	}
}

// HasVertex reports whether the point index i is a vertex of the triangle.
func (t *LabeledTriangle) HasVertex(i int) bool {
	return t.V[0] == i || t.V[1] == i || t.V[2] == i
}

// opposite returns the vertex not on edge e.
func (t *LabeledTriangle) opposite(e Edge) int {
	for _, v := range t.V {
		if !e.Has(v) {
			return v
		}
	}
	return -1
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithLogger sets the logger used to report rejected and aborted operations.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Mesh) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Mesh is a constrained Delaunay triangulation of a width x height canvas.
// Triangles carrying a label other than Unknown are constrained: insertion never
// removes them unless their whole label component is reset first.
//
// A Mesh is not safe for concurrent use.
type Mesh struct {
	width     float64
	height    float64
	points    []Point
	triangles []*LabeledTriangle
	logger    *zap.Logger
}

// NewMesh creates a mesh made of the two triangles spanning the canvas.
func NewMesh(width, height float64, opts ...Option) (*Mesh, error) {
	m := &Mesh{
		width:  width,
		height: height,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.clear(); err != nil {
		return nil, errors.Wrapf(err, "canvas %gx%g", width, height)
	}
	return m, nil
}

// clear resets the mesh to the two triangles covering the canvas rectangle.
func (m *Mesh) clear() error {
	m.points = []Point{
		{0, 0},
		{m.width, 0},
		{m.width, m.height},
		{0, m.height},
	}

	t0, err := m.newTriangle(0, 2, 3, Unknown)
	if err != nil {
		return err
	}
	t1, err := m.newTriangle(0, 1, 2, Unknown)
	if err != nil {
		return err
	}
	m.triangles = []*LabeledTriangle{t0, t1}
	return nil
}

// newTriangle creates a triangle and caches its circumcircle.
func (m *Mesh) newTriangle(a, b, c int, label Label) (*LabeledTriangle, error) {
	circle, err := m.geometry([3]int{a, b, c}).Circumcircle()
	if err != nil {
		return nil, err
	}
	return &LabeledTriangle{V: [3]int{a, b, c}, Label: label, circle: circle}, nil
}

func (m *Mesh) geometry(v [3]int) Triangle {
	return Triangle{m.points[v[0]], m.points[v[1]], m.points[v[2]]}
}

// Width returns the canvas width.
func (m *Mesh) Width() float64 { return m.width }

// Height returns the canvas height.
func (m *Mesh) Height() float64 { return m.height }

// Points returns a copy of the point list in insertion order.
func (m *Mesh) Points() []Point {
	points := make([]Point, len(m.points))
	copy(points, m.points)
	return points
}

// Triangles returns a snapshot of the current triangles.
func (m *Mesh) Triangles() []LabeledTriangle {
	triangles := make([]LabeledTriangle, len(m.triangles))
	for i, t := range m.triangles {
		triangles[i] = *t
	}
	return triangles
}

// Coords returns the vertex coordinates of a mesh triangle.
func (m *Mesh) Coords(t LabeledTriangle) Triangle {
	return m.geometry(t.V)
}

// containing returns the indices of every triangle whose closed interior holds p.
// A point on a shared edge is reported by both triangles.
func (m *Mesh) containing(p Point) []int {
	var hits []int
	for i, t := range m.triangles {
		if m.geometry(t.V).Contains(p) {
			hits = append(hits, i)
		}
	}
	return hits
}

// InsertPoint adds p to the mesh and retriangulates the cavity around it.
//
// A point falling inside a labeled triangle is rejected unless force is set, in
// which case the whole connected label component is reset to Unknown first.
// The returned flag is false when the insertion was rejected; the mesh is left
// untouched whenever an error is returned.
func (m *Mesh) InsertPoint(p Point, force bool) (bool, error) {
	hits := m.containing(p)
	if len(hits) == 0 {
		m.logger.Debug("insert outside of the mesh", zap.Float64("x", p.X), zap.Float64("y", p.Y))
		return false, errors.Wrapf(ErrNoContainingTriangle, "insert (%g, %g)", p.X, p.Y)
	}

	var labeled []int
	for _, i := range hits {
		t := m.triangles[i]
		for _, v := range t.V {
			if m.points[v].Dist2(p) <= AreaTolerance*AreaTolerance {
				return false, errors.Wrapf(ErrDuplicatePoint, "insert (%g, %g) matches vertex %d", p.X, p.Y, v)
			}
		}
		if t.Label != Unknown {
			labeled = append(labeled, i)
		}
	}

	if len(labeled) > 0 && !force {
		m.logger.Debug("insert rejected by labeled triangle",
			zap.Float64("x", p.X), zap.Float64("y", p.Y),
			zap.Stringer("label", m.triangles[labeled[0]].Label))
		return false, nil
	}

	var saved []Label
	if len(labeled) > 0 {
		saved = m.labels()
		for _, i := range labeled {
			n := m.resetComponent(i)
			m.logger.Debug("label component reset", zap.Int("triangles", n))
		}
	}

	pi := len(m.points)
	m.points = append(m.points, p)

	retained, removed := m.cavity(pi, hits)
	fan, err := m.fan(pi, removed)
	if err != nil {
		m.points = m.points[:pi]
		if saved != nil {
			m.restoreLabels(saved)
		}
		return false, errors.Wrapf(err, "insert (%g, %g)", p.X, p.Y)
	}

	m.triangles = append(retained, fan...)
	return true, nil
}

// InsertPoints inserts the points without force and returns how many were
// accepted. Rejected or failed insertions are logged and skipped.
func (m *Mesh) InsertPoints(points []Point) int {
	var inserted int
	for _, p := range points {
		ok, err := m.InsertPoint(p, false)
		if err != nil {
			m.logger.Debug("point skipped", zap.Error(err))
			continue
		}
		if ok {
			inserted++
		}
	}
	return inserted
}

// fan joins every boundary edge of the removed cavity to the point pi.
// Boundary edges passing through the point would produce zero-area triangles
// and are skipped.
func (m *Mesh) fan(pi int, removed []*LabeledTriangle) ([]*LabeledTriangle, error) {
	p := m.points[pi]
	var fan []*LabeledTriangle
	for _, e := range boundaryEdges(removed) {
		if onSegment(m.points[e.A], m.points[e.B], p) {
			continue
		}
		t, err := m.newTriangle(e.A, e.B, pi, Unknown)
		if err != nil {
			return nil, err
		}
		fan = append(fan, t)
	}
	return fan, nil
}

// Paint sets label on every triangle containing p. Labeled triangles are only
// overwritten when overrideLabeled is set. It returns the number of relabeled triangles.
func (m *Mesh) Paint(p Point, label Label, overrideLabeled bool) (int, error) {
	if !label.Valid() {
		return 0, errors.Wrapf(ErrUnknownLabel, "paint ordinal %d", uint8(label))
	}
	hits := m.containing(p)
	if len(hits) == 0 {
		m.logger.Debug("paint outside of the mesh", zap.Float64("x", p.X), zap.Float64("y", p.Y))
		return 0, errors.Wrapf(ErrNoContainingTriangle, "paint (%g, %g)", p.X, p.Y)
	}

	var painted int
	for _, i := range hits {
		t := m.triangles[i]
		if t.Label == Unknown || overrideLabeled {
			if t.Label != label {
				painted++
			}
			t.Label = label
		}
	}
	return painted, nil
}

// ResetComponent resets the connected label component under p back to Unknown
// and returns the number of triangles that changed.
func (m *Mesh) ResetComponent(p Point) (int, error) {
	hits := m.containing(p)
	if len(hits) == 0 {
		return 0, errors.Wrapf(ErrNoContainingTriangle, "reset (%g, %g)", p.X, p.Y)
	}
	var reset int
	for _, i := range hits {
		reset += m.resetComponent(i)
	}
	return reset, nil
}

// resetComponent relabels the same-label component of triangle i as Unknown.
func (m *Mesh) resetComponent(i int) int {
	if m.triangles[i].Label == Unknown {
		return 0
	}
	component := componentOf(m.triangles, edgeAdjacency(m.triangles), i)
	for _, j := range component {
		m.triangles[j].Label = Unknown
	}
	return len(component)
}

func (m *Mesh) labels() []Label {
	labels := make([]Label, len(m.triangles))
	for i, t := range m.triangles {
		labels[i] = t.Label
	}
	return labels
}

func (m *Mesh) restoreLabels(labels []Label) {
	for i, t := range m.triangles {
		t.Label = labels[i]
	}
}
