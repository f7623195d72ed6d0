package labelmesh

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertValidTriangulation checks that the triangles tile the canvas: every
// triangle has a positive area, the areas add up to the canvas area, interior
// edges are shared by exactly two triangles and the remaining edges lie on the
// canvas border.
func assertValidTriangulation(t *testing.T, m *Mesh) {
	t.Helper()

	var total float64
	uses := make(map[Edge]int)
	for _, tri := range m.Triangles() {
		area := m.Coords(tri).Area()
		assert.Greater(t, area, 0.0, "triangle %v has no area", tri.V)
		total += area
		for _, e := range tri.Edges() {
			uses[e]++
		}
	}
	canvas := m.Width() * m.Height()
	assert.InDelta(t, canvas, total, canvas*1e-9, "triangle areas do not add up to the canvas")

	points := m.Points()
	for e, n := range uses {
		if !assert.LessOrEqual(t, n, 2, "edge %v shared by %d triangles", e, n) {
			continue
		}
		if n == 1 {
			a, b := points[e.A], points[e.B]
			border := (a.X == 0 && b.X == 0) || (a.Y == 0 && b.Y == 0) ||
				(a.X == m.Width() && b.X == m.Width()) || (a.Y == m.Height() && b.Y == m.Height())
			assert.True(t, border, "edge %v (%v, %v) is open inside the canvas", e, a, b)
		}
	}
}

// assertDelaunay checks that no mesh point lies strictly inside the
// circumcircle of an unlabeled triangle.
func assertDelaunay(t *testing.T, m *Mesh) {
	t.Helper()

	points := m.Points()
	for _, tri := range m.Triangles() {
		if tri.Label != Unknown {
			continue
		}
		c := tri.Circumcircle()
		for i, p := range points {
			if tri.HasVertex(i) {
				continue
			}
			d2 := p.Dist2(c.Center)
			r2 := c.Radius * c.Radius
			assert.False(t, d2 < r2*(1-1e-9), "point %d %v inside the circumcircle of %v", i, p, tri.V)
		}
	}
}

func randomPoints(rng *rand.Rand, n int, width, height float64) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{X: 1 + rng.Float64()*(width-2), Y: 1 + rng.Float64()*(height-2)}
	}
	return points
}

func labeledVertices(m *Mesh) map[[3]int]Label {
	labeled := make(map[[3]int]Label)
	for _, t := range m.Triangles() {
		if t.Label != Unknown {
			labeled[t.V] = t.Label
		}
	}
	return labeled
}

// labeledRegions counts the regions carrying a label other than Unknown.
func labeledRegions(t *testing.T, m *Mesh) int {
	t.Helper()
	regions, err := m.Regions()
	require.NoError(t, err)

	var n int
	for _, r := range regions {
		if r.Label != Unknown {
			n++
		}
	}
	return n
}

func TestNewMesh(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)

	assert.Len(t, m.Points(), 4)
	assert.Len(t, m.Triangles(), 2)
	assertValidTriangulation(t, m)

	_, err = NewMesh(0, 600)
	assert.True(t, errors.Is(err, ErrDegenerateGeometry))
}

func TestInsertCenterPoint(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)

	ok, err := m.InsertPoint(Point{400, 300}, false)
	require.NoError(t, err)
	require.True(t, ok)

	tris := m.Triangles()
	require.Len(t, tris, 4)
	for _, tri := range tris {
		assert.True(t, tri.HasVertex(4), "triangle %v does not use the new point", tri.V)
		assert.Equal(t, Unknown, tri.Label)
	}
	assertValidTriangulation(t, m)
}

func TestInsertErrors(t *testing.T) {
	m, err := NewMesh(100, 100)
	require.NoError(t, err)

	t.Run("outside", func(t *testing.T) {
		ok, err := m.InsertPoint(Point{150, 50}, false)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrNoContainingTriangle))
		assert.Len(t, m.Points(), 4)
	})
	t.Run("duplicate", func(t *testing.T) {
		ok, err := m.InsertPoint(Point{100, 0}, false)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrDuplicatePoint))
		assert.Len(t, m.Triangles(), 2)
	})
}

func TestInsertOnCanvasBorder(t *testing.T) {
	m, err := NewMesh(100, 100)
	require.NoError(t, err)

	ok, err := m.InsertPoint(Point{50, 0}, false)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, m.Triangles(), 3)
	assertValidTriangulation(t, m)
}

func TestInsertRandomPointsKeepsDelaunay(t *testing.T) {
	m, err := NewMesh(640, 480)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	inserted := m.InsertPoints(randomPoints(rng, 300, 640, 480))

	assert.Equal(t, 300, inserted)
	assert.Len(t, m.Points(), 304)
	assertValidTriangulation(t, m)
	assertDelaunay(t, m)
}

func TestPaintSingleTriangle(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)

	// (600, 100) lies in the triangle (0,0) (800,0) (800,600).
	n, err := m.Paint(Point{600, 100}, Body, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	regions, err := m.Regions()
	require.NoError(t, err)

	var body []Region
	for _, r := range regions {
		if r.Label == Body {
			body = append(body, r)
		}
	}
	require.Len(t, body, 1)
	assert.Len(t, body[0].Hull, 3)
	assert.InDelta(t, 800*600/2, body[0].Area(), 1e-6)
	assert.ElementsMatch(t, []Point{{0, 0}, {800, 0}, {800, 600}}, body[0].Hull)
}

func TestPaintRespectsLabels(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)

	_, err = m.Paint(Point{600, 100}, Body, false)
	require.NoError(t, err)

	n, err := m.Paint(Point{600, 100}, Lead, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.Paint(Point{600, 100}, Lead, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A point on the diagonal paints both triangles.
	n, err = m.Paint(Point{400, 300}, Ignore, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = m.Paint(Point{-1, 0}, Body, false)
	assert.True(t, errors.Is(err, ErrNoContainingTriangle))

	_, err = m.Paint(Point{10, 10}, Label(99), false)
	assert.True(t, errors.Is(err, ErrUnknownLabel))
}

func TestInsertIntoLabeledTriangle(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)
	_, err = m.Paint(Point{600, 100}, Body, false)
	require.NoError(t, err)

	before := m.Triangles()
	points := m.Points()
	require.Equal(t, 1, labeledRegions(t, m))

	t.Run("rejected without force", func(t *testing.T) {
		ok, err := m.InsertPoint(Point{650, 100}, false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, m.Triangles())
		assert.Equal(t, points, m.Points())
		assert.Equal(t, 1, labeledRegions(t, m))
	})

	t.Run("forced", func(t *testing.T) {
		ok, err := m.InsertPoint(Point{650, 100}, true)
		require.NoError(t, err)
		assert.True(t, ok)

		after := m.Triangles()
		assert.Greater(t, len(after), len(before))
		assert.Len(t, after, 4)
		for _, tri := range after {
			assert.Equal(t, Unknown, tri.Label)
		}
		assert.Empty(t, labeledVertices(m))
		assert.Zero(t, labeledRegions(t, m))
		assertValidTriangulation(t, m)
	})
}

func TestDisjointSameLabelComponents(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)
	_, err = m.InsertPoint(Point{400, 300}, false)
	require.NoError(t, err)

	// The top and bottom triangles only share the center vertex.
	_, err = m.Paint(Point{400, 50}, Body, false)
	require.NoError(t, err)
	_, err = m.Paint(Point{400, 550}, Body, false)
	require.NoError(t, err)

	regions, err := m.Regions()
	require.NoError(t, err)

	var ids []int
	for _, r := range regions {
		if r.Label == Body {
			assert.Len(t, r.Hull, 3)
			assert.Empty(t, r.Holes)
			ids = append(ids, r.ID)
		}
	}
	assert.ElementsMatch(t, []int{3, 4}, ids)
}

func TestInsertPreservesConstrainedTriangles(t *testing.T) {
	m, err := NewMesh(640, 480)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	m.InsertPoints(randomPoints(rng, 60, 640, 480))

	for _, p := range []Point{{100, 100}, {320, 240}, {500, 400}, {600, 50}} {
		_, err := m.Paint(p, Body, false)
		require.NoError(t, err)
	}
	_, err = m.Paint(Point{50, 400}, PickSurface, false)
	require.NoError(t, err)

	labeled := labeledVertices(m)
	require.NotEmpty(t, labeled)

	var accepted, rejected int
	for _, p := range randomPoints(rng, 400, 640, 480) {
		ok, err := m.InsertPoint(p, false)
		require.NoError(t, err)
		if ok {
			accepted++
		} else {
			rejected++
		}
		require.Equal(t, labeled, labeledVertices(m))
	}

	assert.Positive(t, accepted)
	assertValidTriangulation(t, m)
}

func TestForcedInsertResetsOnlyItsComponent(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)
	_, err = m.InsertPoint(Point{400, 300}, false)
	require.NoError(t, err)

	_, err = m.Paint(Point{400, 50}, Body, false)
	require.NoError(t, err)
	_, err = m.Paint(Point{400, 550}, Lead, false)
	require.NoError(t, err)

	require.Equal(t, 2, labeledRegions(t, m))

	ok, err := m.InsertPoint(Point{400, 100}, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, labeledRegions(t, m))

	var body, lead int
	for _, tri := range m.Triangles() {
		switch tri.Label {
		case Body:
			body++
		case Lead:
			lead++
		}
	}
	assert.Zero(t, body)
	assert.Equal(t, 1, lead)
	assertValidTriangulation(t, m)
}

func TestResetComponent(t *testing.T) {
	m, err := NewMesh(800, 600)
	require.NoError(t, err)
	_, err = m.InsertPoint(Point{400, 300}, false)
	require.NoError(t, err)

	// Left and top triangles share an edge and form a single component.
	_, err = m.Paint(Point{400, 50}, Body, false)
	require.NoError(t, err)
	_, err = m.Paint(Point{50, 300}, Body, false)
	require.NoError(t, err)

	n, err := m.ResetComponent(Point{400, 50})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, labeledVertices(m))

	n, err = m.ResetComponent(Point{400, 50})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = m.ResetComponent(Point{900, 50})
	assert.True(t, errors.Is(err, ErrNoContainingTriangle))
}

func TestAccessorsReturnCopies(t *testing.T) {
	m, err := NewMesh(100, 100)
	require.NoError(t, err)

	points := m.Points()
	points[0] = Point{42, 42}
	tris := m.Triangles()
	tris[0].Label = Body

	assert.Equal(t, Point{0, 0}, m.Points()[0])
	assert.Equal(t, Unknown, m.Triangles()[0].Label)
}
