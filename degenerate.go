package labelmesh

import (
	"math"

	"go.uber.org/zap"
)

// heights2 returns the squared distance of every vertex to the line through the
// opposite edge. A zero-length opposite edge yields a zero height.
func heights2(t Triangle) [3]float64 {
	vertices := [3]Point{t.P1, t.P2, t.P3}

	var h [3]float64
	for i, v := range vertices {
		a, b := vertices[(i+1)%3], vertices[(i+2)%3]
		l2 := b.Sub(a).Len2()
		if l2 == 0 {
			continue
		}
		c := orient(a, b, v)
		h[i] = c * c / l2
	}
	return h
}

// PartitionDegenerate splits the triangles into those having a vertex closer
// than threshold to the line of its opposite edge and the rest.
func PartitionDegenerate(tris []Triangle, threshold float64) (degenerate, regular []Triangle) {
	for _, t := range tris {
		h := heights2(t)
		if Min(h[0], h[1], h[2]) < threshold*threshold {
			degenerate = append(degenerate, t)
		} else {
			regular = append(regular, t)
		}
	}
	return degenerate, regular
}

// CollapseDegenerate removes unlabeled sliver triangles. The vertex lying
// closest to its opposite edge is projected onto that edge, the flattened
// triangle is dropped and the unlabeled neighbor across the edge is split in two
// at the projected vertex. Vertices used by labeled triangles or lying on the
// canvas border never move. A collapse that would invert a triangle is undone.
//
// It is an explicit maintenance pass, insertion never calls it. It returns the
// number of collapsed triangles.
func (m *Mesh) CollapseDegenerate(threshold float64) int {
	var slivers []*LabeledTriangle
	for _, t := range m.triangles {
		if t.Label != Unknown {
			continue
		}
		h := heights2(m.geometry(t.V))
		if Min(h[0], h[1], h[2]) < threshold*threshold {
			slivers = append(slivers, t)
		}
	}

	var collapsed int
	for _, t := range slivers {
		if m.indexOf(t) < 0 {
			continue
		}
		if m.collapse(t) {
			collapsed++
		}
	}
	m.logger.Debug("degenerate triangles collapsed",
		zap.Int("candidates", len(slivers)), zap.Int("collapsed", collapsed))
	return collapsed
}

func (m *Mesh) indexOf(t *LabeledTriangle) int {
	for i, u := range m.triangles {
		if u == t {
			return i
		}
	}
	return -1
}

// collapse flattens the sliver t. It reports false when the sliver has to stay.
func (m *Mesh) collapse(t *LabeledTriangle) bool {
	h := heights2(m.geometry(t.V))
	worst := 0
	for i := 1; i < 3; i++ {
		if h[i] < h[worst] {
			worst = i
		}
	}
	v := t.V[worst]
	edge := NewEdge(t.V[(worst+1)%3], t.V[(worst+2)%3])

	if v < 4 || m.onBorder(m.points[v]) || m.pinned(v) {
		return false
	}

	var neighbor *LabeledTriangle
	for _, u := range m.triangles {
		if u != t && u.HasVertex(edge.A) && u.HasVertex(edge.B) {
			neighbor = u
			break
		}
	}
	if neighbor == nil || neighbor.Label != Unknown {
		return false
	}

	a, b := m.points[edge.A], m.points[edge.B]
	ab := b.Sub(a)
	s := m.points[v].Sub(a).Dot(ab) / ab.Len2()
	if s <= 0 || s >= 1 {
		return false
	}

	original := m.points[v]
	triangles := m.triangles
	undo := func() {
		m.points[v] = original
		m.triangles = triangles
	}

	m.points[v] = a.Add(ab.Scale(s))
	w := neighbor.opposite(edge)

	next := make([]*LabeledTriangle, 0, len(triangles)+1)
	for _, u := range triangles {
		switch {
		case u == t || u == neighbor:
			continue
		case u.HasVertex(v):
			before := Triangle{
				P1: m.vertexBefore(u.V[0], v, original),
				P2: m.vertexBefore(u.V[1], v, original),
				P3: m.vertexBefore(u.V[2], v, original),
			}
			rebuilt, err := m.newTriangle(u.V[0], u.V[1], u.V[2], u.Label)
			if err != nil || side3(before) != side3(m.geometry(rebuilt.V)) {
				undo()
				return false
			}
			next = append(next, rebuilt)
		default:
			next = append(next, u)
		}
	}

	for _, split := range [2][3]int{{edge.A, v, w}, {v, edge.B, w}} {
		nt, err := m.newTriangle(split[0], split[1], split[2], Unknown)
		if err != nil {
			undo()
			return false
		}
		next = append(next, nt)
	}

	m.triangles = next
	return true
}

func (m *Mesh) vertexBefore(i, moved int, original Point) Point {
	if i == moved {
		return original
	}
	return m.points[i]
}

// pinned reports whether a labeled triangle uses the vertex.
func (m *Mesh) pinned(v int) bool {
	for _, t := range m.triangles {
		if t.Label != Unknown && t.HasVertex(v) {
			return true
		}
	}
	return false
}

func (m *Mesh) onBorder(p Point) bool {
	const eps = AreaTolerance
	return math.Abs(p.X) <= eps || math.Abs(p.Y) <= eps ||
		math.Abs(p.X-m.width) <= eps || math.Abs(p.Y-m.height) <= eps
}

func side3(t Triangle) int {
	return sign(t.SignedArea())
}
