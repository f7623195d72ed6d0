package labelmesh

import "math"

// cavity splits the mesh into the triangles retained around the new point pi
// and the triangles removed to make room for it. The seeds are the indices of
// the triangles containing the point; they are always removed.
//
// Labeled triangles are never removed. Unlabeled triangles whose circumcircle
// holds the point are removed unless none of their vertices is visible from the
// point, they are cut off from the seeds, or one of their cavity boundary edges
// turns its back to the point. The result is a cavity which is star-shaped with
// respect to the point.
func (m *Mesh) cavity(pi int, seeds []int) (retained, removed []*LabeledTriangle) {
	p := m.points[pi]

	seed := make(map[int]bool, len(seeds))
	for _, i := range seeds {
		seed[i] = true
	}

	var bad []*LabeledTriangle
	var badIdx []int
	for i, t := range m.triangles {
		if t.Label != Unknown {
			continue
		}
		if seed[i] || t.circle.Contains(p) {
			bad = append(bad, t)
			badIdx = append(badIdx, i)
		}
	}

	occluders := boundaryEdges(bad)
	candidate := make(map[int]bool, len(badIdx))
	for _, i := range badIdx {
		if seed[i] || m.visible(p, m.triangles[i], occluders) {
			candidate[i] = true
		}
	}

	for {
		m.connect(candidate, seeds)
		if !m.shrink(p, candidate, seed) {
			break
		}
	}

	for i, t := range m.triangles {
		if candidate[i] {
			removed = append(removed, t)
		} else {
			retained = append(retained, t)
		}
	}
	return retained, removed
}

// visible reports whether at least one vertex of t can be seen from p without
// the sight line crossing an occluding edge.
func (m *Mesh) visible(p Point, t *LabeledTriangle, occluders []Edge) bool {
	for _, v := range t.V {
		hidden := false
		for _, e := range occluders {
			if e.Has(v) {
				continue
			}
			if blocks(p, m.points[v], m.points[e.A], m.points[e.B]) {
				hidden = true
				break
			}
		}
		if !hidden {
			return true
		}
	}
	return false
}

// blocks reports whether the segment ab hides v from p: the ray p→v lies
// strictly between p→a and p→b and the segment p→v crosses ab before reaching v.
func blocks(p, v, a, b Point) bool {
	pv := v.Sub(p)
	if !Between(pv, a.Sub(p), b.Sub(p)) {
		return false
	}

	ab := b.Sub(a)
	den := pv.Cross(ab)
	if math.Abs(den) < degenerateDenominator {
		return false
	}
	ap := a.Sub(p)
	t := ap.Cross(ab) / den
	s := ap.Cross(pv) / den

	return t > 0 && t < 1-AreaTolerance && s > 0 && s < 1
}

// connect drops every candidate that cannot be reached from a seed by walking
// across edges shared by candidates.
func (m *Mesh) connect(candidate map[int]bool, seeds []int) {
	adjacency := make(map[Edge][]int)
	for i := range candidate {
		for _, e := range m.triangles[i].Edges() {
			adjacency[e] = append(adjacency[e], i)
		}
	}

	reached := make(map[int]bool, len(candidate))
	stack := make([]int, 0, len(seeds))
	for _, i := range seeds {
		if candidate[i] && !reached[i] {
			reached[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range m.triangles[i].Edges() {
			for _, j := range adjacency[e] {
				if !reached[j] {
					reached[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	for i := range candidate {
		if !reached[i] {
			delete(candidate, i)
		}
	}
}

// shrink drops non-seed candidates with a cavity boundary edge that does not
// face p. It reports whether anything was dropped.
func (m *Mesh) shrink(p Point, candidate map[int]bool, seed map[int]bool) bool {
	count := make(map[Edge]int)
	for i := range candidate {
		for _, e := range m.triangles[i].Edges() {
			count[e]++
		}
	}

	var drop []int
	for i := range candidate {
		if seed[i] {
			continue
		}
		t := m.triangles[i]
		for _, e := range t.Edges() {
			if count[e] != 1 {
				continue
			}
			a, b, c := m.points[e.A], m.points[e.B], m.points[t.opposite(e)]
			if !faces(a, b, c, p) {
				drop = append(drop, i)
				break
			}
		}
	}
	for _, i := range drop {
		delete(candidate, i)
	}
	return len(drop) > 0
}

// faces reports whether p lies on the same side of the line ab as c, or on the
// segment ab itself.
func faces(a, b, c, p Point) bool {
	if onSegment(a, b, p) {
		return true
	}
	sp := side(a, b, p)
	return sp != 0 && sp == side(a, b, c)
}

// side is the sign of orient(a, b, p) with values within tolerance of the line
// treated as zero.
func side(a, b, p Point) int {
	o := orient(a, b, p)
	if math.Abs(o) <= AreaTolerance*math.Max(b.Sub(a).Len2(), 1) {
		return 0
	}
	return sign(o)
}
