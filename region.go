package labelmesh

import (
	"math"

	"github.com/pkg/errors"
)

// Region is a maximal edge-connected set of equally labeled triangles, described
// by its outer boundary and the boundaries of its holes.
// The hull winds clockwise, holes wind counterclockwise.
type Region struct {
	ID    int
	Label Label
	Hull  []Point
	Holes [][]Point
}

// Area returns the hull area minus the area of the holes.
func (r Region) Area() float64 {
	area := math.Abs(SignedArea(r.Hull))
	for _, h := range r.Holes {
		area -= math.Abs(SignedArea(h))
	}
	return area
}

// Contains reports whether p is inside the region using the even-odd rule.
func (r Region) Contains(p Point) bool {
	inside := crossings(r.Hull, p)
	for _, h := range r.Holes {
		if crossings(h, p) {
			inside = !inside
		}
	}
	return inside
}

// crossings casts a horizontal ray from p and reports an odd number of crossings.
func crossings(loop []Point, p Point) bool {
	inside := false
	for i, j := 0, len(loop)-1; i < len(loop); j, i = i, i+1 {
		a, b := loop[i], loop[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Regions groups the mesh triangles into labeled regions. It is recomputed on
// every call. Unknown, Background and Ignore regions always use their label
// ordinal as id; every other region gets the next id starting from 3, in
// discovery order.
func (m *Mesh) Regions() ([]Region, error) {
	components := connectedTriangles(m.triangles)
	regions := make([]Region, 0, len(components))

	next := 3
	for _, component := range components {
		tris := make([]*LabeledTriangle, len(component))
		for i, j := range component {
			tris[i] = m.triangles[j]
		}
		label := tris[0].Label

		loops, err := boundaryLoops(m.boundaryArcs(tris), m.points)
		if err != nil {
			return nil, errors.Wrapf(err, "%s region of %d triangles", label, len(tris))
		}

		region := Region{Label: label}
		if label.Intrinsic() {
			region.ID = int(label)
		} else {
			region.ID = next
			next++
		}
		region.Hull, region.Holes = m.orient(loops)
		regions = append(regions, region)
	}
	return regions, nil
}

// orient resolves the loops into coordinates, picks the loop with the largest
// absolute area as hull and winds it clockwise; the others become
// counterclockwise holes.
func (m *Mesh) orient(loops [][]int) ([]Point, [][]Point) {
	var (
		hull    []Point
		holes   [][]Point
		largest = -1.0
		index   = -1
	)
	polygons := make([][]Point, len(loops))
	for i, loop := range loops {
		polygon := make([]Point, len(loop))
		for j, v := range loop {
			polygon[j] = m.points[v]
		}
		polygons[i] = polygon
		if area := math.Abs(SignedArea(polygon)); area > largest {
			largest = area
			index = i
		}
	}

	for i, polygon := range polygons {
		if i == index {
			if !Clockwise(polygon) {
				Reverse(polygon)
			}
			hull = polygon
			continue
		}
		if Clockwise(polygon) {
			Reverse(polygon)
		}
		holes = append(holes, polygon)
	}
	return hull, holes
}

// edgeAdjacency maps every edge to the triangles using it.
func edgeAdjacency(tris []*LabeledTriangle) map[Edge][]int {
	adjacency := make(map[Edge][]int, len(tris)*3/2)
	for i, t := range tris {
		for _, e := range t.Edges() {
			adjacency[e] = append(adjacency[e], i)
		}
	}
	return adjacency
}

// componentOf walks from triangle start across shared edges to every triangle
// carrying the same label.
func componentOf(tris []*LabeledTriangle, adjacency map[Edge][]int, start int) []int {
	return walk(tris, adjacency, start, make([]bool, len(tris)))
}

func walk(tris []*LabeledTriangle, adjacency map[Edge][]int, start int, visited []bool) []int {
	label := tris[start].Label
	component := []int{start}
	visited[start] = true

	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range tris[i].Edges() {
			for _, j := range adjacency[e] {
				if visited[j] || tris[j].Label != label {
					continue
				}
				visited[j] = true
				component = append(component, j)
				stack = append(stack, j)
			}
		}
	}
	return component
}

// connectedTriangles partitions the triangles into same-label components,
// in the order their first triangle appears.
func connectedTriangles(tris []*LabeledTriangle) [][]int {
	adjacency := edgeAdjacency(tris)
	visited := make([]bool, len(tris))

	var components [][]int
	for i := range tris {
		if visited[i] {
			continue
		}
		components = append(components, walk(tris, adjacency, i, visited))
	}
	return components
}

// boundaryEdges returns the edges used by exactly one of the triangles, in the
// order they first appear.
func boundaryEdges(tris []*LabeledTriangle) []Edge {
	count := make(map[Edge]int, len(tris)*3)
	for _, t := range tris {
		for _, e := range t.Edges() {
			count[e]++
		}
	}

	var edges []Edge
	for _, t := range tris {
		for _, e := range t.Edges() {
			if count[e] == 1 {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// arc is a boundary edge directed so that its triangle lies on its left.
type arc struct {
	from, to int
}

// boundaryArcs returns the boundary edges of the triangles, each directed along
// the counterclockwise (positive area) winding of the triangle owning it.
func (m *Mesh) boundaryArcs(tris []*LabeledTriangle) []arc {
	count := make(map[Edge]int, len(tris)*3)
	for _, t := range tris {
		for _, e := range t.Edges() {
			count[e]++
		}
	}

	var arcs []arc
	for _, t := range tris {
		v := t.V
		if m.geometry(v).SignedArea() < 0 {
			v[1], v[2] = v[2], v[1]
		}
		for i := 0; i < 3; i++ {
			a, b := v[i], v[(i+1)%3]
			if count[NewEdge(a, b)] == 1 {
				arcs = append(arcs, arc{from: a, to: b})
			}
		}
	}
	return arcs
}

// boundaryLoops chains the boundary arcs into closed vertex loops. Every vertex
// must have an even number of boundary edges, as many leaving as entering it.
// Where several loops meet at a vertex the walk takes the tightest turn, so
// each loop is simple: outer boundaries have a positive area, holes a negative
// one. A loop does not repeat its first vertex.
func boundaryLoops(arcs []arc, points []Point) ([][]int, error) {
	out := make(map[int][]int)
	degree := make(map[int]int)
	for i, a := range arcs {
		out[a.from] = append(out[a.from], i)
		degree[a.from]++
		degree[a.to]++
	}
	for _, a := range arcs {
		for _, v := range [2]int{a.from, a.to} {
			if degree[v]%2 != 0 {
				return nil, errors.Wrapf(ErrMalformedBoundary, "vertex %d has degree %d", v, degree[v])
			}
			if 2*len(out[v]) != degree[v] {
				return nil, errors.Wrapf(ErrMalformedBoundary, "vertex %d has %d of %d edges leaving it",
					v, len(out[v]), degree[v])
			}
		}
	}

	used := make([]bool, len(arcs))
	var loops [][]int
	for start := range arcs {
		if used[start] {
			continue
		}

		var loop []int
		for cur := start; ; {
			used[cur] = true
			loop = append(loop, arcs[cur].from)

			next := tightestTurn(arcs, out[arcs[cur].to], arcs[cur], points)
			if next == start {
				break
			}
			if next < 0 || used[next] || len(loop) > len(arcs) {
				return nil, errors.Wrapf(ErrMalformedBoundary, "boundary walk from vertex %d does not close", arcs[start].from)
			}
			cur = next
		}
		loops = append(loops, loop)
	}
	return loops, nil
}

// tightestTurn picks, among the arcs leaving the end of in, the one reached
// first when rotating clockwise from the reversed direction of in.
func tightestTurn(arcs []arc, candidates []int, in arc, points []Point) int {
	v := points[in.to]
	back := points[in.from].Sub(v)

	best, bestAngle := -1, 0.0
	for _, i := range candidates {
		dir := points[arcs[i].to].Sub(v)
		angle := math.Atan2(dir.Cross(back), dir.Dot(back))
		if angle <= 0 {
			angle += 2 * math.Pi
		}
		if best < 0 || angle < bestAngle {
			best, bestAngle = i, angle
		}
	}
	return best
}
