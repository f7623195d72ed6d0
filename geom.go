package labelmesh

import (
	"math"

	"github.com/pkg/errors"
)

// AreaTolerance is the relative tolerance used by the area-sum containment test
// and by the collinearity checks. Exact float equality misclassifies points that
// sit on a shared edge, which is exactly where clicks tend to land.
const AreaTolerance = 1e-9

// degenerateDenominator is the smallest circumcircle denominator accepted before
// a triangle is reported as degenerate.
const degenerateDenominator = 1e-10

// Point defines a struct having as components the point X and Y coordinate position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector is the difference between two points.
type Vector struct {
	X, Y float64
}

// Sub returns the vector pointing from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add translates the point by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Dist2 returns the squared distance between two points.
func (p Point) Dist2(q Point) float64 {
	return p.Sub(q).Len2()
}

// Cross returns the z component of the 2D cross product.
func (v Vector) Cross(w Vector) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Dot returns the dot product of two vectors.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Len2 returns the squared length of the vector.
func (v Vector) Len2() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Scale multiplies the vector by a scalar.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Edge is an unordered pair of point indices. NewEdge stores the smaller index
// first so that an edge and its reverse share the same map key.
type Edge struct {
	A, B int
}

// NewEdge returns the canonical edge between the points a and b.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Has reports whether i is one of the edge endpoints.
func (e Edge) Has(i int) bool {
	return e.A == i || e.B == i
}

// Other returns the endpoint opposite to i.
func (e Edge) Other(i int) int {
	if e.A == i {
		return e.B
	}
	return e.A
}

// Circle is the circumcircle of a triangle.
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return p.Dist2(c.Center) <= c.Radius*c.Radius
}

// Triangle is a coordinate triple. No winding order is enforced.
type Triangle struct {
	P1, P2, P3 Point
}

// Edges returns the three boundary segments (p1,p2), (p2,p3), (p3,p1).
func (t Triangle) Edges() [3][2]Point {
	return [3][2]Point{{t.P1, t.P2}, {t.P2, t.P3}, {t.P3, t.P1}}
}

// SignedArea is positive for counterclockwise triangles.
func (t Triangle) SignedArea() float64 {
	return t.P2.Sub(t.P1).Cross(t.P3.Sub(t.P1)) / 2
}

// Area returns the absolute triangle area.
func (t Triangle) Area() float64 {
	return math.Abs(t.SignedArea())
}

// Circumcircle solves the determinant system for the point equidistant from the
// three vertices. Near-collinear triangles have no usable circumcircle and
// return ErrDegenerateGeometry.
func (t Triangle) Circumcircle() (Circle, error) {
	p0, p1, p2 := t.P1, t.P2, t.P3

	ax, ay := p1.X-p0.X, p1.Y-p0.Y
	bx, by := p2.X-p0.X, p2.Y-p0.Y
	d := 2 * (ax*by - ay*bx)
	if math.Abs(d) < degenerateDenominator {
		return Circle{}, errors.Wrapf(ErrDegenerateGeometry,
			"circumcircle of (%g,%g) (%g,%g) (%g,%g)", p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	}

	m := ax*ax + ay*ay
	u := bx*bx + by*by
	center := Point{
		X: p0.X + (by*m-ay*u)/d,
		Y: p0.Y + (ax*u-bx*m)/d,
	}
	return Circle{
		Center: center,
		Radius: math.Sqrt(center.Dist2(p0)),
	}, nil
}

// Contains tests whether p lies inside the triangle or on its boundary by
// comparing the triangle area with the sum of the three sub-triangle areas.
func (t Triangle) Contains(p Point) bool {
	area := t.Area()
	sum := Triangle{p, t.P1, t.P2}.Area() +
		Triangle{p, t.P2, t.P3}.Area() +
		Triangle{p, t.P3, t.P1}.Area()

	return math.Abs(sum-area) <= AreaTolerance*math.Max(area, 1)
}

// Between reports whether the ray v lies strictly between the rays v1 and v2.
// A ray collinear with either bound is never between them.
func Between(v, v1, v2 Vector) bool {
	s1 := sign(v.Cross(v1))
	s2 := sign(v.Cross(v2))
	return s1 != 0 && s2 != 0 && s1 != s2
}

// SignedArea computes the shoelace area of a closed loop. The loop must not
// repeat its first point at the end.
func SignedArea(loop []Point) float64 {
	var sum float64
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Clockwise reports whether the loop winds clockwise, i.e. has a negative shoelace area.
func Clockwise(loop []Point) bool {
	return SignedArea(loop) < 0
}

// Reverse reverses the loop in place.
func Reverse(loop []Point) {
	for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
		loop[i], loop[j] = loop[j], loop[i]
	}
}

// orient returns the cross product of (b-a) and (p-a): positive when p is on the
// left of the directed line a→b.
func orient(a, b, p Point) float64 {
	return b.Sub(a).Cross(p.Sub(a))
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(a, b, p Point) bool {
	ab := b.Sub(a)
	if math.Abs(orient(a, b, p)) > AreaTolerance*math.Max(ab.Len2(), 1) {
		return false
	}
	t := p.Sub(a).Dot(ab)
	return t >= 0 && t <= ab.Len2()
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
