package labelmesh

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEdgeIsCanonical(t *testing.T) {
	assert.Equal(t, Edge{A: 2, B: 7}, NewEdge(7, 2))
	assert.Equal(t, NewEdge(2, 7), NewEdge(7, 2))
	assert.True(t, NewEdge(3, 4).Has(4))
	assert.Equal(t, 3, NewEdge(3, 4).Other(4))
}

func TestCircumcircle(t *testing.T) {
	tri := Triangle{Point{0, 0}, Point{4, 0}, Point{0, 3}}
	c, err := tri.Circumcircle()
	require.NoError(t, err)

	assert.InDelta(t, 2, c.Center.X, 1e-12)
	assert.InDelta(t, 1.5, c.Center.Y, 1e-12)
	assert.InDelta(t, 2.5, c.Radius, 1e-12)

	for _, p := range []Point{tri.P1, tri.P2, tri.P3} {
		assert.InDelta(t, c.Radius, math.Sqrt(p.Dist2(c.Center)), 1e-9)
	}
	assert.True(t, c.Contains(Point{2, 1.5}))
	assert.True(t, c.Contains(Point{4, 0}), "points on the circle are inside")
	assert.False(t, c.Contains(Point{5, 5}))
}

func TestCircumcircleDegenerate(t *testing.T) {
	_, err := Triangle{Point{0, 0}, Point{1, 1}, Point{2, 2}}.Circumcircle()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateGeometry))
}

func TestTriangleContains(t *testing.T) {
	tri := Triangle{Point{0, 0}, Point{10, 0}, Point{0, 10}}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{2, 2}, true},
		{"vertex", Point{10, 0}, true},
		{"on edge", Point{5, 5}, true},
		{"on edge within tolerance", Point{5, 5 + 1e-12}, true},
		{"outside", Point{6, 6}, false},
		{"behind vertex", Point{-1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tri.Contains(tt.p))
		})
	}
}

func TestBetween(t *testing.T) {
	v1, v2 := Vector{1, 0}, Vector{0, 1}

	assert.True(t, Between(Vector{1, 1}, v1, v2))
	assert.False(t, Between(Vector{-1, 2}, v1, v2))
	assert.False(t, Between(Vector{2, 0}, v1, v2), "collinear with a bound")
}

func TestSignedAreaAndOrientation(t *testing.T) {
	// Counterclockwise in a y-up frame.
	loop := []Point{{0, 0}, {4, 0}, {4, 3}, {0, 3}}
	assert.InDelta(t, 12, SignedArea(loop), 1e-12)
	assert.False(t, Clockwise(loop))

	Reverse(loop)
	assert.InDelta(t, -12, SignedArea(loop), 1e-12)
	assert.True(t, Clockwise(loop))
	assert.Equal(t, Point{0, 3}, loop[0])
}

func TestOnSegment(t *testing.T) {
	a, b := Point{0, 0}, Point{10, 0}
	assert.True(t, onSegment(a, b, Point{5, 0}))
	assert.True(t, onSegment(a, b, b))
	assert.False(t, onSegment(a, b, Point{11, 0}))
	assert.False(t, onSegment(a, b, Point{5, 1}))
}

func TestBlocks(t *testing.T) {
	p := Point{0, 0}
	a, b := Point{2, -1}, Point{2, 1}

	assert.True(t, blocks(p, Point{4, 0}, a, b), "segment crosses the occluder")
	assert.False(t, blocks(p, Point{1, 0}, a, b), "vertex in front of the occluder")
	assert.False(t, blocks(p, Point{4, 4}, a, b), "outside the occluder wedge")
}
