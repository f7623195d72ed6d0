package labelmesh

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m, err := NewMesh(320, 240)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(11))
	m.InsertPoints(randomPoints(rng, 40, 320, 240))
	_, err = m.Paint(Point{160, 120}, PickSurface, false)
	require.NoError(t, err)
	_, err = m.Paint(Point{20, 200}, Ignore, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSession(&buf, m))
	assert.Contains(t, buf.String(), `"pick-surface"`)

	loaded, err := LoadSession(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Width(), loaded.Width())
	assert.Equal(t, m.Height(), loaded.Height())
	assert.Equal(t, m.Points(), loaded.Points())
	assert.Equal(t, m.Triangles(), loaded.Triangles())

	// The restored mesh keeps accepting edits.
	ok, err := loaded.InsertPoint(Point{300, 10}, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assertValidTriangulation(t, loaded)
}

func TestLoadSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"syntax", `{"version":`},
		{"version", `{"version":2,"width":10,"height":10}`},
		{"canvas", `{"version":1,"width":0,"height":10}`},
		{"corners", `{"version":1,"width":10,"height":10,"points":[{"x":0,"y":0}]}`},
		{"index", `{"version":1,"width":10,"height":10,
			"points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10}],
			"triangles":[{"v":[0,1,9],"label":"unknown"}]}`},
		{"label", `{"version":1,"width":10,"height":10,
			"points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10}],
			"triangles":[{"v":[0,1,2],"label":"sky"}]}`},
		{"degenerate", `{"version":1,"width":10,"height":10,
			"points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10},{"x":5,"y":0}],
			"triangles":[{"v":[0,1,4],"label":"unknown"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSession(strings.NewReader(tt.json))
			assert.Error(t, err)
		})
	}
}
