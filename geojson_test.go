package labelmesh

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalGeoJSON(t *testing.T) {
	m := frameMesh(t, Lead)
	regions, err := m.Regions()
	require.NoError(t, err)

	data, err := MarshalGeoJSON(regions)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, len(regions))

	for i, f := range fc.Features {
		polygon, ok := f.Geometry.(orb.Polygon)
		require.True(t, ok, "feature %d is a %T", i, f.Geometry)
		require.Len(t, polygon, len(regions[i].Holes)+1)

		for _, ring := range polygon {
			assert.True(t, ring.Closed(), "ring of feature %d is open", i)
		}
		assert.Equal(t, orb.CW, polygon[0].Orientation())
		for _, hole := range polygon[1:] {
			assert.Equal(t, orb.CCW, hole.Orientation())
		}

		assert.Equal(t, regions[i].Label.String(), f.Properties.MustString("label"))
		assert.EqualValues(t, regions[i].ID, f.Properties.MustInt("id"))
	}
}
