package labelmesh

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ringOf closes the loop by repeating its first point.
func ringOf(loop []Point) orb.Ring {
	ring := make(orb.Ring, 0, len(loop)+1)
	for _, p := range loop {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(loop) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Polygon converts the region into an orb polygon: the hull ring first, then
// one ring per hole. Coordinates stay in image space (y pointing down).
func (r Region) Polygon() orb.Polygon {
	polygon := make(orb.Polygon, 0, len(r.Holes)+1)
	polygon = append(polygon, ringOf(r.Hull))
	for _, h := range r.Holes {
		polygon = append(polygon, ringOf(h))
	}
	return polygon
}

// FeatureCollection wraps every region into a polygon feature carrying its id
// and label name as properties.
func FeatureCollection(regions []Region) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range regions {
		f := geojson.NewFeature(r.Polygon())
		f.Properties = geojson.Properties{
			"id":    r.ID,
			"label": r.Label.String(),
		}
		fc.Append(f)
	}
	return fc
}

// MarshalGeoJSON encodes the regions as a GeoJSON feature collection.
func MarshalGeoJSON(regions []Region) ([]byte, error) {
	data, err := FeatureCollection(regions).MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encoding regions")
	}
	return data, nil
}
