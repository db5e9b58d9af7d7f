package export

import (
	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// GeoJSON encodes outputs as a FeatureCollection with one Polygon feature
// per output. Rings are closed and keep the clip winding; empty outputs
// become polygons with no rings.
func GeoJSON(outputs []pipeline.Output) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, o := range outputs {
		f := geojson.NewFeature(toOrb(o.Polygon))
		f.Properties["name"] = o.Name
		f.Properties["subject"] = o.Subject
		f.Properties["region"] = o.Region
		f.Properties["area"] = o.Polygon.Area()
		f.Properties["vertices"] = len(o.Polygon)
		if o.Agreement != nil {
			f.Properties["agreement"] = o.Agreement.Ratio()
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "export: geojson")
	}
	return data, nil
}

func toOrb(p geom.Polygon) orb.Polygon {
	if p.IsEmpty() {
		return orb.Polygon{}
	}
	ring := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
