// Package boundary normalizes heterogeneous boundary input into the
// single-polygon form the rest of the pipeline consumes.
package boundary

import (
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// NoPolygonGeometryError reports boundary input containing no Polygon or
// MultiPolygon geometry.
type NoPolygonGeometryError struct {
	Root string
}

func (e *NoPolygonGeometryError) Error() string {
	return fmt.Sprintf("boundary: no polygon geometry found in %s input", e.Root)
}

// Normalize parses GeoJSON boundary input and returns its boundary
// geometry. The search order is: a bare Polygon/MultiPolygon geometry is
// used directly; a Feature contributes its geometry; a FeatureCollection
// contributes the geometry of its first feature whose geometry is a
// Polygon or MultiPolygon, in collection order.
func Normalize(data []byte) (model.Boundary, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return model.Boundary{}, fmt.Errorf("boundary: parse geojson: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return model.Boundary{}, fmt.Errorf("boundary: parse feature collection: %w", err)
		}
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if b, ok := fromGeometry(f.Geometry); ok {
				return b, nil
			}
		}
		return model.Boundary{}, &NoPolygonGeometryError{Root: "FeatureCollection"}

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return model.Boundary{}, fmt.Errorf("boundary: parse feature: %w", err)
		}
		if f.Geometry != nil {
			if b, ok := fromGeometry(f.Geometry); ok {
				return b, nil
			}
		}
		return model.Boundary{}, &NoPolygonGeometryError{Root: "Feature"}

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return model.Boundary{}, fmt.Errorf("boundary: parse geometry: %w", err)
		}
		if b, ok := fromGeometry(g); ok {
			return b, nil
		}
		return model.Boundary{}, &NoPolygonGeometryError{Root: string(g.Type)}
	}
}

// FromRing wraps a hull ring into a hole-free boundary.
func FromRing(r model.Ring) model.Boundary {
	return model.Boundary{Polygons: []model.Polygon{{Outer: r.Close()}}}
}

func fromGeometry(g *geojson.Geometry) (model.Boundary, bool) {
	switch {
	case g.IsPolygon():
		p, ok := toPolygon(g.Polygon)
		if !ok {
			return model.Boundary{}, false
		}
		return model.Boundary{Polygons: []model.Polygon{p}}, true
	case g.IsMultiPolygon():
		var polys []model.Polygon
		for _, rings := range g.MultiPolygon {
			if p, ok := toPolygon(rings); ok {
				polys = append(polys, p)
			}
		}
		if len(polys) == 0 {
			return model.Boundary{}, false
		}
		return model.Boundary{Polygons: polys}, true
	default:
		return model.Boundary{}, false
	}
}

// toPolygon converts GeoJSON [ring][i][lon,lat] coordinates. Rings are
// closed if the input left them open.
func toPolygon(rings [][][]float64) (model.Polygon, bool) {
	if len(rings) == 0 {
		return model.Polygon{}, false
	}
	outer, ok := toRing(rings[0])
	if !ok {
		return model.Polygon{}, false
	}
	var holes []model.Ring
	for _, raw := range rings[1:] {
		if h, ok := toRing(raw); ok {
			holes = append(holes, h)
		}
	}
	return model.Polygon{Outer: outer, Holes: holes}, true
}

func toRing(coords [][]float64) (model.Ring, bool) {
	ring := make(model.Ring, 0, len(coords)+1)
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ring = append(ring, model.GeoPoint{Lat: c[1], Lon: c[0]})
	}
	ring = ring.Close()
	if len(ring) < 4 {
		return nil, false
	}
	return ring, true
}
