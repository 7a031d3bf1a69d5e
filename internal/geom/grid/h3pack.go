package grid

import (
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// avgEdgeKm is the average hexagon edge length (equal to the circum-radius)
// per H3 resolution, kilometers.
var avgEdgeKm = [16]float64{
	1281.256011, 483.0568391, 182.5129565, 68.97922179,
	26.07175968, 9.854090990, 3.724532667, 1.406475763,
	0.531414010, 0.200786148, 0.075863783, 0.028663897,
	0.010830188, 0.004092010, 0.001546100, 0.000584169,
}

// h3Resolution picks the coarsest resolution whose hexagons fit inside the
// coverage radius, with headroom for edge length variation across the
// globe.
func h3Resolution(radiusKm float64) int {
	for res := 0; res < len(avgEdgeKm); res++ {
		if avgEdgeKm[res]*1.15 <= radiusKm {
			return res
		}
	}
	return len(avgEdgeKm) - 1
}

// h3Lattice covers the box with H3 cells and emits their centers in
// row-major order.
func h3Lattice(b model.BBox, radiusKm float64) ([]model.GeoPoint, error) {
	loop := h3.GeoLoop{
		{Lat: b.MinLat, Lng: b.MinLon},
		{Lat: b.MinLat, Lng: b.MaxLon},
		{Lat: b.MaxLat, Lng: b.MaxLon},
		{Lat: b.MaxLat, Lng: b.MinLon},
	}
	res := h3Resolution(radiusKm)
	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, res)
	if err != nil {
		return nil, fmt.Errorf("grid: h3 polyfill at res %d: %w", res, err)
	}

	out := make([]model.GeoPoint, 0, len(cells))
	seen := make(map[h3.Cell]struct{}, len(cells))
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		ll, err := h3.CellToLatLng(c)
		if err != nil {
			return nil, fmt.Errorf("grid: h3 cell center: %w", err)
		}
		out = append(out, model.GeoPoint{Lat: ll.Lat, Lon: ll.Lng})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lat != out[j].Lat {
			return out[i].Lat < out[j].Lat
		}
		return out[i].Lon < out[j].Lon
	})
	return out, nil
}
