// Package hull builds convex hulls over coordinate sets.
package hull

import (
	"fmt"
	"sort"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// DegenerateHullError reports input from which no area-enclosing hull can
// be formed: fewer than 3 distinct points, or all points collinear.
type DegenerateHullError struct {
	Distinct int
}

func (e *DegenerateHullError) Error() string {
	return fmt.Sprintf("hull: degenerate input, %d distinct points span no area", e.Distinct)
}

// Build computes the convex hull of the input with Andrew's monotone
// chain. Vertices are a subset of the input; the returned ring is closed
// and counter-clockwise. Duplicates and collinear points are tolerated on
// input and absent from the result.
func Build(points []model.GeoPoint) (model.Ring, error) {
	pts := dedupSorted(points)
	if len(pts) < 3 {
		return nil, &DegenerateHullError{Distinct: len(pts)}
	}

	// lower chain, then upper chain, discarding non-left turns
	var lower []model.GeoPoint
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []model.GeoPoint
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	ring := model.Ring(append(lower[:len(lower)-1], upper[:len(upper)-1]...))
	if len(ring) < 3 {
		return nil, &DegenerateHullError{Distinct: len(pts)}
	}
	return ring.Close(), nil
}

// cross is the z-component of (b-a) x (c-a) in (lon, lat) coordinates.
// Positive means the triple a,b,c turns left.
func cross(a, b, c model.GeoPoint) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// dedupSorted sorts lexicographically by (lon, lat) and drops exact
// duplicates, without touching the caller's slice.
func dedupSorted(points []model.GeoPoint) []model.GeoPoint {
	pts := make([]model.GeoPoint, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Lon != pts[j].Lon {
			return pts[i].Lon < pts[j].Lon
		}
		return pts[i].Lat < pts[j].Lat
	})
	out := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			out = append(out, p)
		}
	}
	return out
}
