// Package pip implements point-in-polygon containment tests.
//
// The test is a ray cast with even-odd parity: a point counts as inside
// the polygon when it is inside the outer ring and outside every hole.
// Points exactly on a boundary edge are excluded; the parity rule makes
// that behavior consistent across runs.
package pip

import (
	"fmt"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// NoPointsInRegionError reports a non-empty region that no lattice point
// landed in.
type NoPointsInRegionError struct {
	Candidates int
}

func (e *NoPointsInRegionError) Error() string {
	return fmt.Sprintf("pip: none of %d candidate points fall inside the region", e.Candidates)
}

// Inside reports whether p lies inside the polygon.
func Inside(p model.GeoPoint, poly model.Polygon) bool {
	if !inRing(p, poly.Outer) {
		return false
	}
	for _, h := range poly.Holes {
		if inRing(p, h) {
			return false
		}
	}
	return true
}

// Filter returns the ordered subsequence of candidates inside the polygon.
func Filter(candidates []model.GeoPoint, poly model.Polygon) ([]model.GeoPoint, error) {
	out := make([]model.GeoPoint, 0, len(candidates))
	for _, p := range candidates {
		if Inside(p, poly) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, &NoPointsInRegionError{Candidates: len(candidates)}
	}
	return out, nil
}

// inRing casts a ray eastward and counts edge crossings.
func inRing(p model.GeoPoint, ring model.Ring) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[j].Lat, ring[j].Lon
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
