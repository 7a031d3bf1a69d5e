// Package model defines core domain types shared across the pipeline.
package model

import "fmt"

// GeoPoint is a WGS84 coordinate in decimal degrees. Treat as immutable.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewGeoPoint validates coordinate ranges.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("latitude %v out of range [-90,90]", lat)
	}
	if lon < -180 || lon > 180 {
		return GeoPoint{}, fmt.Errorf("longitude %v out of range [-180,180]", lon)
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// String representation matching the output line coordinate format.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// Ring is an ordered closed vertex loop (first == last).
type Ring []GeoPoint

// Closed reports whether the ring explicitly repeats its first vertex.
func (r Ring) Closed() bool {
	if len(r) < 4 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Close appends the first vertex if the ring is not explicitly closed.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(r, r[0])
}

// SignedArea computes the shoelace area in degree units. Positive means
// counter-clockwise vertex order.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += (r[j].Lon + r[i].Lon) * (r[j].Lat - r[i].Lat)
	}
	return -sum / 2
}

// Reverse returns a copy with opposite orientation.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// BBox returns the ring's bounding extent.
func (r Ring) BBox() BBox {
	b := BBox{MinLat: 90, MinLon: 180, MaxLat: -90, MaxLon: -180}
	for _, p := range r {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b
}

// Polygon is one outer ring plus zero or more hole rings.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// BBox returns the outer ring's bounding extent.
func (p Polygon) BBox() BBox { return p.Outer.BBox() }

// Boundary is a set of polygons (a MultiPolygon).
type Boundary struct {
	Polygons []Polygon
}

// First returns the first constituent polygon. Downstream stages operate
// on a single polygon; callers log the simplification when more than one
// is present.
func (b Boundary) First() (Polygon, bool) {
	if len(b.Polygons) == 0 {
		return Polygon{}, false
	}
	return b.Polygons[0], true
}

// BBox covers latitude/longitude extent, degrees.
type BBox struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// CoverageRequest is the caller-owned pipeline input. The pipeline only
// reads it.
type CoverageRequest struct {
	Boundary Boundary
	Label    string
	RadiusKm float64
}

// OutputBatch is a size-bounded group of formatted result lines. Never
// mutated after creation; ownership transfers to the consumer on emission.
type OutputBatch struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// ProgressEvent reports candidate evaluation progress. Processed is
// monotonically non-decreasing within one run.
type ProgressEvent struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}
