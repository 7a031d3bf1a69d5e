// Package geo provides the geodesic math used by the coverage pipeline.
package geo

import (
	"math"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// EarthRadiusKm is the mean earth radius.
const EarthRadiusKm = 6371.0

// KmPerDegreeLat is the meridian arc length of one degree of latitude.
const KmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// Haversine computes the great-circle distance between two points in km.
func Haversine(a, b model.GeoPoint) float64 {
	φ1 := a.Lat * math.Pi / 180
	φ2 := b.Lat * math.Pi / 180
	Δφ := (b.Lat - a.Lat) * math.Pi / 180
	Δλ := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// North moves distKm due north along the meridian.
func North(p model.GeoPoint, distKm float64) model.GeoPoint {
	lat := p.Lat + distKm/KmPerDegreeLat
	if lat > 90 {
		lat = 90
	}
	return model.GeoPoint{Lat: lat, Lon: p.Lon}
}

// East moves distKm due east along the parallel. Keeping latitude constant
// gives uniform spacing within a grid row at any latitude.
func East(p model.GeoPoint, distKm float64) model.GeoPoint {
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 1e-12 {
		return p // at the pole every direction is north
	}
	lon := p.Lon + distKm/(KmPerDegreeLat*cosLat)
	return model.GeoPoint{Lat: p.Lat, Lon: lon}
}

// PointToSegmentKm returns the distance from p to the segment a-b, using a
// local equirectangular frame centered on p. Accurate for regional extents.
func PointToSegmentKm(p, a, b model.GeoPoint) float64 {
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	ax := (a.Lon - p.Lon) * KmPerDegreeLat * cosLat
	ay := (a.Lat - p.Lat) * KmPerDegreeLat
	bx := (b.Lon - p.Lon) * KmPerDegreeLat * cosLat
	by := (b.Lat - p.Lat) * KmPerDegreeLat

	dx, dy := bx-ax, by-ay
	segLen2 := dx*dx + dy*dy
	if segLen2 == 0 {
		return math.Hypot(ax, ay)
	}
	t := -(ax*dx + ay*dy) / segLen2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(ax+t*dx, ay+t*dy)
}

// DistanceToRingKm returns the minimum distance from p to any edge of the
// ring.
func DistanceToRingKm(p model.GeoPoint, r model.Ring) float64 {
	min := math.Inf(1)
	for i := 0; i+1 < len(r); i++ {
		if d := PointToSegmentKm(p, r[i], r[i+1]); d < min {
			min = d
		}
	}
	return min
}
