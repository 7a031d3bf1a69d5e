package offset

import (
	"math"

	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/geom/geo"
)

// planarPoint is a position in the local tangent frame, in kilometers.
type planarPoint struct {
	X, Y float64
}

// projection is an equirectangular frame centered on a ring's vertex
// centroid. Valid for regional extents; distortion grows with the ring's
// latitude span.
type projection struct {
	lat0, lon0 float64
	cosLat0    float64
}

func newProjection(r model.Ring) projection {
	n := len(r)
	if r.Closed() {
		n--
	}
	var lat, lon float64
	for _, p := range r[:n] {
		lat += p.Lat
		lon += p.Lon
	}
	lat /= float64(n)
	lon /= float64(n)
	return projection{lat0: lat, lon0: lon, cosLat0: math.Cos(lat * math.Pi / 180)}
}

func (pr projection) forward(p model.GeoPoint) planarPoint {
	return planarPoint{
		X: (p.Lon - pr.lon0) * geo.KmPerDegreeLat * pr.cosLat0,
		Y: (p.Lat - pr.lat0) * geo.KmPerDegreeLat,
	}
}

func (pr projection) inverse(q planarPoint) model.GeoPoint {
	return model.GeoPoint{
		Lat: pr.lat0 + q.Y/geo.KmPerDegreeLat,
		Lon: pr.lon0 + q.X/(geo.KmPerDegreeLat*pr.cosLat0),
	}
}

func sub(a, b planarPoint) planarPoint { return planarPoint{a.X - b.X, a.Y - b.Y} }

func cross2(a, b planarPoint) float64 { return a.X*b.Y - a.Y*b.X }

func norm(a planarPoint) float64 { return math.Hypot(a.X, a.Y) }

// signedArea of a planar loop without a closing vertex. Positive is
// counter-clockwise.
func signedArea(pts []planarPoint) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += pts[j].X*pts[i].Y - pts[i].X*pts[j].Y
	}
	return sum / 2
}

// pointInLoop is a planar ray cast over a loop without a closing vertex.
func pointInLoop(p planarPoint, loop []planarPoint) bool {
	inside := false
	n := len(loop)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := loop[i].X, loop[i].Y
		xj, yj := loop[j].X, loop[j].Y
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
