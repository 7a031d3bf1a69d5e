// Package offset erodes a polygon boundary inward by a geodesic distance.
//
// The ring is projected into a local equirectangular frame, each edge is
// shifted toward the interior by the offset distance, adjacent shifted
// edges are intersected to form the candidate ring, and loops created by
// self-intersection are pruned. Fragments whose signed area is
// non-positive or below tolerance are discarded; the largest surviving
// loop is projected back to geographic coordinates.
//
// Self-intersecting input (a bowtie) is handled by the same pruning rule,
// so such boundaries resolve deterministically instead of being rejected.
package offset

import (
	"fmt"
	"math"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// RegionTooSmallError reports an inward offset that erased the region.
// Expected for small regions or large radii, not a defect.
type RegionTooSmallError struct {
	RadiusKm float64
}

func (e *RegionTooSmallError) Error() string {
	return fmt.Sprintf("offset: region collapses when inset by %g km", e.RadiusKm)
}

// minAreaFactor scales the pinch-out tolerance: fragments smaller than
// minAreaFactor * d^2 are treated as collapsed.
const minAreaFactor = 0.01

// Inward computes the polygon eroded inward by radiusKm. Hole rings are
// ignored; only the outer boundary is offset.
func Inward(poly model.Polygon, radiusKm float64) (model.Polygon, error) {
	if radiusKm <= 0 {
		return model.Polygon{}, fmt.Errorf("offset: radius must be positive, got %g", radiusKm)
	}
	ring := poly.Outer
	if len(ring) < 4 || !ring.Closed() {
		return model.Polygon{}, fmt.Errorf("offset: outer ring must be closed with at least 3 vertices")
	}

	pr := newProjection(ring)
	pts := make([]planarPoint, 0, len(ring)-1)
	for _, p := range ring[:len(ring)-1] {
		q := pr.forward(p)
		if len(pts) > 0 && norm(sub(q, pts[len(pts)-1])) < 1e-9 {
			continue // collapse duplicate vertices
		}
		pts = append(pts, q)
	}
	if len(pts) >= 2 && norm(sub(pts[0], pts[len(pts)-1])) < 1e-9 {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return model.Polygon{}, fmt.Errorf("offset: outer ring has fewer than 3 distinct vertices")
	}
	if signedArea(pts) < 0 {
		reverseLoop(pts)
	}

	candidate := insetLoop(pts, radiusKm)
	best := selectLoop(pruneCrossings(candidate), pts, radiusKm)
	if best == nil {
		return model.Polygon{}, &RegionTooSmallError{RadiusKm: radiusKm}
	}

	out := make(model.Ring, 0, len(best)+1)
	for _, q := range best {
		out = append(out, pr.inverse(q))
	}
	return model.Polygon{Outer: out.Close()}, nil
}

// insetLoop shifts every edge of a counter-clockwise loop toward the
// interior by d and intersects adjacent shifted edges (miter join). Where
// adjacent edges are near-parallel the vertex is shifted along the edge
// normal instead.
func insetLoop(pts []planarPoint, d float64) []planarPoint {
	n := len(pts)
	out := make([]planarPoint, 0, n)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		// shifted support points of the two edges meeting at cur
		d1 := unit(sub(cur, prev))
		d2 := unit(sub(next, cur))
		n1 := planarPoint{-d1.Y, d1.X} // interior is left of a CCW edge
		n2 := planarPoint{-d2.Y, d2.X}
		a := planarPoint{prev.X + n1.X*d, prev.Y + n1.Y*d}
		b := planarPoint{cur.X + n2.X*d, cur.Y + n2.Y*d}

		denom := cross2(d1, d2)
		if math.Abs(denom) < 1e-9 {
			out = append(out, planarPoint{cur.X + n2.X*d, cur.Y + n2.Y*d})
			continue
		}
		t := cross2(sub(b, a), d2) / denom
		out = append(out, planarPoint{a.X + d1.X*t, a.Y + d1.Y*t})
	}
	return out
}

// pruneCrossings splits a loop at each self-intersection until only
// simple loops remain.
func pruneCrossings(loop []planarPoint) [][]planarPoint {
	stack := [][]planarPoint{loop}
	var out [][]planarPoint
	for guard := 0; len(stack) > 0 && guard < 128; guard++ {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, j, x, found := firstCrossing(l)
		if !found {
			out = append(out, l)
			continue
		}
		inner := append(cloneLoop(l[i+1:j+1]), x)
		outer := append(append(cloneLoop(l[:i+1]), x), l[j+1:]...)
		if len(inner) >= 3 {
			stack = append(stack, inner)
		}
		if len(outer) >= 3 {
			stack = append(stack, outer)
		}
	}
	return append(out, stack...)
}

// selectLoop keeps positive-area loops above the pinch-out tolerance whose
// centroid stays inside the original boundary, and returns the largest.
func selectLoop(loops [][]planarPoint, orig []planarPoint, d float64) []planarPoint {
	minArea := minAreaFactor * d * d
	var best []planarPoint
	bestArea := 0.0
	for _, l := range loops {
		a := signedArea(l)
		if a <= minArea {
			continue
		}
		if !pointInLoop(centroid(l), orig) {
			continue
		}
		if a > bestArea {
			best, bestArea = l, a
		}
	}
	return best
}

func firstCrossing(l []planarPoint) (i, j int, x planarPoint, found bool) {
	n := len(l)
	for i = 0; i < n; i++ {
		for j = i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the wrap-around
			}
			p, ok := properIntersection(l[i], l[(i+1)%n], l[j], l[(j+1)%n])
			if ok {
				return i, j, p, true
			}
		}
	}
	return 0, 0, planarPoint{}, false
}

// properIntersection reports a crossing strictly interior to both
// segments.
func properIntersection(p1, p2, p3, p4 planarPoint) (planarPoint, bool) {
	d1 := sub(p2, p1)
	d2 := sub(p4, p3)
	denom := cross2(d1, d2)
	if math.Abs(denom) < 1e-12 {
		return planarPoint{}, false
	}
	w := sub(p3, p1)
	t := cross2(w, d2) / denom
	s := cross2(w, d1) / denom
	const eps = 1e-9
	if t <= eps || t >= 1-eps || s <= eps || s >= 1-eps {
		return planarPoint{}, false
	}
	return planarPoint{p1.X + t*d1.X, p1.Y + t*d1.Y}, true
}

func unit(a planarPoint) planarPoint {
	n := norm(a)
	if n < 1e-12 {
		return planarPoint{}
	}
	return planarPoint{a.X / n, a.Y / n}
}

func centroid(l []planarPoint) planarPoint {
	var c planarPoint
	for _, p := range l {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(l))
	c.Y /= float64(len(l))
	return c
}

func reverseLoop(pts []planarPoint) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func cloneLoop(l []planarPoint) []planarPoint {
	out := make([]planarPoint, len(l))
	copy(out, l)
	return out
}
