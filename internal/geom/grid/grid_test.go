package grid

import (
	"math"
	"sort"
	"testing"

	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/geom/geo"
)

var testBox = model.BBox{MinLat: 59.0, MinLon: 17.0, MaxLat: 59.2, MaxLon: 17.4}

func TestGenerate_SquareSpacing(t *testing.T) {
	const radius = 2.0
	pts, err := Generate(testBox, radius, PackingSquare)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(pts) == 0 {
		t.Fatalf("expected non-empty lattice")
	}

	// neighbors within one row sit radius*sqrt(2) apart
	step := radius * math.Sqrt2
	for i := 1; i < len(pts); i++ {
		if pts[i].Lat != pts[i-1].Lat {
			continue
		}
		d := geo.Haversine(pts[i-1], pts[i])
		if math.Abs(d-step) > 0.01 {
			t.Fatalf("row spacing %v, want %v", d, step)
		}
	}

	// first point anchors the box origin; overshoot past the max edge is
	// bounded by one step
	if pts[0].Lat != testBox.MinLat || pts[0].Lon != testBox.MinLon {
		t.Fatalf("lattice must start at the box origin, got %v", pts[0])
	}
	for _, p := range pts {
		if p.Lat > testBox.MaxLat+0.05 || p.Lon > testBox.MaxLon+0.1 {
			t.Fatalf("point %v too far past box end", p)
		}
	}
}

func TestGenerate_RowMajorOrderAndDeterminism(t *testing.T) {
	for _, packing := range []Packing{PackingSquare, PackingHex} {
		a, err := Generate(testBox, 1.5, packing)
		if err != nil {
			t.Fatalf("%s: %v", packing, err)
		}
		b, err := Generate(testBox, 1.5, packing)
		if err != nil {
			t.Fatalf("%s: %v", packing, err)
		}
		if len(a) != len(b) {
			t.Fatalf("%s: non-deterministic point count", packing)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: non-deterministic point %d", packing, i)
			}
		}
		if !sort.SliceIsSorted(a, func(i, j int) bool {
			if a[i].Lat != a[j].Lat {
				return a[i].Lat < a[j].Lat
			}
			return a[i].Lon < a[j].Lon
		}) {
			t.Fatalf("%s: points not in row-major order", packing)
		}
	}
}

func TestGenerate_HexDenserRowsFewerPoints(t *testing.T) {
	square, err := Generate(testBox, 2, PackingSquare)
	if err != nil {
		t.Fatalf("square: %v", err)
	}
	hex, err := Generate(testBox, 2, PackingHex)
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	if len(hex) >= len(square) {
		t.Fatalf("hex lattice should need fewer points: hex=%d square=%d", len(hex), len(square))
	}
}

func TestGenerate_CoverageGuarantee(t *testing.T) {
	// sample interior locations; each must be within the radius of some
	// lattice point
	const radius = 2.0
	for _, packing := range []Packing{PackingSquare, PackingHex} {
		pts, err := Generate(testBox, radius, packing)
		if err != nil {
			t.Fatalf("%s: %v", packing, err)
		}
		for lat := testBox.MinLat; lat <= testBox.MaxLat; lat += 0.017 {
			for lon := testBox.MinLon; lon <= testBox.MaxLon; lon += 0.033 {
				loc := model.GeoPoint{Lat: lat, Lon: lon}
				nearest := math.Inf(1)
				for _, p := range pts {
					if d := geo.Haversine(loc, p); d < nearest {
						nearest = d
					}
				}
				if nearest > radius+0.05 {
					t.Fatalf("%s: location %v is %v km from nearest lattice point", packing, loc, nearest)
				}
			}
		}
	}
}

func TestH3Resolution(t *testing.T) {
	cases := []struct {
		radius float64
		min    int
		max    int
	}{
		{500, 1, 1},
		{5, 6, 6},
		{1, 8, 8},
		{0.05, 11, 11},
	}
	for _, tc := range cases {
		res := h3Resolution(tc.radius)
		if res < tc.min || res > tc.max {
			t.Fatalf("radius %v: resolution %d outside [%d,%d]", tc.radius, res, tc.min, tc.max)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	if _, err := Generate(testBox, 0, PackingSquare); err == nil {
		t.Fatalf("zero radius must fail")
	}
	if _, err := Generate(model.BBox{MinLat: 1, MaxLat: 0}, 1, PackingSquare); err == nil {
		t.Fatalf("inverted box must fail")
	}
	if _, err := Generate(testBox, 1, Packing("rhombic")); err == nil {
		t.Fatalf("unknown packing must fail")
	}
}

func TestParsePacking(t *testing.T) {
	if p, err := ParsePacking(""); err != nil || p != PackingHex {
		t.Fatalf("empty packing should default to hex, got %v %v", p, err)
	}
	if _, err := ParsePacking("triangular"); err == nil {
		t.Fatalf("expected error for unknown packing")
	}
}
