package hull

import (
	"errors"
	"testing"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

func TestBuild_SquareWithInteriorPoints(t *testing.T) {
	input := []model.GeoPoint{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 20}, {Lat: 20, Lon: 20}, {Lat: 20, Lon: 0},
		{Lat: 10, Lon: 10}, {Lat: 5, Lon: 15}, {Lat: 0, Lon: 10}, // interior and edge points
	}
	ring, err := Build(input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !ring.Closed() {
		t.Fatalf("hull ring must be closed")
	}
	if got := len(ring) - 1; got != 4 {
		t.Fatalf("expected 4 hull vertices, got %d (%v)", got, ring)
	}
	if ring.SignedArea() <= 0 {
		t.Fatalf("hull must be counter-clockwise, signed area %v", ring.SignedArea())
	}

	// hull vertices are a subset of the input
	in := map[model.GeoPoint]bool{}
	for _, p := range input {
		in[p] = true
	}
	for _, v := range ring[:len(ring)-1] {
		if !in[v] {
			t.Fatalf("hull vertex %v not in input", v)
		}
	}

	// every input point lies inside or on the hull (no right turn from any edge)
	for _, p := range input {
		for i := 0; i+1 < len(ring); i++ {
			if cross(ring[i], ring[i+1], p) < -1e-12 {
				t.Fatalf("input point %v outside hull edge %d", p, i)
			}
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	input := []model.GeoPoint{
		{Lat: 3, Lon: 1}, {Lat: 1, Lon: 4}, {Lat: 5, Lon: 5}, {Lat: 0, Lon: 0}, {Lat: 2, Lon: 2},
	}
	a, err := Build(input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic hull size")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic hull at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuild_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name  string
		input []model.GeoPoint
	}{
		{"collinear", []model.GeoPoint{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}},
		{"duplicates only", []model.GeoPoint{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 1}}},
		{"two distinct", []model.GeoPoint{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 0, Lon: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.input)
			var dhe *DegenerateHullError
			if !errors.As(err, &dhe) {
				t.Fatalf("expected DegenerateHullError, got %v", err)
			}
		})
	}
}
