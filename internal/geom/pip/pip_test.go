package pip

import (
	"errors"
	"testing"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

var unitSquare = model.Polygon{Outer: model.Ring{
	{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0}, {Lat: 0, Lon: 0},
}}

func TestInside_Basic(t *testing.T) {
	cases := []struct {
		p    model.GeoPoint
		want bool
	}{
		{model.GeoPoint{Lat: 0.5, Lon: 0.5}, true},
		{model.GeoPoint{Lat: 0.99, Lon: 0.01}, true},
		{model.GeoPoint{Lat: 1.5, Lon: 0.5}, false},
		{model.GeoPoint{Lat: 0.5, Lon: -0.1}, false},
		{model.GeoPoint{Lat: -0.5, Lon: 0.5}, false},
	}
	for _, tc := range cases {
		if got := Inside(tc.p, unitSquare); got != tc.want {
			t.Fatalf("Inside(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestInside_HoleExcluded(t *testing.T) {
	poly := model.Polygon{
		Outer: model.Ring{
			{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0}, {Lat: 0, Lon: 0},
		},
		Holes: []model.Ring{{
			{Lat: 4, Lon: 4}, {Lat: 4, Lon: 6}, {Lat: 6, Lon: 6}, {Lat: 6, Lon: 4}, {Lat: 4, Lon: 4},
		}},
	}
	if Inside(model.GeoPoint{Lat: 5, Lon: 5}, poly) {
		t.Fatalf("point in hole must be outside")
	}
	if !Inside(model.GeoPoint{Lat: 2, Lon: 2}, poly) {
		t.Fatalf("point between hole and outer must be inside")
	}
}

func TestInside_ConsistentOnBoundary(t *testing.T) {
	// the exact verdict on an edge point is unspecified, but it must not
	// vary between calls
	edge := model.GeoPoint{Lat: 0, Lon: 0.5}
	first := Inside(edge, unitSquare)
	for i := 0; i < 10; i++ {
		if Inside(edge, unitSquare) != first {
			t.Fatalf("boundary verdict changed between calls")
		}
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	candidates := []model.GeoPoint{
		{Lat: 0.1, Lon: 0.1},
		{Lat: 2.0, Lon: 2.0},
		{Lat: 0.2, Lon: 0.9},
		{Lat: -1, Lon: 0},
		{Lat: 0.9, Lon: 0.9},
	}
	got, err := Filter(candidates, unitSquare)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	want := []model.GeoPoint{candidates[0], candidates[2], candidates[4]}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order not preserved at %d: %v", i, got[i])
		}
	}
}

func TestFilter_EmptyResult(t *testing.T) {
	candidates := []model.GeoPoint{{Lat: 5, Lon: 5}, {Lat: 6, Lon: 6}}
	_, err := Filter(candidates, unitSquare)
	var npe *NoPointsInRegionError
	if !errors.As(err, &npe) {
		t.Fatalf("expected NoPointsInRegionError, got %v", err)
	}
	if npe.Candidates != 2 {
		t.Fatalf("error must carry candidate count, got %d", npe.Candidates)
	}
}
