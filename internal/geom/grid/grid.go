// Package grid generates candidate coverage lattices over a bounding box.
//
// Candidate order is deterministic: rows in increasing latitude, points in
// increasing longitude within a row, so repeated runs over identical input
// produce identical output.
package grid

import (
	"fmt"
	"math"

	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/geom/geo"
)

// Packing selects the lattice layout.
type Packing string

const (
	// PackingSquare spaces points radius*sqrt(2) apart in both axes, so
	// every location in the box is within the radius of a lattice point.
	PackingSquare Packing = "square"
	// PackingHex is a hexagonal covering lattice with circum-radius equal
	// to the coverage radius; about 13% fewer points than square.
	PackingHex Packing = "hex"
	// PackingH3 places points on H3 cell centers covering the box, at the
	// coarsest resolution whose cells fit inside the coverage radius.
	PackingH3 Packing = "h3"
)

// ParsePacking validates a packing name; empty selects hex.
func ParsePacking(s string) (Packing, error) {
	switch Packing(s) {
	case "":
		return PackingHex, nil
	case PackingSquare, PackingHex, PackingH3:
		return Packing(s), nil
	default:
		return "", fmt.Errorf("grid: unknown packing %q", s)
	}
}

// Generate produces the candidate lattice for a bounding box and radius.
// Steps are taken as geodesic moves due east and north rather than naive
// degree increments, keeping spacing uniform at all latitudes.
func Generate(b model.BBox, radiusKm float64, packing Packing) ([]model.GeoPoint, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("grid: radius must be positive, got %g", radiusKm)
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return nil, fmt.Errorf("grid: inverted bounding box %v", b)
	}
	switch packing {
	case PackingSquare:
		return squareLattice(b, radiusKm), nil
	case PackingHex:
		return hexLattice(b, radiusKm), nil
	case PackingH3:
		return h3Lattice(b, radiusKm)
	default:
		return nil, fmt.Errorf("grid: unknown packing %q", packing)
	}
}

// squareLattice: step radius*sqrt(2) in both axes. A point of the polygon
// is at worst at the center of a lattice cell, at distance step/sqrt(2) =
// radius from the nearest corner.
func squareLattice(b model.BBox, radiusKm float64) []model.GeoPoint {
	step := radiusKm * math.Sqrt2
	var out []model.GeoPoint
	for row := (model.GeoPoint{Lat: b.MinLat, Lon: b.MinLon}); ; row = geo.North(row, step) {
		for p := row; ; p = geo.East(p, step) {
			out = append(out, p)
			if p.Lon > b.MaxLon {
				break // one point past the edge closes the last cell
			}
		}
		if row.Lat > b.MaxLat || row.Lat == 90 {
			break
		}
	}
	return out
}

// hexLattice: centers sqrt(3)*radius apart within a row, rows 1.5*radius
// apart, alternate rows shifted half a step. This is the optimal covering
// lattice for circles of the given radius.
func hexLattice(b model.BBox, radiusKm float64) []model.GeoPoint {
	dx := radiusKm * math.Sqrt(3)
	dy := radiusKm * 1.5
	var out []model.GeoPoint
	rowIdx := 0
	for row := (model.GeoPoint{Lat: b.MinLat, Lon: b.MinLon}); ; row = geo.North(row, dy) {
		start := row
		if rowIdx%2 == 1 {
			// odd rows start half a step before the box so the stagger
			// still covers the left edge
			start = geo.East(row, -dx/2)
		}
		for p := start; ; p = geo.East(p, dx) {
			out = append(out, p)
			if p.Lon > b.MaxLon {
				break
			}
		}
		rowIdx++
		if row.Lat > b.MaxLat || row.Lat == 90 {
			break
		}
	}
	return out
}
