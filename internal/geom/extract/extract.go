// Package extract turns raw tabular rows into coordinate sets.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// MinPoints is the smallest coordinate set a hull can be built from.
const MinPoints = 3

// InsufficientPointsError reports that fewer than MinPoints valid
// coordinates were extracted.
type InsufficientPointsError struct {
	Valid int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("extract: %d valid coordinates found, need at least %d", e.Valid, MinPoints)
}

var latNames = map[string]bool{
	"lat": true, "latitude": true, "широта": true, "shirota": true,
}

var lonNames = map[string]bool{
	"lon": true, "lng": true, "long": true, "longitude": true, "долгота": true, "dolgota": true,
}

// Points parses rows into an ordered coordinate sequence. Two layouts are
// recognized per row, independently:
//
//	(a) a single cell holding "lat,lon" (exactly two numeric tokens after
//	    splitting on the comma; decimal commas are unsupported here);
//	(b) two adjacent cells each holding a decimal number, where "12,5" is
//	    normalized to "12.5".
//
// A header row naming the columns can swap the column assignment for
// layout (b). Rows matching neither layout are skipped. Duplicates are
// retained and row order is preserved.
func Points(rows [][]string) ([]model.GeoPoint, error) {
	latIdx, lonIdx := -1, -1
	start := 0
	if len(rows) > 0 {
		if la, lo, ok := headerColumns(rows[0]); ok {
			latIdx, lonIdx = la, lo
			start = 1
		}
	}

	var points []model.GeoPoint
	for _, row := range rows[start:] {
		if p, ok := pointFromRow(row, latIdx, lonIdx); ok {
			points = append(points, p)
		}
	}
	if len(points) < MinPoints {
		return nil, &InsufficientPointsError{Valid: len(points)}
	}
	return points, nil
}

func pointFromRow(row []string, latIdx, lonIdx int) (model.GeoPoint, bool) {
	// layout (a) applies only when the row has a single non-empty cell;
	// in that position a comma is a field separator, never a decimal mark.
	if cell, ok := soleCell(row); ok {
		return pairCell(cell)
	}

	// layout (b): header-assigned columns win over positional scan
	if latIdx >= 0 && lonIdx >= 0 {
		if latIdx < len(row) && lonIdx < len(row) {
			lat, ok1 := parseDecimal(row[latIdx])
			lon, ok2 := parseDecimal(row[lonIdx])
			if ok1 && ok2 {
				if p, err := model.NewGeoPoint(lat, lon); err == nil {
					return p, true
				}
			}
		}
		return model.GeoPoint{}, false
	}
	for i := 0; i+1 < len(row); i++ {
		lat, ok1 := parseDecimal(row[i])
		lon, ok2 := parseDecimal(row[i+1])
		if ok1 && ok2 {
			p, err := model.NewGeoPoint(lat, lon)
			if err != nil {
				return model.GeoPoint{}, false
			}
			return p, true
		}
	}
	return model.GeoPoint{}, false
}

// soleCell returns the row's only non-empty cell, if there is exactly one.
func soleCell(row []string) (string, bool) {
	found := ""
	n := 0
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		found = cell
		n++
		if n > 1 {
			return "", false
		}
	}
	return found, n == 1
}

// pairCell parses a "lat,lon" cell. Exactly two numeric tokens are
// required, so locale decimal commas cannot be mistaken for separators.
func pairCell(cell string) (model.GeoPoint, bool) {
	if !strings.Contains(cell, ",") {
		return model.GeoPoint{}, false
	}
	parts := strings.Split(cell, ",")
	if len(parts) != 2 {
		return model.GeoPoint{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return model.GeoPoint{}, false
	}
	p, err := model.NewGeoPoint(lat, lon)
	if err != nil {
		return model.GeoPoint{}, false
	}
	return p, true
}

// parseDecimal reads a single-number cell, normalizing a decimal comma.
func parseDecimal(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if strings.Count(cell, ",") == 1 && !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// headerColumns detects a header row naming latitude and longitude
// columns. Both names must be present for the row to count as a header.
func headerColumns(row []string) (latIdx, lonIdx int, ok bool) {
	latIdx, lonIdx = -1, -1
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case latNames[name] && latIdx < 0:
			latIdx = i
		case lonNames[name] && lonIdx < 0:
			lonIdx = i
		}
	}
	return latIdx, lonIdx, latIdx >= 0 && lonIdx >= 0
}
