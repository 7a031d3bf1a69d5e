// Package chunk formats accepted coverage points into size-bounded
// output batches.
package chunk

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

// DefaultBatchSize is the conventional lines-per-file limit.
const DefaultBatchSize = 200

// FormatLine renders one accepted point. Coordinates use six fractional
// digits so repeated runs emit byte-identical lines.
func FormatLine(label string, radiusKm float64, p model.GeoPoint) string {
	return fmt.Sprintf("%s:%gkm:%.6f,%.6f", label, radiusKm, p.Lat, p.Lon)
}

// BatchName builds the deterministic file name of batch k (1-based).
func BatchName(label string, k int) string {
	return fmt.Sprintf("%s_part%d.txt", Slug(label), k)
}

// Slug lower-cases the label, turns whitespace runs into single hyphens,
// strips everything outside letters, digits and hyphens, collapses
// repeated hyphens and trims them from the ends.
func Slug(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	var prev rune
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		var out rune
		switch {
		case unicode.IsSpace(r), r == '-':
			out = '-'
		case unicode.IsLetter(r), unicode.IsNumber(r):
			out = r
		default:
			continue
		}
		if out == '-' && prev == '-' {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "region"
	}
	return s
}

// Split batches formatted lines into consecutive groups of at most size,
// named in increasing part order.
func Split(lines []string, label string, size int) []model.OutputBatch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out []model.OutputBatch
	for start, k := 0, 1; start < len(lines); start, k = start+size, k+1 {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		batch := model.OutputBatch{
			Name:  BatchName(label, k),
			Lines: make([]string, end-start),
		}
		copy(batch.Lines, lines[start:end])
		out = append(out, batch)
	}
	return out
}
