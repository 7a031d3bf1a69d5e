package chunk

import (
	"fmt"
	"testing"

	"github.com/ZikZak134/Geozona/internal/core/model"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Central Park", "central-park"},
		{"  Greater   Stockholm  ", "greater-stockholm"},
		{"O'Hare (west)", "ohare-west"},
		{"--already--slugged--", "already-slugged"},
		{"Überlandstraße 9", "überlandstraße-9"},
		{"***", "region"},
		{"", "region"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatLine(t *testing.T) {
	p := model.GeoPoint{Lat: 59.32937751, Lon: 18.0686}
	got := FormatLine("Stockholm", 2.5, p)
	want := "Stockholm:2.5km:59.329378,18.068600"
	if got != want {
		t.Fatalf("FormatLine = %q, want %q", got, want)
	}
	if got2 := FormatLine("Stockholm", 2, p); got2 != "Stockholm:2km:59.329378,18.068600" {
		t.Fatalf("whole-number radius formatting wrong: %q", got2)
	}
}

func TestSplit_BoundedBatchesInOrder(t *testing.T) {
	lines := make([]string, 7)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%d", i)
	}
	batches := Split(lines, "My Region", 3)
	if len(batches) != 3 {
		t.Fatalf("expected ceil(7/3)=3 batches, got %d", len(batches))
	}
	for i, b := range batches {
		if want := fmt.Sprintf("my-region_part%d.txt", i+1); b.Name != want {
			t.Fatalf("batch %d named %q, want %q", i, b.Name, want)
		}
		if len(b.Lines) > 3 {
			t.Fatalf("batch %d exceeds size: %d", i, len(b.Lines))
		}
	}

	// concatenation reproduces the input exactly
	var all []string
	for _, b := range batches {
		all = append(all, b.Lines...)
	}
	if len(all) != len(lines) {
		t.Fatalf("concatenation lost lines: %d vs %d", len(all), len(lines))
	}
	for i := range lines {
		if all[i] != lines[i] {
			t.Fatalf("line %d mismatch: %q vs %q", i, all[i], lines[i])
		}
	}
}

func TestSplit_DefaultsAndEmpty(t *testing.T) {
	if got := Split(nil, "x", 10); got != nil {
		t.Fatalf("no lines should yield no batches, got %v", got)
	}
	lines := make([]string, DefaultBatchSize+1)
	batches := Split(lines, "x", 0)
	if len(batches) != 2 {
		t.Fatalf("size<=0 must fall back to default, got %d batches", len(batches))
	}
}
