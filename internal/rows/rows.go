// Package rows reads tabular coordinate input. Delimiter is sniffed from
// the first non-empty line; rows may have ragged widths.
package rows

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError reports unreadable tabular input.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse input line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse input: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Read parses delimited text into rows of cells. Lines that are entirely
// empty are dropped.
func Read(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return Parse(data)
}

func Parse(data []byte) ([][]string, error) {
	delim := sniffDelimiter(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		if blank(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// sniffDelimiter picks the candidate occurring most often in the first
// non-empty line. Semicolon wins a tie with comma so that decimal-comma
// exports parse as two cells.
func sniffDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		best, bestCount := ',', 0
		for _, c := range []rune{';', '\t', ','} {
			if n := strings.Count(line, string(c)); n > bestCount {
				best, bestCount = c, n
			}
		}
		return best
	}
	return ','
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
