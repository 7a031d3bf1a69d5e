package rows

import (
	"strings"
	"testing"
)

func TestParse_CommaDelimited(t *testing.T) {
	got, err := Parse([]byte("59.93, 30.31\n59.94, 30.32\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 2 {
		t.Fatalf("rows=%v", got)
	}
	if got[0][0] != "59.93" || got[0][1] != "30.31" {
		t.Fatalf("row0=%v", got[0])
	}
}

func TestParse_SemicolonWithDecimalCommas(t *testing.T) {
	got, err := Parse([]byte("59,93;30,31\n59,94;30,32\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows=%d want 2", len(got))
	}
	if got[0][0] != "59,93" || got[0][1] != "30,31" {
		t.Fatalf("row0=%v", got[0])
	}
}

func TestParse_TabDelimited(t *testing.T) {
	got, err := Parse([]byte("lat\tlon\n59.93\t30.31\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 || got[1][1] != "30.31" {
		t.Fatalf("rows=%v", got)
	}
}

func TestParse_DropsBlankLines(t *testing.T) {
	got, err := Parse([]byte("59.93,30.31\n\n   \n59.94,30.32\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows=%d want 2", len(got))
	}
}

func TestParse_RaggedRowsAllowed(t *testing.T) {
	got, err := Parse([]byte("region one\n59.93,30.31\n59.94,30.32,extra\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows=%d want 3", len(got))
	}
	if len(got[0]) != 1 || len(got[2]) != 3 {
		t.Fatalf("widths=%d,%d", len(got[0]), len(got[2]))
	}
}

func TestRead_FromReader(t *testing.T) {
	_, err := Read(strings.NewReader("59.93,30.31"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
}
