package catio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phil-mansfield/psam/lib/grid"
)

const scenarioText = `1 10.0 20.0 100.0 1.0 2.0 3.0 4.0 5.0 0 0
2 10.0 20.0 200.0 6.0 7.0 8.0 9.0 10.0 0 0
3 11.0 20.0 100.0 11.0 12.0 13.0 14.0 15.0 0 0
`

func scanAll(text string, config ...TextConfig) ([]grid.Record, []*LineError, error) {
	s := NewScanner(strings.NewReader(text), config...)
	bad := []*LineError{}
	s.Malformed = func(e *LineError) { bad = append(bad, e) }

	recs := []grid.Record{}
	for s.Scan() {
		recs = append(recs, *s.Record())
	}
	return recs, bad, s.Err()
}

func TestScanScenario(t *testing.T) {
	recs, bad, err := scanAll(scenarioText)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	} else if len(bad) != 0 {
		t.Fatalf("Expected no malformed lines, got %d.", len(bad))
	} else if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got %d.", len(recs))
	}

	want := grid.Record{
		ID: "2", Lat: 10, Lon: 20, Alt: 200,
		Values: [grid.NumFields]float64{6, 7, 8, 9, 10},
	}
	if recs[1] != want {
		t.Errorf("Expected record %+v, got %+v.", want, recs[1])
	}
}

func TestScanMalformed(t *testing.T) {
	tests := []struct {
		text    string
		records int
		lines   []int
		columns []int
		err     error
	}{
		{"", 0, []int{}, []int{}, nil},
		{scenarioText, 3, []int{}, []int{}, nil},
		// Ten columns.
		{"1 10 20 100 1 2 3 4 5 0\n" + scenarioText, 3, []int{1}, []int{10}, ErrFieldCount},
		// Twelve columns.
		{scenarioText + "4 10 20 100 1 2 3 4 5 0 0 0\n", 3, []int{4}, []int{12}, ErrFieldCount},
		{"1 10 20 100 1 x 3 4 5 0 0\n", 0, []int{1}, []int{11}, nil},
		// NaN and out-of-range values are kept, coordinates included.
		{"1 10 20 100 nan 2 3 4 5 0 0\n", 1, []int{}, []int{}, nil},
		{"1 nan 20 100 1 2 3 4 5 0 0\n", 1, []int{}, []int{}, nil},
		{"1 10 20 NaN 1 2 3 4 5 0 0\n", 1, []int{}, []int{}, nil},
		{"1 10 20 100 1e999 2 3 4 5 0 0\n", 1, []int{}, []int{}, nil},
		{"1 -1e999 20 100 1 2 3 4 5 0 1e-999\n", 1, []int{}, []int{}, nil},
		// Blank and comment lines aren't malformed.
		{"\n   \n# a comment\n" + scenarioText + "\n", 3, []int{}, []int{}, nil},
		{"1 10 20 100 1 2 3 4 5 0 0 # trailing\n", 1, []int{}, []int{}, nil},
		{"1 10 20\t100 1 2 3 4 5 0 0\r\n", 1, []int{}, []int{}, nil},
	}

	for i := range tests {
		recs, bad, err := scanAll(tests[i].text)
		if err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
			continue
		}

		if len(recs) != tests[i].records {
			t.Errorf("%d) Expected %d records, got %d.", i, tests[i].records, len(recs))
		} else if len(bad) != len(tests[i].lines) {
			t.Errorf("%d) Expected %d malformed lines, got %d.",
				i, len(tests[i].lines), len(bad))
			continue
		}

		for j := range bad {
			if bad[j].Line != tests[i].lines[j] || bad[j].Fields != tests[i].columns[j] {
				t.Errorf("%d) Expected malformed line %d with %d columns, got %d with %d.",
					i, tests[i].lines[j], tests[i].columns[j], bad[j].Line, bad[j].Fields)
			} else if tests[i].err != nil && !errors.Is(bad[j], tests[i].err) {
				t.Errorf("%d) Expected error '%s', got '%s'.",
					i, tests[i].err.Error(), bad[j].Error())
			}
		}
	}
}

func TestTextConfig(t *testing.T) {
	header := "lat lon alt\nsecond header line\n"
	config := DefaultConfig
	config.SkipLines = 2
	recs, bad, err := scanAll(header+scenarioText, config)
	if err != nil || len(recs) != 3 || len(bad) != 0 {
		t.Errorf("SkipLines = 2: got %d records, %d malformed, err = %v.",
			len(recs), len(bad), err)
	}

	config = DefaultConfig
	config.Separator = ','
	config.Comment = 0
	text := "#1, 10, 20, 100, 1, 2, 3, 4, 5, 0, 0\n"
	recs, bad, err = scanAll(text, config)
	if err != nil || len(recs) != 1 || len(bad) != 0 {
		t.Fatalf("Separator = ',': got %d records, %d malformed, err = %v.",
			len(recs), len(bad), err)
	} else if recs[0].ID != "#1" || recs[0].Alt != 100 {
		t.Errorf("Separator = ',': got record %+v.", recs[0])
	}

	config = DefaultConfig
	config.MaxLineSize = 16
	recs, bad, err = scanAll(scenarioText, config)
	if err != nil || len(recs) != 0 || len(bad) != 3 {
		t.Errorf("MaxLineSize = 16: got %d records, %d malformed, err = %v.",
			len(recs), len(bad), err)
	}
}

func TestScanValues(t *testing.T) {
	recs, _, err := scanAll("1 -1e999 20 NaN 1e999 2 3 4 5 0 1e-999\n")
	if err != nil || len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d with err = %v.", len(recs), err)
	}

	r := recs[0]
	if !math.IsInf(r.Lat, -1) || !math.IsNaN(r.Alt) || r.Lon != 20 {
		t.Errorf("Expected coordinates (-Inf, 20, NaN), got (%g, %g, %g).",
			r.Lat, r.Lon, r.Alt)
	} else if !math.IsInf(r.Values[grid.U], +1) || r.Values[grid.V] != 2 {
		t.Errorf("Expected u = +Inf and v = 2, got %g and %g.",
			r.Values[grid.U], r.Values[grid.V])
	} else if r.Excluded[1] != 0 {
		t.Errorf("Expected an underflowing value to parse as 0, got %g.", r.Excluded[1])
	}
}

func TestScanLongLines(t *testing.T) {
	config := DefaultConfig
	config.MaxLineSize = 128

	valid := "4 12 20 100 1 2 3 4 5 0 0\n"
	tests := []struct {
		long  string
		noEOL bool
	}{
		{strings.Repeat("x", 129), false},
		{strings.Repeat("1 ", 100), false},
		{strings.Repeat("y", 1000), false},
		{strings.Repeat("z", 1000), true},
	}

	for i := range tests {
		text := scenarioText + tests[i].long + "\n" + valid
		wantRecs, wantLines := 4, 5
		if tests[i].noEOL {
			text = scenarioText + tests[i].long
			wantRecs, wantLines = 3, 4
		}

		s := NewScanner(strings.NewReader(text), config)
		bad := []*LineError{}
		s.Malformed = func(e *LineError) { bad = append(bad, e) }
		recs := []grid.Record{}
		for s.Scan() {
			recs = append(recs, *s.Record())
		}

		if s.Err() != nil {
			t.Errorf("%d) Unexpected error: %s", i, s.Err().Error())
		} else if len(recs) != wantRecs || s.Lines() != wantLines {
			t.Errorf("%d) Expected %d records on %d lines, got %d on %d.",
				i, wantRecs, wantLines, len(recs), s.Lines())
		} else if len(bad) != 1 || bad[0].Line != 4 ||
			!errors.Is(bad[0], ErrLineTooLong) {
			t.Errorf("%d) Expected line 4 to be too long, got %v.", i, bad)
		} else if !tests[i].noEOL && recs[3].ID != "4" {
			t.Errorf("%d) Expected the record after the long line, got %+v.",
				i, recs[3])
		}
	}

	// A line of exactly MaxLineSize fits.
	exact := "7 10 20 100 1 2 3 4 5 0 0"
	exact += strings.Repeat(" ", 128-len(exact))
	recs, bad, err := scanAll(exact+"\r\n", config)
	if err != nil || len(recs) != 1 || len(bad) != 0 {
		t.Errorf("Line of MaxLineSize bytes: got %d records, %d malformed, err = %v.",
			len(recs), len(bad), err)
	}
}

func TestTextFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "obs.in")
	if err := os.WriteFile(fname, []byte(scenarioText), 0644); err != nil {
		t.Fatal(err.Error())
	}

	s, err := TextFile(fname)
	if err != nil {
		t.Fatal(err.Error())
	}
	defer s.Close()

	n := 0
	for s.Scan() {
		n++
	}
	if n != 3 || s.Lines() != 3 || s.Skipped() != 0 {
		t.Errorf("Expected 3 records on 3 lines, got %d on %d (%d skipped).",
			n, s.Lines(), s.Skipped())
	}

	if _, err := TextFile(filepath.Join(t.TempDir(), "missing.in")); err == nil {
		t.Errorf("Expected an error opening a missing file.")
	}
}
