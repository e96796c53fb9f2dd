package timeseries

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `time,density
2024-03-01T00:00:00Z,1.5
2024-03-01T00:01:00Z,2.5
2024-03-01T00:02:00Z,
2024-03-01T00:03:00Z,4.5
`
	opts := DefaultCSVOptions()
	opts.ValueColumn = "density"

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatal(err)
	}

	if series.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", series.Len())
	}
	if !math.IsNaN(series.Values[2]) {
		t.Errorf("empty value field should load as NaN, got %f", series.Values[2])
	}
	if series.Values[3] != 4.5 {
		t.Errorf("expected 4.5, got %f", series.Values[3])
	}
	if len(series.Timestamps) != 4 {
		t.Fatalf("expected 4 timestamps, got %d", len(series.Timestamps))
	}
	if got := series.MedianSpacing(); got != 60 {
		t.Errorf("expected 60s spacing, got %f", got)
	}
}

func TestLoadCSVNoHeader(t *testing.T) {
	csvData := "2024-03-01T00:00:00Z,1\n2024-03-01T00:01:00Z,2\n"
	opts := DefaultCSVOptions()
	opts.HasHeader = false

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatal(err)
	}
	if series.Len() != 2 || series.Values[1] != 2 {
		t.Errorf("unexpected series: %v", series.Values)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("time,value\n"), nil)
	if err == nil {
		t.Error("expected error for empty CSV")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")

	orig := New([]float64{1, math.NaN(), 3})
	if err := SaveCSV(orig, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadCSVColumn(path, "value")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", loaded.Len())
	}
	if loaded.Values[0] != 1 || !math.IsNaN(loaded.Values[1]) || loaded.Values[2] != 3 {
		t.Errorf("round trip mismatch: %v", loaded.Values)
	}
}
