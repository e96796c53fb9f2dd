package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn  string // Column name for timestamps (default: first match of common names)
	ValueColumn string // Column name for values (default: "value")
	TimeFormat  string // Timestamp format (default: RFC3339, falls back to common formats)
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "value",
		TimeFormat:  time.RFC3339,
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a time series from a CSV file. Empty or non-numeric value
// fields become NaN gaps rather than being dropped, so the loaded series
// keeps its original time base.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	timeIdx, valueIdx := 0, 1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		timeIdx, valueIdx = -1, -1
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case opts.TimeColumn != "" && h == opts.TimeColumn:
				timeIdx = i
			case opts.TimeColumn == "" && (h == "time" || h == "timestamp" || h == "date" || h == "ds"):
				if timeIdx == -1 {
					timeIdx = i
				}
			case h == opts.ValueColumn:
				valueIdx = i
			}
		}
		if valueIdx == -1 {
			valueIdx = len(header) - 1
		}
	}

	formats := []string{
		opts.TimeFormat,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	var values []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valueIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		val, perr := strconv.ParseFloat(valStr, 64)
		if perr != nil || valStr == "" {
			// Keep the row as a gap so the time base stays intact.
			val = math.NaN()
		}
		values = append(values, val)

		if timeIdx >= 0 && timeIdx < len(record) {
			tsStr := strings.TrimSpace(strings.Trim(record[timeIdx], "\""))
			var ts time.Time
			var terr error
			for _, f := range formats {
				ts, terr = time.Parse(f, tsStr)
				if terr == nil {
					break
				}
			}
			if terr == nil {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(values) == 0 {
		return nil, errors.New("no data found in CSV")
	}

	if len(timestamps) == len(values) {
		return &Series{
			Timestamps: timestamps,
			Values:     values,
		}, nil
	}
	return New(values), nil
}

// LoadCSVColumn loads a specific value column from a CSV file as a series.
func LoadCSVColumn(filename, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	if column != "" {
		opts.ValueColumn = column
	}
	return LoadCSV(filename, opts)
}

// SaveCSV saves a time series to a CSV file as time,value rows.
// NaN values are written as empty fields.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	if _, err := writer.WriteString("time,value\n"); err != nil {
		return err
	}

	withTime := len(series.Timestamps) == len(series.Values)
	for i, v := range series.Values {
		if withTime {
			writer.WriteString(series.Timestamps[i].Format(time.RFC3339))
		} else {
			writer.WriteString(strconv.Itoa(i))
		}
		writer.WriteString(",")
		if !math.IsNaN(v) {
			writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		writer.WriteString("\n")
	}

	return nil
}
