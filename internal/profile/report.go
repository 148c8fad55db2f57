package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// reportHeader keeps the four canonical columns first; run, layer and
// error context follow as extra columns.
var reportHeader = []string{
	"method", "peak_memory_usage_mb", "duration_sec", "file_size_mb",
	"run_id", "layer", "error",
}

// WriteReport writes the profiling records to path as CSV, one row
// per persisted layer, in record order.
func WriteReport(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("profile: create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		return fmt.Errorf("profile: write report header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Method,
			strconv.FormatFloat(r.PeakMemoryMB, 'f', 6, 64),
			strconv.FormatFloat(r.DurationSec, 'f', 6, 64),
			strconv.FormatFloat(r.FileSizeMB, 'f', 6, 64),
			r.RunID,
			r.Layer,
			r.Err,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("profile: write report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("profile: flush report %s: %w", path, err)
	}
	return f.Close()
}

// ReadReport reads a profiling report written by WriteReport.
func ReadReport(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: open report %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("profile: read report header: %w", err)
	}
	if len(header) != len(reportHeader) {
		return nil, fmt.Errorf("profile: expected %d columns, got %d", len(reportHeader), len(header))
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("profile: read report row: %w", err)
		}

		rec := Record{Method: row[0], RunID: row[4], Layer: row[5], Err: row[6]}
		if rec.PeakMemoryMB, err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, fmt.Errorf("profile: parse peak memory %q: %w", row[1], err)
		}
		if rec.DurationSec, err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, fmt.Errorf("profile: parse duration %q: %w", row[2], err)
		}
		if rec.FileSizeMB, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, fmt.Errorf("profile: parse file size %q: %w", row[3], err)
		}
		records = append(records, rec)
	}
	return records, nil
}
