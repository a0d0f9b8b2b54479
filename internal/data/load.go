package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"solar-sim/internal/model"
)

// ErrLoadColumns is returned when a load CSV has more than one column.
var ErrLoadColumns = errors.New("load CSV must have exactly one column")

// ReadLoadCSV parses a single-column CSV of hourly load (kWh) with a header
// row. Blank lines are skipped.
func ReadLoadCSV(r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading load CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: load CSV is empty", model.ErrInvalidInput)
	}
	out := make([]float64, 0, len(records)-1)
	for i, rec := range records {
		if len(rec) != 1 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrLoadColumns, i+1, len(rec))
		}
		if i == 0 {
			continue
		}
		s := strings.TrimSpace(rec[0])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q is not a number", model.ErrInvalidInput, i+1, s)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadLoadCSVFile is ReadLoadCSV on a file path.
func ReadLoadCSVFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLoadCSV(f)
}
