package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/seguros/engine"
	"github.com/spektr-org/seguros/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Frame
// ============================================================================
// Column kinds come from the schema; names stay as they appear in the file
// header (translation is a separate step, see schema.Translate).
// Columns the schema does not know are kept as categorical text.
// ============================================================================

var (
	// ErrInputUnreadable wraps failures to open or read the input file.
	ErrInputUnreadable = errors.New("input file unreadable")
	// ErrMalformedInput wraps structural or numeric parse failures.
	ErrMalformedInput = errors.New("malformed input")
)

// LoadFile reads and parses a CSV file.
func LoadFile(path string, sch *schema.Config) (*engine.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	frame, err := ParseCSV(data, sch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// ParseCSV parses CSV bytes into a Frame using sch for column kinds.
// A header row is required and must contain every schema column.
func ParseCSV(data []byte, sch *schema.Config) (*engine.Frame, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV headers: %v", ErrMalformedInput, err)
	}

	columns := make([]engine.ColumnMeta, len(headers))
	present := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if col, ok := sch.Column(h); ok {
			columns[i] = col.Meta()
		} else {
			columns[i] = engine.ColumnMeta{Name: h, Kind: engine.KindDimension}
		}
		present[h] = true
	}
	for _, key := range sch.Keys() {
		if !present[key] {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, key)
		}
	}

	frame := &engine.Frame{Columns: columns}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, val := range row {
			col := columns[i]
			val = strings.TrimSpace(val)
			if col.Kind == engine.KindMeasure {
				f, err := parseNumber(val)
				if err != nil {
					// file line, counting line breaks inside quoted fields
					line, _ := reader.FieldPos(i)
					return nil, fmt.Errorf("%w: line %d, column %q: %q is not numeric", ErrMalformedInput, line, col.Name, val)
				}
				rec.Measures[col.Name] = f
				continue
			}
			rec.Dimensions[col.Name] = val
		}
		frame.Records = append(frame.Records, rec)
	}

	return frame, nil
}

// parseNumber parses a numeric cell; an empty cell is a missing value (NaN).
func parseNumber(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
