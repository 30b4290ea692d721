package schema

import (
	"errors"
	"fmt"

	"github.com/spektr-org/seguros/engine"
)

// ============================================================================
// TRANSLATE — Rename columns and recode categorical values
// ============================================================================
// Pass 1 renames every column found in the schema (source key → display).
// Pass 2 recodes categorical values, looked up by the column's display name.
// Names and values outside the tables pass through unchanged, so running
// Translate on an already translated frame is a no-op.
// ============================================================================

// ErrUnmappedValue is returned in strict mode for a categorical value that is
// neither a source value nor a display value of its column.
var ErrUnmappedValue = errors.New("unmapped categorical value")

// Policy selects how values outside a recode table are handled.
type Policy int

const (
	// Lenient passes unmapped values through untranslated.
	Lenient Policy = iota
	// Strict rejects unmapped values with ErrUnmappedValue.
	Strict
)

// Translate returns a new frame with display column names and recoded values.
// The input frame is not modified.
func Translate(frame *engine.Frame, cfg *Config, policy Policy) (*engine.Frame, error) {
	renames := cfg.Renames()

	out := &engine.Frame{
		Columns: make([]engine.ColumnMeta, len(frame.Columns)),
		Records: make([]engine.Record, len(frame.Records)),
	}
	for i, c := range frame.Columns {
		if to, ok := renames[c.Name]; ok {
			c.Name = to
		}
		out.Columns[i] = c
	}

	// recode tables keyed by the (renamed) frame column
	recodes := make(map[string]Column)
	for _, c := range out.Columns {
		if c.Kind != engine.KindDimension {
			continue
		}
		if col, ok := cfg.ByDisplay(c.Name); ok && len(col.Values) > 0 {
			recodes[c.Name] = col
		}
	}

	for ri, rec := range frame.Records {
		tr := engine.Record{
			Dimensions: make(map[string]string, len(rec.Dimensions)),
			Measures:   make(map[string]float64, len(rec.Measures)),
		}
		for k, v := range rec.Measures {
			tr.Measures[rename(renames, k)] = v
		}
		for k, v := range rec.Dimensions {
			name := rename(renames, k)
			if col, ok := recodes[name]; ok {
				if to, ok := col.Recode(v); ok {
					v = to
				} else if policy == Strict && !col.IsDisplayValue(v) {
					// header is line 1
					return nil, fmt.Errorf("%w: column %q, row %d: %q", ErrUnmappedValue, name, ri+2, v)
				}
			}
			tr.Dimensions[name] = v
		}
		out.Records[ri] = tr
	}

	return out, nil
}

func rename(renames map[string]string, key string) string {
	if to, ok := renames[key]; ok {
		return to
	}
	return key
}

// Unmapped lists, per column, the distinct values of a translated frame that
// are neither source nor display values of the column's recode table.
func Unmapped(frame *engine.Frame, cfg *Config) map[string][]string {
	out := make(map[string][]string)
	for _, c := range frame.Columns {
		if c.Kind != engine.KindDimension {
			continue
		}
		col, ok := cfg.ByDisplay(c.Name)
		if !ok || len(col.Values) == 0 {
			continue
		}
		for _, v := range engine.UniqueValues(frame, c.Name) {
			if _, src := col.Recode(v); !src && !col.IsDisplayValue(v) {
				out[c.Name] = append(out[c.Name], v)
			}
		}
	}
	return out
}
