// Package latex renders age × sex × smoker pivot tables as LaTeX table
// environments. The output is consumed verbatim by a typesetting build, so
// every byte of the template is fixed.
package latex

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/seguros/engine"
)

// MissingCell is printed for a combination with no records.
const MissingCell = "nan"

// ColumnCount is the number of value columns the template has room for.
const ColumnCount = 4

const (
	rowSeparator = " \\\\ \n"
	cellJoin     = " & "

	headerTop = "\\begin{table}[htb]\n"

	headerTabular = "\t\\centering\n" +
		"\t\\begin{tabular}{ |c|c|c|c|c| } \n" +
		"\t\t\\hline\n" +
		"\t\t\\multirow{2}{*}{Edad} & \\multicolumn{2}{c|}{No fumador} & \\multicolumn{2}{c|}{Fumador}" + rowSeparator +
		"\t\t\\cline{2-5} \n" +
		"& Masculino & Femenino & Masculino & Femenino" + rowSeparator +
		"\t\t\\hline\n"

	footer = "\t\t\\hline \n" +
		"\t\\end{tabular} \n" +
		"\\end{table} \n"
)

// Option configures rendering.
type Option func(*config)

type config struct {
	escape bool
}

// WithEscaping escapes LaTeX special characters in the caption, label and
// row labels. Off by default.
func WithEscaping() Option {
	return func(c *config) { c.escape = true }
}

// Render formats table into the fixed LaTeX template.
// Rows are emitted in the table's row order, one line each.
func Render(table *engine.PivotTable, caption, label string, opts ...Option) (string, error) {
	if len(table.Columns) != ColumnCount {
		return "", fmt.Errorf("latex template needs %d columns, table %q has %d", ColumnCount, table.Title, len(table.Columns))
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	text := func(s string) string {
		if cfg.escape {
			return Escape(s)
		}
		return s
	}

	var b strings.Builder
	b.WriteString(headerTop)
	b.WriteString("\t\\label{" + text(label) + "} \n")
	b.WriteString("\t\\caption{" + text(caption) + "} \n")
	b.WriteString(headerTabular)

	for i, row := range table.Rows {
		cells := make([]string, len(table.Cells[i]))
		for j, c := range table.Cells[i] {
			cells[j] = FormatCell(c)
		}
		b.WriteString("\t\t" + text(row) + cellJoin + strings.Join(cells, cellJoin) + rowSeparator)
	}

	b.WriteString(footer)
	return b.String(), nil
}

// WriteFile renders table and writes it to path, replacing any existing file.
func WriteFile(path string, table *engine.PivotTable, caption, label string, opts ...Option) error {
	out, err := Render(table, caption, label, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// FormatCell prints a pivot cell; invalid cells print as MissingCell.
func FormatCell(c engine.Cell) string {
	if !c.Valid {
		return MissingCell
	}
	return FormatNumber(c.Value)
}

// FormatNumber rounds v to 2 decimals (correct decimal rounding, ties to
// even on the exact binary value) and prints the shortest string that reads
// back to the rounded value, always with a fractional part: 1100 → "1100.0",
// 26.666… → "26.67".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		// |v| too large to round-trip; keep it unrounded
		r = v
	}

	abs := math.Abs(r)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(r, 'e', -1, 64)
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes s safe to place in LaTeX text mode.
func Escape(s string) string {
	return escaper.Replace(s)
}
