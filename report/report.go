// Package report prints descriptive summaries of a frame to the console:
// its shape, the first rows, describe() statistics and pivot tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spektr-org/seguros/engine"
)

// HeadRows is the number of rows printed by Head.
const HeadRows = 5

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Reporter writes console reports.
type Reporter struct {
	w io.Writer
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Shape prints "(rows, columns)".
func (r *Reporter) Shape(f *engine.Frame) error {
	rows, cols := f.Shape()
	_, err := fmt.Fprintf(r.w, "(%d, %d)\n\n", rows, cols)
	return err
}

// Head prints the first HeadRows records with a positional index.
func (r *Reporter) Head(f *engine.Frame) error {
	head := f.Head(HeadRows)
	headers := append([]string{""}, head.ColumnNames()...)

	rows := make([][]string, 0, head.Len())
	for i := 0; i < head.Len(); i++ {
		row := []string{strconv.Itoa(i)}
		for _, c := range head.Columns {
			if c.Kind == engine.KindMeasure {
				row = append(row, formatMeasure(head.Measure(i, c.Name), c.Integer))
				continue
			}
			row = append(row, head.Dimension(i, c.Name))
		}
		rows = append(rows, row)
	}

	return r.render(headers, rows, "")
}

// Describe prints summary statistics, one column per numeric field.
func (r *Reporter) Describe(stats []engine.ColumnStats) error {
	headers := []string{""}
	for _, s := range stats {
		headers = append(headers, s.Column)
	}

	type line struct {
		name string
		get  func(engine.ColumnStats) float64
	}
	lines := []line{
		{"count", func(s engine.ColumnStats) float64 { return float64(s.Count) }},
		{"mean", func(s engine.ColumnStats) float64 { return s.Mean }},
		{"std", func(s engine.ColumnStats) float64 { return s.Std }},
		{"min", func(s engine.ColumnStats) float64 { return s.Min }},
		{"25%", func(s engine.ColumnStats) float64 { return s.Q25 }},
		{"50%", func(s engine.ColumnStats) float64 { return s.Q50 }},
		{"75%", func(s engine.ColumnStats) float64 { return s.Q75 }},
		{"max", func(s engine.ColumnStats) float64 { return s.Max }},
	}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		row := []string{l.name}
		for _, s := range stats {
			row = append(row, formatStat(l.get(s)))
		}
		rows = append(rows, row)
	}

	return r.render(headers, rows, "")
}

// Pivot prints a pivot table; missing cells print as NaN. Count tables
// print whole numbers.
func (r *Reporter) Pivot(p *engine.PivotTable) error {
	format := formatStat
	if p.Aggregation == engine.AggCount {
		format = func(v float64) string { return formatMeasure(v, true) }
	}

	headers := append([]string{p.RowHeader}, p.ColumnLabels()...)
	rows := make([][]string, 0, len(p.Rows))
	for i, label := range p.Rows {
		row := []string{label}
		for _, c := range p.Cells[i] {
			if !c.Valid {
				row = append(row, "NaN")
				continue
			}
			row = append(row, format(c.Value))
		}
		rows = append(rows, row)
	}
	return r.render(headers, rows, p.Title)
}

func (r *Reporter) render(headers []string, rows [][]string, title string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	if title != "" {
		if _, err := fmt.Fprintln(r.w, title); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.w, "%s\n\n", t.Render())
	return err
}

func formatMeasure(v float64, integer bool) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if integer && v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
