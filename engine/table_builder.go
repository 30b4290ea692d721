package engine

// ============================================================================
// TABLE BUILDER — Produces a PivotTable from grouped aggregates
// ============================================================================
// Rows are the values of one dimension (in a caller-fixed order), columns
// are fixed combinations of other dimensions. A cell with no records stays
// invalid; it is never defaulted to zero.
// ============================================================================

// PivotSpec describes the flat table to build.
type PivotSpec struct {
	Title            string
	Measure          string
	Aggregation      string      // default AggAvg
	RowDimension     string      // dimension whose values become rows
	RowOrder         []string    // row order; nil = first appearance
	ColumnDimensions []string    // dimensions crossed into columns, outermost first
	Columns          []ColumnKey // fixed column order
}

// BuildPivot groups view by the row dimension and column dimensions and
// reshapes the aggregated measure into a PivotTable.
//
// A row appears only if at least one record carries that row value;
// rows listed in RowOrder without records are omitted.
func BuildPivot(view RecordView, spec PivotSpec) *PivotTable {
	aggregation := spec.Aggregation
	if aggregation == "" {
		aggregation = AggAvg
	}

	table := &PivotTable{
		Title:       spec.Title,
		Measure:     spec.Measure,
		Aggregation: aggregation,
		RowHeader:   spec.RowDimension,
		Rows:        []string{},
		Columns:     spec.Columns,
		Cells:       [][]Cell{},
	}

	groupBy := append([]string{spec.RowDimension}, spec.ColumnDimensions...)
	groups := GroupAndAggregate(view, groupBy, []string{spec.Measure}, aggregation)

	rowIndex := make(map[string]int, len(groups))
	for i, g := range groups {
		rowIndex[g.Key[0]] = i
	}

	order := spec.RowOrder
	if order == nil {
		for _, g := range groups {
			order = append(order, g.Key[0])
		}
	}

	for _, row := range order {
		gi, ok := rowIndex[row]
		if !ok || groups[gi].Count == 0 {
			continue
		}
		cells := make([]Cell, len(spec.Columns))
		for _, leaf := range Leaves(groups[gi].SubGroups) {
			col := matchColumn(spec.Columns, spec.ColumnDimensions, leaf.Key[1:])
			if col < 0 || leaf.Count == 0 {
				continue
			}
			cells[col] = Cell{Value: leaf.Values[spec.Measure], Valid: true}
		}
		table.Rows = append(table.Rows, row)
		table.Cells = append(table.Cells, cells)
	}

	return table
}

// matchColumn returns the index of the column whose required values equal
// the given dimension values, or -1.
func matchColumn(columns []ColumnKey, dimensions []string, values []string) int {
	for ci, col := range columns {
		match := true
		for di, dim := range dimensions {
			if di >= len(values) || col.Values[dim] != values[di] {
				match = false
				break
			}
		}
		if match {
			return ci
		}
	}
	return -1
}
