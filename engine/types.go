package engine

// ============================================================================
// ENGINE TYPES — Policyholder tables and their derivatives
// ============================================================================
// A Frame is the whole dataset held in memory: ordered column metadata plus
// one Record per row. Every derivative (groups, pivots, statistics) is
// computed once from a Frame and never mutated afterwards.
// ============================================================================

// ColumnKind classifies a column as categorical or numeric.
type ColumnKind string

const (
	KindDimension ColumnKind = "dimension" // categorical, stored as string
	KindMeasure   ColumnKind = "measure"   // numeric, stored as float64
)

// ============================================================================
// RECORD — one policyholder row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
//	Record{Dimensions["Sexo"]="Masculino", Measures["Costos"]=16884.924}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ColumnMeta describes one column of a Frame, in file order.
type ColumnMeta struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Integer bool       `json:"integer,omitempty"` // measure holding whole numbers (printing only)
}

// ============================================================================
// FRAME — ordered in-memory table
// ============================================================================

// Frame is an ordered, in-memory table of records.
type Frame struct {
	Columns []ColumnMeta `json:"columns"`
	Records []Record     `json:"records"`
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.Records), len(f.Columns)
}

// Column returns the metadata for a named column.
func (f *Frame) Column(name string) (ColumnMeta, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// ColumnNames returns all column names in file order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Head returns a frame holding the first n records (shared, not copied).
func (f *Frame) Head(n int) *Frame {
	if n > len(f.Records) {
		n = len(f.Records)
	}
	if n < 0 {
		n = 0
	}
	return &Frame{Columns: f.Columns, Records: f.Records[:n]}
}

// ============================================================================
// GROUP — intermediate aggregation result
// ============================================================================

// Group represents one grouped/aggregated bucket of records.
// Key holds the group's value for every grouping dimension, outermost first.
type Group struct {
	Key       []string           `json:"key"`
	Count     int                `json:"count"`
	Values    map[string]float64 `json:"values"` // measure → aggregated value
	SubGroups []Group            `json:"subGroups,omitempty"`
	View      RecordView         `json:"-"`
}

// ============================================================================
// PIVOT TYPES
// ============================================================================

// Cell is an optional numeric value. Valid is false for combinations with
// no matching records; Value is then meaningless.
type Cell struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ColumnKey identifies one pivot column by its dimension values.
type ColumnKey struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"` // dimension → required value
}

// PivotTable is a flat table: one row per row-dimension value, one column
// per ColumnKey. Rows appear in the order they were requested.
type PivotTable struct {
	Title       string      `json:"title"`
	Measure     string      `json:"measure"`
	Aggregation string      `json:"aggregation"`
	RowHeader   string      `json:"rowHeader"`
	Rows        []string    `json:"rows"`
	Columns     []ColumnKey `json:"columns"`
	Cells       [][]Cell    `json:"cells"` // [row][column]
}

// ColumnLabels returns the labels of all pivot columns.
func (p *PivotTable) ColumnLabels() []string {
	labels := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		labels[i] = c.Label
	}
	return labels
}

// ============================================================================
// STATISTICS TYPES
// ============================================================================

// ColumnStats mirrors one column of a describe() summary.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// CorrelationMatrix is a square Pearson correlation matrix.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
