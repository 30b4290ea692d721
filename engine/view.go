package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Aggregation never owns the frame. It reads through this interface.
//
// Implementations:
//   *Frame       — the loaded table itself
//   SubView      — filtered subset (indices into parent, zero-copy)
//   DerivedView  — parent plus one virtual dimension computed on read
// ============================================================================

// RecordView provides indexed access to a dataset.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// FRAME VIEW
// ============================================================================

func (f *Frame) Len() int { return len(f.Records) }

func (f *Frame) Dimension(i int, key string) string {
	if i < 0 || i >= len(f.Records) {
		return ""
	}
	return f.Records[i].Dimensions[key]
}

func (f *Frame) Measure(i int, key string) float64 {
	if i < 0 || i >= len(f.Records) {
		return 0
	}
	return f.Records[i].Measures[key]
}

func (f *Frame) DimensionKeys() []string { return f.keysOf(KindDimension) }
func (f *Frame) MeasureKeys() []string   { return f.keysOf(KindMeasure) }

func (f *Frame) keysOf(kind ColumnKind) []string {
	var keys []string
	for _, c := range f.Columns {
		if c.Kind == kind {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent; no data is copied.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DERIVED VIEW — virtual dimension (zero-copy)
// ============================================================================

// DerivedView adds one computed dimension to a parent view.
// The derive function runs on every Dimension() call for that key.
type DerivedView struct {
	parent RecordView
	key    string
	derive func(view RecordView, index int) string
	keys   []string
}

// WithDimension returns a view exposing key as an extra dimension whose
// value is computed from the parent row.
func WithDimension(parent RecordView, key string, derive func(view RecordView, index int) string) RecordView {
	keys := append([]string{}, parent.DimensionKeys()...)
	keys = append(keys, key)
	return &DerivedView{parent: parent, key: key, derive: derive, keys: keys}
}

func (v *DerivedView) Len() int { return v.parent.Len() }

func (v *DerivedView) Dimension(i int, key string) string {
	if key == v.key {
		if i < 0 || i >= v.parent.Len() {
			return ""
		}
		return v.derive(v.parent, i)
	}
	return v.parent.Dimension(i, key)
}

func (v *DerivedView) Measure(i int, key string) float64 { return v.parent.Measure(i, key) }

func (v *DerivedView) DimensionKeys() []string { return v.keys }
func (v *DerivedView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// MeasureValues collects a measure across the whole view.
func MeasureValues(view RecordView, measure string) []float64 {
	out := make([]float64, view.Len())
	for i := range out {
		out[i] = view.Measure(i, measure)
	}
	return out
}
