package engine

// ============================================================================
// FILTERS — Row selection via RecordView
// ============================================================================
// Single-pass filters returning a SubView (index list into parent).
// ============================================================================

// Predicate reports whether row i of a view should be kept.
type Predicate func(view RecordView, i int) bool

// Where returns a view of the rows matching pred.
func Where(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// HasDimension keeps rows where the dimension is non-empty.
func HasDimension(key string) Predicate {
	return func(view RecordView, i int) bool {
		return view.Dimension(i, key) != ""
	}
}

