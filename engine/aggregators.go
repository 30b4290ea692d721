package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Grouping and Aggregation via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into parent view). Groups only
// exist for key combinations that actually occur: an empty combination has
// no Group, never a zero-valued one. Sibling groups keep the order in which
// their key first appears.
// ============================================================================

// Aggregation names understood by GroupAndAggregate.
const (
	AggAvg   = "avg"
	AggCount = "count"
)

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group (N levels) → aggregate every measure at every level.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measures []string,
	aggregation string,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{View: view}}
	} else {
		groups = groupByLevels(view, groupBy, nil)
	}

	aggregateTree(groups, measures, aggregation)
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string, prefix []string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		full := append(append([]string{}, prefix...), key)
		groups = append(groups, Group{
			Key:  full,
			View: newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByLevels(view RecordView, dimensions []string, prefix []string) []Group {
	groups := groupBySingle(view, dimensions[0], prefix)
	if len(dimensions) == 1 {
		return groups
	}
	for i := range groups {
		groups[i].SubGroups = groupByLevels(groups[i].View, dimensions[1:], groups[i].Key)
	}
	return groups
}

// Leaves flattens a group tree to its innermost groups, depth-first.
func Leaves(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if len(g.SubGroups) == 0 {
			out = append(out, g)
			continue
		}
		out = append(out, Leaves(g.SubGroups)...)
	}
	return out
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateTree(groups []Group, measures []string, aggregation string) {
	for i := range groups {
		aggregateGroup(&groups[i], measures, aggregation)
		aggregateTree(groups[i].SubGroups, measures, aggregation)
	}
}

func aggregateGroup(group *Group, measures []string, aggregation string) {
	group.Count = group.View.Len()
	group.Values = make(map[string]float64, len(measures))
	if group.Count == 0 {
		return
	}

	for _, measure := range measures {
		switch aggregation {
		case AggCount:
			group.Values[measure] = float64(group.Count)
		default:
			group.Values[measure] = AvgMeasure(group.View, measure)
		}
	}
}

// AvgMeasure computes the arithmetic mean of a named measure, skipping
// missing (NaN) values. Returns NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	values := dropNaN(MeasureValues(view, measure))
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// ============================================================================
// UTILITIES
// ============================================================================

// UniqueValues returns distinct non-empty values for a dimension, in order
// of first appearance.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// dropNaN returns the non-NaN values, in order.
func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
