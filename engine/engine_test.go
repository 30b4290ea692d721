package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FIXTURES
// ============================================================================

func policyholder(age float64, sex, smoker string, bmi, charges float64) Record {
	return Record{
		Dimensions: map[string]string{"Sexo": sex, "Fumador": smoker},
		Measures:   map[string]float64{"Edad": age, "BMI": bmi, "Costos": charges},
	}
}

func fourRowFrame() *Frame {
	return &Frame{
		Columns: []ColumnMeta{
			{Name: "Edad", Kind: KindMeasure, Integer: true},
			{Name: "Sexo", Kind: KindDimension},
			{Name: "BMI", Kind: KindMeasure},
			{Name: "Fumador", Kind: KindDimension},
			{Name: "Costos", Kind: KindMeasure},
		},
		Records: []Record{
			policyholder(20, "Masculino", "No", 25, 1000),
			policyholder(22, "Masculino", "No", 27, 1200),
			policyholder(20, "Femenino", "Si", 22, 3000),
			policyholder(68, "Masculino", "No", 30, 5000),
		},
	}
}

func smokerSexColumns() []ColumnKey {
	col := func(smoker, sex string) ColumnKey {
		return ColumnKey{
			Label:  smoker + "/" + sex,
			Values: map[string]string{"Fumador": smoker, "Sexo": sex},
		}
	}
	return []ColumnKey{
		col("No", "Masculino"),
		col("No", "Femenino"),
		col("Si", "Masculino"),
		col("Si", "Femenino"),
	}
}

func ageBuckets(t *testing.T) Buckets {
	t.Helper()
	b, err := NewBuckets(15, 70, 5)
	require.NoError(t, err)
	return b
}

// ============================================================================
// FRAME & VIEWS
// ============================================================================

func TestFrameShapeAndKeys(t *testing.T) {
	f := fourRowFrame()

	rows, cols := f.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 5, cols)
	assert.Equal(t, []string{"Edad", "BMI", "Costos"}, f.MeasureKeys())
	assert.Equal(t, []string{"Sexo", "Fumador"}, f.DimensionKeys())

	head := f.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, 4, f.Head(10).Len())
	assert.Equal(t, 0, f.Head(-1).Len())
}

func TestWhereAndDerivedView(t *testing.T) {
	f := fourRowFrame()

	smokers := Where(f, func(v RecordView, i int) bool { return v.Dimension(i, "Fumador") == "Si" })
	require.Equal(t, 1, smokers.Len())
	assert.Equal(t, 3000.0, smokers.Measure(0, "Costos"))

	derived := WithDimension(f, "Mayor", func(v RecordView, i int) string {
		if v.Measure(i, "Edad") >= 65 {
			return "si"
		}
		return ""
	})
	assert.Equal(t, []string{"Sexo", "Fumador", "Mayor"}, derived.DimensionKeys())
	assert.Equal(t, "Masculino", derived.Dimension(3, "Sexo"))

	seniors := Where(derived, HasDimension("Mayor"))
	require.Equal(t, 1, seniors.Len())
	assert.Equal(t, 68.0, seniors.Measure(0, "Edad"))
	assert.Equal(t, "", seniors.Dimension(5, "Mayor"))
}

// ============================================================================
// BUCKETS
// ============================================================================

func TestBucketLabels(t *testing.T) {
	b := ageBuckets(t)
	labels := b.Labels()

	assert.Equal(t, 11, b.Len())
	require.Len(t, labels, 11)
	assert.Equal(t, "15-20", labels[0])
	assert.Equal(t, "65-70", labels[10])
}

func TestBucketLabelBoundaries(t *testing.T) {
	b := ageBuckets(t)

	tests := []struct {
		age  float64
		want string
		ok   bool
	}{
		{15, "15-20", true},
		{19.9, "15-20", true},
		{20, "20-25", true},
		{64, "60-65", true},
		{69, "65-70", true},
		{70, "", false},
		{14, "", false},
		{math.NaN(), "", false},
	}
	for _, tt := range tests {
		got, ok := b.Label(tt.age)
		assert.Equal(t, tt.ok, ok, "age %v", tt.age)
		assert.Equal(t, tt.want, got, "age %v", tt.age)
	}
}

func TestBucketsCoverEveryAgeExactlyOnce(t *testing.T) {
	b := ageBuckets(t)
	seen := map[string]int{}
	for age := 15; age < 70; age++ {
		label, ok := b.Label(float64(age))
		require.True(t, ok, "age %d", age)
		seen[label]++
	}
	for _, label := range b.Labels() {
		assert.Equal(t, 5, seen[label], label)
	}
}

func TestNewBucketsRejectsBadRanges(t *testing.T) {
	_, err := NewBuckets(15, 70, 0)
	assert.Error(t, err)
	_, err = NewBuckets(70, 15, 5)
	assert.Error(t, err)
	_, err = NewBuckets(15, 71, 5)
	assert.Error(t, err)
}

// ============================================================================
// AGGREGATION
// ============================================================================

func TestGroupAndAggregateNested(t *testing.T) {
	groups := GroupAndAggregate(fourRowFrame(), []string{"Fumador", "Sexo"}, []string{"Costos"}, AggAvg)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"No"}, groups[0].Key)
	assert.Equal(t, 3, groups[0].Count)
	assert.InDelta(t, 7200.0/3, groups[0].Values["Costos"], 1e-9)

	leaves := Leaves(groups)
	keys := make([][]string, len(leaves))
	for i, l := range leaves {
		keys[i] = l.Key
	}
	want := [][]string{{"No", "Masculino"}, {"Si", "Femenino"}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("leaf keys mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregationModes(t *testing.T) {
	f := fourRowFrame()

	assert.Equal(t, 2550.0, AvgMeasure(f, "Costos"))

	empty := Where(f, HasDimension("Region"))
	assert.True(t, math.IsNaN(AvgMeasure(empty, "Costos")))
	assert.Nil(t, GroupAndAggregate(empty, []string{"Sexo"}, []string{"Costos"}, AggAvg))

	groups := GroupAndAggregate(f, []string{"Sexo"}, []string{"Costos"}, AggCount)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Masculino"}, groups[0].Key, "first appearance order")
	assert.Equal(t, 3.0, groups[0].Values["Costos"])
	assert.Equal(t, 1.0, groups[1].Values["Costos"])
}

func TestAvgMeasureSkipsMissing(t *testing.T) {
	f := fourRowFrame()
	f.Records[1].Measures["BMI"] = math.NaN()

	assert.InDelta(t, 77.0/3, AvgMeasure(f, "BMI"), 1e-12)

	groups := GroupAndAggregate(f, []string{"Sexo"}, []string{"BMI"}, AggAvg)
	require.Len(t, groups, 2)
	assert.Equal(t, 27.5, groups[0].Values["BMI"])
	assert.Equal(t, 3, groups[0].Count, "missing values still count as records")

	f.Records[2].Measures["BMI"] = math.NaN()
	groups = GroupAndAggregate(f, []string{"Sexo"}, []string{"BMI"}, AggAvg)
	assert.True(t, math.IsNaN(groups[1].Values["BMI"]), "no values left to average")
}

func TestUniqueValues(t *testing.T) {
	assert.Equal(t, []string{"Masculino", "Femenino"}, UniqueValues(fourRowFrame(), "Sexo"))
}

// ============================================================================
// PIVOT
// ============================================================================

func agePivot(t *testing.T, measure string) *PivotTable {
	t.Helper()
	b := ageBuckets(t)
	view := Where(b.View(fourRowFrame(), "Edad", "Grupo"), HasDimension("Grupo"))
	return BuildPivot(view, PivotSpec{
		Measure:          measure,
		RowDimension:     "Grupo",
		RowOrder:         b.Labels(),
		ColumnDimensions: []string{"Fumador", "Sexo"},
		Columns:          smokerSexColumns(),
	})
}

func pivotRow(t *testing.T, p *PivotTable, label string) []Cell {
	t.Helper()
	for i, r := range p.Rows {
		if r == label {
			return p.Cells[i]
		}
	}
	t.Fatalf("row %q not in pivot %v", label, p.Rows)
	return nil
}

func TestBuildPivotMeansPerCell(t *testing.T) {
	bmi := agePivot(t, "BMI")
	costs := agePivot(t, "Costos")

	assert.Equal(t, []string{"20-25", "65-70"}, bmi.Rows)
	assert.Equal(t, []string{"No/Masculino", "No/Femenino", "Si/Masculino", "Si/Femenino"}, bmi.ColumnLabels())

	assert.Equal(t, AggAvg, bmi.Aggregation)
	assert.Equal(t, []Cell{{26, true}, {}, {}, {22, true}}, pivotRow(t, bmi, "20-25"))
	assert.Equal(t, []Cell{{1100, true}, {}, {}, {3000, true}}, pivotRow(t, costs, "20-25"))
	assert.Equal(t, []Cell{{30, true}, {}, {}, {}}, pivotRow(t, bmi, "65-70"))
	assert.Equal(t, []Cell{{5000, true}, {}, {}, {}}, pivotRow(t, costs, "65-70"))
	assert.NotContains(t, bmi.Rows, "15-20", "rows without records are omitted")
}

func TestBuildPivotFirstAppearanceOrder(t *testing.T) {
	p := BuildPivot(fourRowFrame(), PivotSpec{
		Measure:          "Costos",
		Aggregation:      AggCount,
		RowDimension:     "Sexo",
		ColumnDimensions: []string{"Fumador"},
		Columns: []ColumnKey{
			{Label: "No", Values: map[string]string{"Fumador": "No"}},
			{Label: "Si", Values: map[string]string{"Fumador": "Si"}},
		},
	})

	assert.Equal(t, "Sexo", p.RowHeader)
	assert.Equal(t, AggCount, p.Aggregation)
	assert.Equal(t, []string{"Masculino", "Femenino"}, p.Rows)
	assert.Equal(t, [][]Cell{
		{{3, true}, {}},
		{{}, {1, true}},
	}, p.Cells)
}

// ============================================================================
// DESCRIBE & CORRELATION
// ============================================================================

func TestDescribeValues(t *testing.T) {
	s := DescribeValues("x", []float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.InDelta(t, 2.5, s.Q50, 1e-12)
	assert.InDelta(t, 3.25, s.Q75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribeEdgeCases(t *testing.T) {
	one := DescribeValues("x", []float64{7})
	assert.Equal(t, 7.0, one.Q25)
	assert.True(t, math.IsNaN(one.Std))

	none := DescribeValues("x", nil)
	assert.Equal(t, 0, none.Count)
	assert.True(t, math.IsNaN(none.Mean))
}

func TestDescribeSkipsMissing(t *testing.T) {
	s := DescribeValues("BMI", []float64{4, math.NaN(), 1, 3, 2})

	assert.Equal(t, 4, s.Count, "count covers present values only")
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.Equal(t, 4.0, s.Max)

	all := DescribeValues("BMI", []float64{math.NaN(), math.NaN()})
	assert.Equal(t, 0, all.Count)
	assert.True(t, math.IsNaN(all.Mean))
}

func TestDescribeCoversMeasureColumnsInOrder(t *testing.T) {
	stats := Describe(fourRowFrame())
	require.Len(t, stats, 3)
	assert.Equal(t, "Edad", stats[0].Column)
	assert.Equal(t, "Costos", stats[2].Column)
	assert.Equal(t, 32.5, stats[0].Mean)
}

func TestCorrelation(t *testing.T) {
	f := &Frame{
		Columns: []ColumnMeta{
			{Name: "a", Kind: KindMeasure},
			{Name: "b", Kind: KindMeasure},
			{Name: "c", Kind: KindMeasure},
		},
	}
	for _, v := range []float64{1, 2, 3, 4, 5} {
		f.Records = append(f.Records, Record{Measures: map[string]float64{
			"a": v, "b": -2 * v, "c": 1,
		}})
	}

	m := Correlation(f)
	assert.Equal(t, []string{"a", "b", "c"}, m.Columns)
	assert.InDelta(t, 1.0, m.Values[0][0], 1e-12)
	assert.InDelta(t, -1.0, m.Values[0][1], 1e-12)
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
	assert.True(t, math.IsNaN(m.Values[0][2]))
	assert.True(t, math.IsNaN(m.Values[2][2]))
}

func TestCorrelationUsesCompleteRows(t *testing.T) {
	f := &Frame{
		Columns: []ColumnMeta{
			{Name: "a", Kind: KindMeasure},
			{Name: "b", Kind: KindMeasure},
		},
	}
	for _, row := range [][2]float64{{1, 2}, {2, math.NaN()}, {3, 6}, {4, 8}, {math.NaN(), 1}} {
		f.Records = append(f.Records, Record{Measures: map[string]float64{"a": row[0], "b": row[1]}})
	}

	m := Correlation(f)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
	assert.InDelta(t, 1.0, m.Values[0][0], 1e-12)
	assert.InDelta(t, 1.0, m.Values[1][1], 1e-12)
}

// ============================================================================
// DENSITY
// ============================================================================

func TestAutoBins(t *testing.T) {
	assert.Equal(t, 1, AutoBins(nil))
	assert.Equal(t, 1, AutoBins([]float64{3, 3, 3}))
	assert.Equal(t, 5, AutoBins([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
}

func TestKDEIntegratesToOne(t *testing.T) {
	values := []float64{18, 19, 23, 25, 28, 31, 33, 37, 46, 52, 60, 64}
	curve := KDE(values, DefaultKDEOptions())
	require.Len(t, curve, 200)

	var area float64
	for i := 1; i < len(curve); i++ {
		area += (curve[i].X - curve[i-1].X) * (curve[i].Y + curve[i-1].Y) / 2
	}
	assert.InDelta(t, 1.0, area, 0.01)

	bw := ScottBandwidth(values)
	assert.InDelta(t, 18-3*bw, curve[0].X, 1e-9)
	assert.InDelta(t, 64+3*bw, curve[199].X, 1e-9)
}

func TestKDEDegenerate(t *testing.T) {
	assert.Nil(t, KDE([]float64{5}, DefaultKDEOptions()))
	assert.Nil(t, KDE([]float64{5, 5, 5}, DefaultKDEOptions()))
}
