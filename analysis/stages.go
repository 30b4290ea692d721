package analysis

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spektr-org/seguros/charts"
	"github.com/spektr-org/seguros/engine"
	"github.com/spektr-org/seguros/helpers"
	"github.com/spektr-org/seguros/latex"
	"github.com/spektr-org/seguros/report"
	"github.com/spektr-org/seguros/schema"
)

// ============================================================================
// STAGES — load → translate → report → plot → aggregate → serialize
// ============================================================================
// Each stage takes the previous stage's output explicitly and shares the
// translated frame read-only.
// ============================================================================

// Fixed file names.
const (
	InputFile        = "insurance.csv"
	CorrelationImage = "correlacion.png"
	AgesImage        = "edades.png"
	BMITable         = "bmi.tex"
	CostsTable       = "costos.tex"
)

// Translated column names used by the analysis.
const (
	ColAge     = "Edad"
	ColSex     = "Sexo"
	ColBMI     = "BMI"
	ColSmoker  = "Fumador"
	ColCharges = "Costos"
	ColBucket  = "Grupo etario"
)

// Age buckets: [15, 70) in steps of 5.
const (
	BucketLow   = 15
	BucketHigh  = 70
	BucketWidth = 5
)

// Table captions and labels.
const (
	BMICaption   = "Promedios de BMI por edad, sexo y fumador"
	BMILabel     = "tab:bmi"
	CostsCaption = "Promedios de costos por edad, sexo y fumador"
	CostsLabel   = "tab:costos"

	CountsCaption = "Registros por edad, sexo y fumador"
)

// ErrOutputUnwritable wraps failures to write a figure or table.
var ErrOutputUnwritable = errors.New("output not writable")

// PivotColumns is the fixed column order of both tables:
// (No, Masculino), (No, Femenino), (Si, Masculino), (Si, Femenino).
func PivotColumns() []engine.ColumnKey {
	col := func(smoker, sex string) engine.ColumnKey {
		return engine.ColumnKey{
			Label:  smoker + "/" + sex,
			Values: map[string]string{ColSmoker: smoker, ColSex: sex},
		}
	}
	return []engine.ColumnKey{
		col("No", "Masculino"),
		col("No", "Femenino"),
		col("Si", "Masculino"),
		col("Si", "Femenino"),
	}
}

// AgeBuckets returns the fixed age partition.
func AgeBuckets() engine.Buckets {
	b, err := engine.NewBuckets(BucketLow, BucketHigh, BucketWidth)
	if err != nil {
		// constants; only a broken build gets here
		panic(err)
	}
	return b
}

// ── Load ──────────────────────────────────────────────────────────────────

// Load reads the CSV at path and translates it for presentation.
func Load(path string, sch *schema.Config, policy schema.Policy) (*engine.Frame, error) {
	raw, err := helpers.LoadFile(path, sch)
	if err != nil {
		return nil, err
	}
	return schema.Translate(raw, sch, policy)
}

// ── Report ────────────────────────────────────────────────────────────────

// Describe prints shape, first rows and summary statistics.
func Describe(rep *report.Reporter, frame *engine.Frame) error {
	if err := rep.Shape(frame); err != nil {
		return err
	}
	if err := rep.Head(frame); err != nil {
		return err
	}
	return rep.Describe(engine.Describe(frame))
}

// ── Plot ──────────────────────────────────────────────────────────────────

// Plot writes the correlation heatmap and the age distribution into dir.
func Plot(frame *engine.Frame, dir string) ([]string, error) {
	corrPath := filepath.Join(dir, CorrelationImage)
	if err := charts.SaveHeatmap(engine.Correlation(frame), corrPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputUnwritable, corrPath, err)
	}

	agesPath := filepath.Join(dir, AgesImage)
	opts := charts.DistributionOptions{
		XLabel: ColAge,
		YLabel: "Frecuencia",
		KDE:    engine.DefaultKDEOptions(),
	}
	if err := charts.SaveDistribution(engine.MeasureValues(frame, ColAge), opts, agesPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputUnwritable, agesPath, err)
	}

	return []string{corrPath, agesPath}, nil
}

// ── Aggregate ─────────────────────────────────────────────────────────────

// AggregateCell is the mean BMI and mean charges of one
// (age bucket, sex, smoker) combination with at least one record.
type AggregateCell struct {
	Bucket      string
	Sex         string
	Smoker      string
	Count       int
	MeanBMI     float64
	MeanCharges float64
}

// Tables holds the aggregate tables plus what was left out of them.
// Counts backs the console report only; it is never written as LaTeX.
type Tables struct {
	Cells   []AggregateCell
	BMI     *engine.PivotTable
	Costs   *engine.PivotTable
	Counts  *engine.PivotTable
	Dropped int // records with an age outside every bucket
}

// Bucketed returns the rows of frame that fall in an age bucket, with the
// bucket label exposed as the ColBucket dimension.
func Bucketed(frame *engine.Frame) engine.RecordView {
	view := AgeBuckets().View(frame, ColAge, ColBucket)
	return engine.Where(view, engine.HasDimension(ColBucket))
}

// Cells groups bucketed rows by (bucket, sex, smoker) and averages BMI and
// charges. Cells come out in ascending bucket order.
func Cells(view engine.RecordView) []AggregateCell {
	groups := engine.GroupAndAggregate(view,
		[]string{ColBucket, ColSex, ColSmoker},
		[]string{ColBMI, ColCharges},
		engine.AggAvg)

	byBucket := make(map[string][]AggregateCell)
	for _, leaf := range engine.Leaves(groups) {
		byBucket[leaf.Key[0]] = append(byBucket[leaf.Key[0]], AggregateCell{
			Bucket:      leaf.Key[0],
			Sex:         leaf.Key[1],
			Smoker:      leaf.Key[2],
			Count:       leaf.Count,
			MeanBMI:     leaf.Values[ColBMI],
			MeanCharges: leaf.Values[ColCharges],
		})
	}

	var cells []AggregateCell
	for _, label := range AgeBuckets().Labels() {
		cells = append(cells, byBucket[label]...)
	}
	return cells
}

// Aggregate buckets ages and builds the BMI and charges mean tables, plus
// the number of records behind each cell.
func Aggregate(frame *engine.Frame) *Tables {
	view := Bucketed(frame)
	pivot := func(measure, aggregation, title string) *engine.PivotTable {
		return engine.BuildPivot(view, engine.PivotSpec{
			Title:            title,
			Measure:          measure,
			Aggregation:      aggregation,
			RowDimension:     ColBucket,
			RowOrder:         AgeBuckets().Labels(),
			ColumnDimensions: []string{ColSmoker, ColSex},
			Columns:          PivotColumns(),
		})
	}

	return &Tables{
		Cells:   Cells(view),
		BMI:     pivot(ColBMI, engine.AggAvg, BMICaption),
		Costs:   pivot(ColCharges, engine.AggAvg, CostsCaption),
		Counts:  pivot(ColAge, engine.AggCount, CountsCaption),
		Dropped: frame.Len() - view.Len(),
	}
}

// ── Serialize ─────────────────────────────────────────────────────────────

// Serialize writes both tables as LaTeX into dir.
func Serialize(t *Tables, dir string, opts ...latex.Option) ([]string, error) {
	outputs := []struct {
		table          *engine.PivotTable
		caption, label string
		file           string
	}{
		{t.BMI, BMICaption, BMILabel, BMITable},
		{t.Costs, CostsCaption, CostsLabel, CostsTable},
	}

	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.file)
		if err := latex.WriteFile(path, o.table, o.caption, o.label, opts...); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOutputUnwritable, path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
