// Package analysis runs the insurance dataset pipeline end to end: load and
// translate the CSV, print descriptive reports, render the figures and write
// the age × sex × smoker mean tables as LaTeX.
package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spektr-org/seguros/engine"
	"github.com/spektr-org/seguros/report"
	"github.com/spektr-org/seguros/schema"
)

// Summary describes a completed run.
type Summary struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Dropped int      `json:"dropped"` // rows outside every age bucket
	Cells   int      `json:"cells"`   // non-empty (bucket, sex, smoker) combinations
	Outputs []string `json:"outputs"` // files written, in write order
}

// Run executes the whole pipeline.
//
// Steps:
//  1. Load the CSV and translate headers and categorical values
//  2. Print shape, head and describe
//  3. Write the correlation heatmap and the age distribution
//  4. Bucket ages and average BMI and charges per (bucket, sex, smoker)
//  5. Print the mean and count tables; write the means as LaTeX
//
// Any failure stops the run; outputs already written stay on disk.
func Run(opts ...Option) (*Summary, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	input := cfg.Input

	// ── 1. Load ──
	frame, err := Load(input, cfg.Schema, cfg.Policy)
	if err != nil {
		log.Error("load failed", zap.String("input", input), zap.Error(err))
		return nil, err
	}
	rows, cols := frame.Shape()
	log.Info("dataset loaded",
		zap.String("input", input),
		zap.Int("rows", rows),
		zap.Int("columns", cols))
	for column, values := range schema.Unmapped(frame, cfg.Schema) {
		log.Warn("categorical values left untranslated",
			zap.String("column", column),
			zap.Strings("values", values))
	}

	// ── 2. Report ──
	rep := report.New(cfg.Stdout)
	if err := Describe(rep, frame); err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}

	// ── 3. Plot ──
	figures, err := Plot(frame, cfg.OutputDir)
	if err != nil {
		log.Error("plot failed", zap.Error(err))
		return nil, err
	}
	log.Info("figures written", zap.Strings("paths", figures))

	// ── 4. Aggregate ──
	tables := Aggregate(frame)
	if tables.Dropped > 0 {
		log.Warn("rows outside age buckets excluded from tables",
			zap.Int("dropped", tables.Dropped),
			zap.Int("low", BucketLow),
			zap.Int("high", BucketHigh))
	}
	log.Debug("aggregated",
		zap.Int("cells", len(tables.Cells)),
		zap.Int("rows", len(tables.BMI.Rows)))

	// ── 5. Serialize ──
	for _, p := range []*engine.PivotTable{tables.BMI, tables.Costs, tables.Counts} {
		if err := rep.Pivot(p); err != nil {
			return nil, fmt.Errorf("failed to print report: %w", err)
		}
	}
	texts, err := Serialize(tables, cfg.OutputDir)
	if err != nil {
		log.Error("serialize failed", zap.Error(err))
		return nil, err
	}
	log.Info("tables written", zap.Strings("paths", texts))

	return &Summary{
		Rows:    rows,
		Columns: cols,
		Dropped: tables.Dropped,
		Cells:   len(tables.Cells),
		Outputs: append(figures, texts...),
	}, nil
}
