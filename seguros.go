// Package seguros analyses a medical insurance charges dataset.
//
// Usage:
//
//	import "github.com/spektr-org/seguros/analysis"
//
//	summary, err := analysis.Run(
//	    analysis.WithInput("insurance.csv"),
//	    analysis.WithOutputDir("out"),
//	)
//
// The pipeline translates headers and categorical values to Spanish,
// prints descriptive statistics, renders a correlation heatmap and an age
// distribution, and writes mean BMI and mean charges per age group, sex and
// smoker status as LaTeX tables.
//
// Packages:
//
//	engine   frames, record views, grouping, pivots, statistics
//	schema   embedded column schema and translation tables
//	helpers  CSV loading
//	report   console output
//	charts   PNG figures
//	latex    table serialization
//	analysis the end-to-end pipeline
//
// Everything runs locally on the input file; nothing is fetched.
package seguros
