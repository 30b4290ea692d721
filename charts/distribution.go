package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/seguros/engine"
)

// ============================================================================
// DISTRIBUTION — Density histogram with a kernel density curve
// ============================================================================

// Distribution figure size.
var (
	DistributionWidth  = 10 * vg.Inch
	DistributionHeight = 5 * vg.Inch
)

var (
	histFill  = color.RGBA{R: 173, G: 216, B: 230, A: 255} // light blue
	curveLine = color.RGBA{B: 255, A: 255}
	curveFill = color.NRGBA{B: 255, A: 64}
)

// DistributionOptions labels the figure.
type DistributionOptions struct {
	XLabel string
	YLabel string
	KDE    engine.KDEOptions
}

// NewDistribution builds a density-normalized histogram of values overlaid
// with a shaded kernel density curve. NaN and infinite values are ignored.
func NewDistribution(values []float64, opts DistributionOptions) (*plot.Plot, error) {
	clean := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("no finite values to plot")
	}

	hist, err := plotter.NewHist(clean, engine.AutoBins(clean))
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.Normalize(1)
	hist.FillColor = histFill
	hist.LineStyle.Width = vg.Points(0.5)

	p := plot.New()
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(hist)

	if curve := engine.KDE(clean, opts.KDE); len(curve) > 0 {
		xys := make(plotter.XYs, len(curve))
		for i, pt := range curve {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build density curve: %w", err)
		}
		line.Color = curveLine
		line.Width = vg.Points(2)
		line.FillColor = curveFill
		p.Add(line)
	}

	return p, nil
}

// SaveDistribution renders the distribution of values to path.
func SaveDistribution(values []float64, opts DistributionOptions, path string) error {
	p, err := NewDistribution(values, opts)
	if err != nil {
		return err
	}
	return p.Save(DistributionWidth, DistributionHeight, path)
}
