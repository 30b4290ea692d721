// Package charts renders the dataset's figures to image files with
// gonum/plot: a correlation heatmap and an age distribution plot.
package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/seguros/engine"
)

// ============================================================================
// HEATMAP — Annotated correlation matrix with a colour bar
// ============================================================================
// Cells are shaded on a continuous YlGnBu scale (light = low) spanning the
// smallest to the largest finite coefficient, separated by thin white
// borders. NaN cells stay white and unlabelled.
// ============================================================================

// Heatmap figure size.
var (
	HeatmapWidth  = 6.4 * vg.Inch
	HeatmapHeight = 4.8 * vg.Inch
)

const (
	heatmapScheme  = "YlGnBu"
	heatmapClasses = 9
	heatmapShades  = 256

	colorBarWidth = 0.9 * vg.Inch
	borderWidth   = 0.2 // points
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
// Row 0 is drawn at the top, like a printed matrix.
type corrGrid struct {
	m engine.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(len(g.m.Columns) - 1 - r) }

// Heatmap is the annotated cell grid plus its colour bar.
type Heatmap struct {
	Grid *plot.Plot
	Bar  *plot.Plot

	// Colour scale range.
	Min, Max float64
}

// NewHeatmap builds an annotated heatmap of a correlation matrix.
func NewHeatmap(m engine.CorrelationMatrix) (*Heatmap, error) {
	n := len(m.Columns)
	if n == 0 {
		return nil, fmt.Errorf("correlation matrix is empty")
	}

	cmap, err := ylGnBu()
	if err != nil {
		return nil, err
	}
	pal, err := shades(cmap, heatmapShades)
	if err != nil {
		return nil, err
	}

	grid := corrGrid{m: m}
	hm := plotter.NewHeatMap(grid, pal)
	hm.NaN = color.White
	switch {
	case math.IsInf(hm.Min, 0) || math.IsInf(hm.Max, 0):
		// every cell NaN
		hm.Min, hm.Max = -1, 1
	case hm.Min == hm.Max:
		hm.Min, hm.Max = hm.Min-1, hm.Max+1
	}

	p := plot.New()
	p.Add(hm)

	borders, err := cellBorders(n)
	if err != nil {
		return nil, err
	}
	p.Add(borders...)

	labels, err := annotations(grid, hm)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	xticks := make(plot.ConstantTicks, n)
	yticks := make(plot.ConstantTicks, n)
	for i, name := range m.Columns {
		xticks[i] = plot.Tick{Value: grid.X(i), Label: name}
		yticks[i] = plot.Tick{Value: grid.Y(i), Label: name}
	}
	p.X.Tick.Marker = xticks
	p.Y.Tick.Marker = yticks
	p.X.Padding = 0
	p.Y.Padding = 0

	barMap, err := ylGnBu()
	if err != nil {
		return nil, err
	}
	barMap.SetMin(hm.Min)
	barMap.SetMax(hm.Max)

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: palette.Reverse(barMap), Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0

	return &Heatmap{Grid: p, Bar: bar, Min: hm.Min, Max: hm.Max}, nil
}

// Draw lays the grid out on the left of c and the colour bar on the right.
func (h *Heatmap) Draw(c draw.Canvas) {
	width := c.Max.X - c.Min.X
	h.Bar.Draw(draw.Crop(c, width-colorBarWidth, 0, 0, 0))
	h.Grid.Draw(draw.Crop(c, 0, -colorBarWidth-vg.Millimeter, 0, 0))
}

// SaveHeatmap renders the heatmap of m to path (format from the extension).
func SaveHeatmap(m engine.CorrelationMatrix, path string) (err error) {
	h, err := NewHeatmap(m)
	if err != nil {
		return err
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, err := draw.NewFormattedCanvas(HeatmapWidth, HeatmapHeight, format)
	if err != nil {
		return fmt.Errorf("failed to create %s canvas: %w", format, err)
	}
	h.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = c.WriteTo(f)
	return err
}

// ylGnBu returns a continuous colour map through the YlGnBu control colours.
// Luminance rises with the value, so low values map to dark blue; callers
// reverse it or sample it from the top.
func ylGnBu() (palette.ColorMap, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, heatmapScheme, heatmapClasses)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s palette: %w", heatmapScheme, err)
	}
	light := pal.Colors()
	dark := make([]color.Color, len(light))
	for i, c := range light {
		dark[len(light)-1-i] = c
	}
	cmap, err := moreland.NewLuminance(dark)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s colour map: %w", heatmapScheme, err)
	}
	return cmap, nil
}

// shadeList is a fixed list of colours.
type shadeList []color.Color

func (s shadeList) Colors() []color.Color { return s }

// shades samples n colours of cmap from light to dark.
func shades(cmap palette.ColorMap, n int) (palette.Palette, error) {
	cmap.SetMin(0)
	cmap.SetMax(1)
	out := make(shadeList, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		c, err := cmap.At(1 - t)
		if err != nil {
			return nil, fmt.Errorf("failed to sample colour map: %w", err)
		}
		out[i] = c
	}
	return out, nil
}

// cellBorders returns thin white lines between the n×n cells.
func cellBorders(n int) ([]plot.Plotter, error) {
	lo, hi := -0.5, float64(n)-0.5
	out := make([]plot.Plotter, 0, 2*(n+1))
	for k := 0; k <= n; k++ {
		at := float64(k) - 0.5
		for _, xys := range []plotter.XYs{
			{{X: at, Y: lo}, {X: at, Y: hi}},
			{{X: lo, Y: at}, {X: hi, Y: at}},
		} {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell border: %w", err)
			}
			l.LineStyle.Color = color.White
			l.LineStyle.Width = vg.Points(borderWidth)
			out = append(out, l)
		}
	}
	return out, nil
}

// annotations writes each cell value with two decimals, in white over the
// darker half of the colour range.
func annotations(g corrGrid, hm *plotter.HeatMap) (*plotter.Labels, error) {
	cols, rows := g.Dims()
	xys := make(plotter.XYs, 0, cols*rows)
	texts := make([]string, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			v := g.Z(c, r)
			if math.IsNaN(v) {
				texts = append(texts, "")
				continue
			}
			texts = append(texts, fmt.Sprintf("%.2f", v))
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to build heatmap annotations: %w", err)
	}

	mid := hm.Min + (hm.Max-hm.Min)/2
	i := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			style := &labels.TextStyle[i]
			style.XAlign = draw.XCenter
			style.YAlign = draw.YCenter
			style.Color = color.Black
			if v := g.Z(c, r); !math.IsNaN(v) && v > mid {
				style.Color = color.White
			}
			i++
		}
	}
	return labels, nil
}
