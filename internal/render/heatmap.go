package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "planviz/internal/errors"
	"planviz/internal/heatmap"
	"planviz/internal/ticks"
)

// LegendLabel captions the colour scale of the production heatmap.
const LegendLabel = "production quantity"

const paletteSize = 256

// matrixGrid adapts a Matrix to plotter.GridXYZ. Grid row 0 is drawn at the
// bottom, so rows are flipped to keep the first product type on top.
type matrixGrid struct {
	m *heatmap.Matrix
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Rows) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Rows)-1-r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// ProductionHeatmap draws m with product types down the side and dates along
// the bottom. Only the dates at plan.Positions are labelled.
func (r *Renderer) ProductionHeatmap(m *heatmap.Matrix, plan ticks.TickPlan, path string) error {
	if m == nil || m.Empty() {
		return apperrors.ErrEmptyMatrix
	}
	peak := m.Max()
	if peak <= 0 || math.IsInf(peak, 0) {
		return apperrors.NewRenderError("production matrix has no positive finite quantity", nil)
	}

	cm := moreland.Kindlmann()
	cm.SetMax(peak)
	cm.SetMin(0)

	hm := plotter.NewHeatMap(matrixGrid{m: m}, cm.Palette(paletteSize))
	hm.Min = 0
	hm.Max = peak

	p := plot.New()
	p.Title.Text = "Production plan"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Product type"
	p.Add(hm)

	p.X.Tick.Marker = plot.ConstantTicks(dateTicks(m.Columns, plan))
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Tick.Marker = plot.ConstantTicks(rowTicks(m.Rows))

	legend := plot.New()
	legend.HideX()
	legend.Y.Label.Text = LegendLabel
	legend.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	w, h := r.opts.HeatmapWidth, r.opts.HeatmapHeight
	return r.savePNG(path, w, h, func(dc draw.Canvas) {
		barW := legendWidth(w)
		p.Draw(draw.Crop(dc, 0, -barW, 0, 0))
		legend.Draw(draw.Crop(dc, w-barW, 0, 0, 0))
	})
}

// legendWidth is the horizontal space given to the colour bar.
func legendWidth(w vg.Length) vg.Length {
	barW := w / 8
	if barW < vg.Inch {
		barW = vg.Inch
	}
	if barW > w/2 {
		barW = w / 2
	}
	return barW
}

func dateTicks(columns []string, plan ticks.TickPlan) []plot.Tick {
	out := make([]plot.Tick, 0, len(plan.Positions))
	for _, pos := range plan.Positions {
		if pos < len(columns) {
			out = append(out, plot.Tick{Value: float64(pos), Label: columns[pos]})
		}
	}
	return out
}

func rowTicks(rows []string) []plot.Tick {
	out := make([]plot.Tick, len(rows))
	for i, label := range rows {
		out[i] = plot.Tick{Value: float64(len(rows) - 1 - i), Label: label}
	}
	return out
}
