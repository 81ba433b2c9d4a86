package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "planviz/internal/errors"
	"planviz/internal/progress"
)

// FitnessConvergence draws best fitness against generation as a connected
// line with one marker per record.
func (r *Renderer) FitnessConvergence(records []progress.Record, path string) error {
	pts, err := seriesOf(records, func(rec progress.Record) float64 { return rec.BestFitness })
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Best fitness by generation"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Best fitness"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return apperrors.NewRenderError("failed to build fitness line", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	points.GlyphStyle.Radius = vg.Points(2)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return r.savePNG(path, r.opts.Width, r.opts.Height, p.Draw)
}

// DaysConvergence draws the schedule length of each generation's best
// candidate as a scatter.
func (r *Renderer) DaysConvergence(records []progress.Record, path string) error {
	pts, err := seriesOf(records, func(rec progress.Record) float64 { return rec.ActualDays })
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Schedule length by generation"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Actual days"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return apperrors.NewRenderError("failed to build days scatter", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	return r.savePNG(path, r.opts.Width, r.opts.Height, p.Draw)
}

// seriesOf maps every record to one point, in record order.
func seriesOf(records []progress.Record, y func(progress.Record) float64) (plotter.XYs, error) {
	if len(records) == 0 {
		return nil, &apperrors.DataFormatError{Message: "iteration log has no generations to plot"}
	}
	pts := make(plotter.XYs, len(records))
	for i, rec := range records {
		pts[i].X = float64(rec.Generation)
		pts[i].Y = y(rec)
	}
	return pts, nil
}
