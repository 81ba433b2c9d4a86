// Package render draws the diagnostic charts as PNG images.
//
// Every image is encoded into a temporary file next to its destination and
// renamed into place only after encoding succeeded, so a failed render never
// leaves a partial image behind.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
)

// Options sizes the rendered images.
type Options struct {
	Width         vg.Length
	Height        vg.Length
	HeatmapWidth  vg.Length
	HeatmapHeight vg.Length
	DPI           int
}

// DefaultOptions returns the sizes used when no configuration is given.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Chart)
}

// OptionsFromConfig converts the chart section of the configuration.
func OptionsFromConfig(cfg config.ChartConfig) Options {
	return Options{
		Width:         vg.Length(cfg.WidthInches) * vg.Inch,
		Height:        vg.Length(cfg.HeightInches) * vg.Inch,
		HeatmapWidth:  vg.Length(cfg.HeatmapWidthInches) * vg.Inch,
		HeatmapHeight: vg.Length(cfg.HeatmapHeightInches) * vg.Inch,
		DPI:           cfg.DPI,
	}
}

// Renderer draws charts with fixed image options.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{opts: opts, logger: logger}
}

// drawFunc paints one chart onto a canvas covering the whole image.
type drawFunc func(dc draw.Canvas)

// savePNG renders paint into a w x h image and writes it to path atomically.
func (r *Renderer) savePNG(path string, w, h vg.Length, paint drawFunc) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.opts.DPI))
	if err := safeDraw(path, paint, draw.New(c)); err != nil {
		return err
	}

	if err := writeAtomic(path, vgimg.PngCanvas{Canvas: c}); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write chart %s", path), err)
	}

	r.logger.Debug("Chart written",
		slog.String("path", path),
		slog.Float64("width_in", float64(w/vg.Inch)),
		slog.Float64("height_in", float64(h/vg.Inch)),
		slog.Int("dpi", r.opts.DPI))
	return nil
}

// safeDraw turns a panic inside the plotting library into a render error so
// that one broken chart does not take the run down.
func safeDraw(path string, paint drawFunc, dc draw.Canvas) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewRenderError(fmt.Sprintf("failed to draw %s", path), fmt.Errorf("%v", rec))
		}
	}()
	paint(dc)
	return nil
}

// writeAtomic writes src to a temporary file in path's directory and renames
// it over path. The temporary file is removed on any failure.
func writeAtomic(path string, src io.WriterTo) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = src.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
