package render

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
	"planviz/internal/heatmap"
	"planviz/internal/progress"
	"planviz/internal/ticks"
)

func testRenderer() *Renderer {
	return NewRenderer(Options{
		Width:         3 * vg.Inch,
		Height:        2 * vg.Inch,
		HeatmapWidth:  4 * vg.Inch,
		HeatmapHeight: 3 * vg.Inch,
		DPI:           50,
	}, nil)
}

func testRecords() []progress.Record {
	records := make([]progress.Record, 100)
	for g := range records {
		records[g] = progress.Record{Generation: g, BestFitness: 500 - float64(g), ActualDays: float64(40 - g/10)}
	}
	return records
}

func testMatrix() *heatmap.Matrix {
	return &heatmap.Matrix{
		Rows:    []string{"A", "B"},
		Columns: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Values:  [][]float64{{1, 0, 3}, {0, 2, 0}},
	}
}

func assertPNG(t *testing.T, path string, wantW, wantH int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, wantW, img.Bounds().Dx())
	assert.Equal(t, wantH, img.Bounds().Dy())
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover %s", e.Name())
	}
}

func TestFitnessConvergence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1_fitness_convergence.png")

	require.NoError(t, testRenderer().FitnessConvergence(testRecords(), path))

	assertPNG(t, path, 150, 100)
	assertNoTempFiles(t, dir)
}

func TestDaysConvergence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2_days_convergence.png")

	require.NoError(t, testRenderer().DaysConvergence(testRecords(), path))

	assertPNG(t, path, 150, 100)
	assertNoTempFiles(t, dir)
}

func TestConvergenceSingleRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	records := []progress.Record{{Generation: 1, BestFitness: 10, ActualDays: 5}}

	assert.NoError(t, testRenderer().FitnessConvergence(records, path))
	assert.NoError(t, testRenderer().DaysConvergence(records, path))
}

func TestConvergenceWithoutRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")

	err := testRenderer().FitnessConvergence(nil, path)
	var formatErr *apperrors.DataFormatError
	require.True(t, errors.As(err, &formatErr))

	err = testRenderer().DaysConvergence(nil, path)
	require.True(t, errors.As(err, &formatErr))

	assert.NoFileExists(t, path)
}

func TestProductionHeatmap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "3_production_heatmap.png")
	m := testMatrix()

	require.NoError(t, testRenderer().ProductionHeatmap(m, ticks.Plan(len(m.Columns)), path))

	assertPNG(t, path, 200, 150)
	assertNoTempFiles(t, dir)
}

func TestProductionHeatmapSingleCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")
	m := &heatmap.Matrix{Rows: []string{"A"}, Columns: []string{"2024-01-02"}, Values: [][]float64{{3}}}

	require.NoError(t, testRenderer().ProductionHeatmap(m, ticks.Plan(1), path))
	assert.FileExists(t, path)
}

func TestProductionHeatmapLongHorizon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")
	m := &heatmap.Matrix{Rows: []string{"A", "B"}}
	m.Values = make([][]float64, 2)
	for c := 0; c < 200; c++ {
		m.Columns = append(m.Columns, "d")
		m.Values[0] = append(m.Values[0], float64(c%7))
		m.Values[1] = append(m.Values[1], float64(c%3+1))
	}

	require.NoError(t, testRenderer().ProductionHeatmap(m, ticks.Plan(200), path))
	assert.FileExists(t, path)
}

func TestProductionHeatmapEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")

	err := testRenderer().ProductionHeatmap(&heatmap.Matrix{}, ticks.Plan(0), path)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyMatrix))

	err = testRenderer().ProductionHeatmap(nil, ticks.Plan(0), path)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyMatrix))

	assert.NoFileExists(t, path)
}

func TestFailedWriteLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the final rename fail.
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.Mkdir(path, 0755))

	err := testRenderer().FitnessConvergence(testRecords(), path)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.Classify(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chart.png", entries[0].Name())
}

func TestWriteIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "chart.png")

	err := testRenderer().DaysConvergence(testRecords(), path)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteAtomicReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, testRenderer().DaysConvergence(testRecords(), path))

	assertPNG(t, path, 150, 100)
	assertNoTempFiles(t, dir)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.ChartConfig{
		WidthInches:         12,
		HeightInches:        7,
		HeatmapWidthInches:  20,
		HeatmapHeightInches: 12,
		DPI:                 300,
	})

	assert.Equal(t, 12*vg.Inch, opts.Width)
	assert.Equal(t, 7*vg.Inch, opts.Height)
	assert.Equal(t, 20*vg.Inch, opts.HeatmapWidth)
	assert.Equal(t, 12*vg.Inch, opts.HeatmapHeight)
	assert.Equal(t, 300, opts.DPI)
	assert.Equal(t, opts, DefaultOptions())
}

func TestTickHelpers(t *testing.T) {
	m := testMatrix()

	dates := dateTicks(m.Columns, ticks.PlanWithTarget(3, 2))
	require.Len(t, dates, 3)
	assert.Equal(t, "2024-01-01", dates[0].Label)
	assert.Equal(t, 2.0, dates[2].Value)

	rows := rowTicks(m.Rows)
	assert.Equal(t, "A", rows[0].Label)
	assert.Equal(t, 1.0, rows[0].Value)
	assert.Equal(t, 0.0, rows[1].Value)

	g := matrixGrid{m: m}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 3.0, g.Z(2, 1))
	assert.Equal(t, 2.0, g.Z(1, 0))
}

func TestLegendWidth(t *testing.T) {
	assert.Equal(t, 2.5*vg.Inch, legendWidth(20*vg.Inch))
	assert.Equal(t, vg.Inch, legendWidth(4*vg.Inch))
	assert.Equal(t, vg.Inch, legendWidth(2*vg.Inch))
}
