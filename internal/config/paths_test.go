package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPaths tests the GetPaths function
func TestGetPaths(t *testing.T) {
	t.Run("absolute results dir", func(t *testing.T) {
		dir := t.TempDir()
		cfg := Default().Paths
		cfg.ResultsDir = dir

		paths, err := GetPaths(cfg)
		require.NoError(t, err)

		assert.Equal(t, dir, paths.ResultsDir)
		assert.Equal(t, filepath.Join(dir, "production_plan.csv"), paths.PlanCSV)
		assert.Equal(t, filepath.Join(dir, "progress_log.csv"), paths.ProgressCSV)
		assert.Equal(t, filepath.Join(dir, "1_fitness_convergence.png"), paths.FitnessChart)
		assert.Equal(t, filepath.Join(dir, "2_days_convergence.png"), paths.DaysChart)
		assert.Equal(t, filepath.Join(dir, "3_production_heatmap.png"), paths.HeatmapChart)
		assert.Equal(t, filepath.Join(dir, "3_production_matrix.csv"), paths.MatrixCSV)
		assert.Equal(t, filepath.Join(dir, "3_production_matrix.xlsx"), paths.MatrixXLSX)
	})

	t.Run("relative results dir resolved against working dir", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		paths, err := GetPaths(Default().Paths)
		require.NoError(t, err)

		assert.True(t, filepath.IsAbs(paths.ResultsDir))
		assert.Equal(t, filepath.Join(wd, "results"), paths.ResultsDir)
	})

	t.Run("absolute file names kept", func(t *testing.T) {
		other := t.TempDir()
		cfg := Default().Paths
		cfg.ResultsDir = t.TempDir()
		cfg.PlanFile = filepath.Join(other, "plan.csv")

		paths, err := GetPaths(cfg)
		require.NoError(t, err)

		assert.Equal(t, cfg.PlanFile, paths.PlanCSV)
		assert.Equal(t, filepath.Join(cfg.ResultsDir, "progress_log.csv"), paths.ProgressCSV)
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
}
