package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "planviz/internal/errors"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Record
	}{
		{
			name:    "actual days header",
			content: "Generation,BestFitness,ActualDays\n0,120.5,30\n1,118,29.5\n",
			want:    []Record{{0, 120.5, 30}, {1, 118, 29.5}},
		},
		{
			name:    "optimizer total days header",
			content: "Generation,BestFitness,TotalDays\n1,99,12\n",
			want:    []Record{{1, 99, 12}},
		},
		{
			name:    "byte order mark and reordered columns",
			content: "\ufeffActualDays,Generation,Extra,BestFitness\n7,3,x,1.25\n",
			want:    []Record{{3, 1.25, 7}},
		},
		{
			name:    "spaces and blank lines",
			content: "Generation, BestFitness, ActualDays\n 0 , 5 , 6 \n,,\n1,4,6\n",
			want:    []Record{{0, 5, 6}, {1, 4, 6}},
		},
		{
			name:    "header only",
			content: "Generation,BestFitness,ActualDays\n",
			want:    []Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeLog(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPrefersActualDays(t *testing.T) {
	got, err := Load(writeLog(t, "Generation,BestFitness,TotalDays,ActualDays\n0,1,10,20\n"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, got[0].ActualDays)
}

func TestLoadKeepsEveryGeneration(t *testing.T) {
	var b strings.Builder
	b.WriteString("Generation,BestFitness,ActualDays\n")
	for g := 0; g < 100; g++ {
		fmt.Fprintf(&b, "%d,%g,%d\n", g, 1000-float64(g)*0.5, 40-g/10)
	}

	got, err := Load(writeLog(t, b.String()))
	require.NoError(t, err)
	require.Len(t, got, 100)
	for g, rec := range got {
		assert.Equal(t, g, rec.Generation)
		assert.Equal(t, 1000-float64(g)*0.5, rec.BestFitness)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantColumn string
		wantRow    string
		wantValue  string
	}{
		{name: "missing generation", content: "Gen,BestFitness,ActualDays\n0,1,2\n", wantColumn: "Generation"},
		{name: "missing fitness", content: "Generation,Fitness,ActualDays\n0,1,2\n", wantColumn: "BestFitness"},
		{name: "missing days", content: "Generation,BestFitness,Days\n0,1,2\n", wantColumn: "ActualDays"},
		{name: "fractional generation", content: "Generation,BestFitness,ActualDays\n0,1,2\n1.5,1,2\n", wantColumn: "Generation", wantRow: "3", wantValue: "1.5"},
		{name: "bad fitness", content: "Generation,BestFitness,ActualDays\n0,n/a,2\n", wantColumn: "BestFitness", wantRow: "2", wantValue: "n/a"},
		{name: "bad total days", content: "Generation,BestFitness,TotalDays\n0,1,?\n", wantColumn: "TotalDays", wantRow: "2", wantValue: "?"},
		{name: "short row", content: "Generation,BestFitness,ActualDays\n0,1\n", wantColumn: "ActualDays", wantRow: "2"},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLog(t, tt.content)
			_, err := Load(path)

			var formatErr *apperrors.DataFormatError
			require.True(t, errors.As(err, &formatErr), "got %v", err)
			assert.Equal(t, path, formatErr.Path)
			assert.Equal(t, tt.wantColumn, formatErr.Column)
			assert.Equal(t, tt.wantRow, formatErr.Row)
			assert.Equal(t, tt.wantValue, formatErr.Value)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "progress_log.csv"))

	var missing *apperrors.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "iteration log", missing.Kind)
}
