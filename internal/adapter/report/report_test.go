package report

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/cable-theft-etl/internal/adapter/chart"
	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCounts() domain.QuarterCounts {
	return domain.QuarterCounts{
		Years: []int{2020, 2021},
		Counts: [][]int{
			{3, 5},
			{0, 2},
			{1, 0},
			{4, 4},
		},
	}
}

func TestWriteCountsWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorios", "contagem.xlsx")
	require.NoError(t, NewWriter(testLogger()).WriteCountsWorkbook(sampleCounts(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{CountsSheet}, f.GetSheetList())

	rows, err := f.GetRows(CountsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Trimestre", "2020", "2021"},
		{"1º Trimestre", "3", "5"},
		{"2º Trimestre", "0", "2"},
		{"3º Trimestre", "1", "0"},
		{"4º Trimestre", "4", "4"},
		{"Total", "8", "11"},
	}, rows)
}

func TestCountsGrid_RowIndexes(t *testing.T) {
	grid := countsGrid(sampleCounts())

	require.Len(t, grid, domain.QuartersPerYear+2)
	for i, row := range grid {
		assert.Equal(t, i+1, row.index)
		assert.Len(t, row.cells, 3)
	}
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "quarters.png")
	renderer := chart.NewRenderer(testLogger())
	require.NoError(t, renderer.RenderQuarterChart(sampleCounts(), chartPath))

	path := filepath.Join(dir, "relatorios", "relatorio.pdf")
	require.NoError(t, NewWriter(testLogger()).WritePDF(sampleCounts(), chartPath, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "expected PDF header")
}

func TestWritePDF_MissingChart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relatorio.pdf")

	err := NewWriter(testLogger()).WritePDF(sampleCounts(), filepath.Join(dir, "missing.png"), path)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path)
}
