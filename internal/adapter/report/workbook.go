// Package report exports quarter counts as an xlsx workbook and a PDF summary.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// CountsSheet is the workbook sheet holding the quarter × year matrix.
const CountsSheet = "Trimestre x Ano"

const (
	quarterHeader = "Trimestre"
	totalLabel    = "Total"
)

// Writer produces the report artifacts.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteCountsWorkbook stores counts at path as a single-sheet workbook: a
// header row of years, one row per quarter and a final total row.
func (w *Writer) WriteCountsWorkbook(counts domain.QuarterCounts, path string) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory file

	if err := f.SetSheetName("Sheet1", CountsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for _, row := range countsGrid(counts) {
		for col, value := range row.cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row.index)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(CountsSheet, cell, value); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(counts.Years) + 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(CountsSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	totalRow := domain.QuartersPerYear + 2
	if err := f.SetCellStyle(CountsSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastCol, totalRow), bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}
	if err := f.SetColWidth(CountsSheet, "A", "A", 16); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	w.logger.Info("workbook written", "path", path, "years", len(counts.Years))
	return nil
}

type gridRow struct {
	index int // 1-based sheet row
	cells []any
}

// countsGrid lays counts out as header, quarter rows and totals. The PDF
// table uses the same layout.
func countsGrid(counts domain.QuarterCounts) []gridRow {
	rows := make([]gridRow, 0, domain.QuartersPerYear+2)

	header := []any{quarterHeader}
	for _, y := range counts.Years {
		header = append(header, y)
	}
	rows = append(rows, gridRow{index: 1, cells: header})

	for q := 1; q <= domain.QuartersPerYear; q++ {
		cells := []any{domain.QuarterLabel(q)}
		for j := range counts.Years {
			cells = append(cells, counts.Counts[q-1][j])
		}
		rows = append(rows, gridRow{index: q + 1, cells: cells})
	}

	totals := []any{totalLabel}
	for _, n := range counts.YearTotals() {
		totals = append(totals, n)
	}
	rows = append(rows, gridRow{index: domain.QuartersPerYear + 2, cells: totals})

	return rows
}
