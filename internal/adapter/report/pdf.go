package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// ReportTitle heads the PDF summary.
const ReportTitle = "Furto de cabos em Belo Horizonte: ocorrências por trimestre"

const (
	pageWidth   = 297.0 // A4 landscape, mm
	pageMargin  = 10.0
	chartHeight = 110.0
	cellHeight  = 7.0
	firstColW   = 40.0
)

var (
	headerFill = [3]int{52, 73, 94}
	headerText = [3]int{255, 255, 255}
	bodyText   = [3]int{33, 33, 33}
	totalFill  = [3]int{230, 230, 230}
)

// WritePDF renders a one-page A4 landscape summary at path: title, the quarter
// chart image at chartPath and the counts table.
func (w *Writer) WritePDF(counts domain.QuarterCounts, chartPath, path string) error {
	if _, err := os.Stat(chartPath); err != nil {
		return fmt.Errorf("chart image: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
	pdf.CellFormat(0, 10, tr(ReportTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total de ocorrências: %d", counts.Total())), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// The quarter chart is saved at 3:2.
	chartW := chartHeight * 1.5
	pdf.Image(chartPath, (pageWidth-chartW)/2, pdf.GetY(), chartW, chartHeight, true, "", 0, "")
	pdf.Ln(4)

	grid := countsGrid(counts)
	cols := len(counts.Years) + 1
	yearColW := (pageWidth - 2*pageMargin - firstColW) / float64(cols-1)
	if yearColW > 30 {
		yearColW = 30
	}
	tableW := firstColW + yearColW*float64(cols-1)
	left := (pageWidth - tableW) / 2

	for i, row := range grid {
		pdf.SetX(left)
		switch {
		case i == 0:
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
			pdf.SetTextColor(headerText[0], headerText[1], headerText[2])
		case i == len(grid)-1:
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(totalFill[0], totalFill[1], totalFill[2])
			pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
		default:
			pdf.SetFont("Arial", "", 10)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
		}

		for c, value := range row.cells {
			width, align := yearColW, "C"
			if c == 0 {
				width, align = firstColW, "L"
			}
			ln := 0
			if c == len(row.cells)-1 {
				ln = 1
			}
			pdf.CellFormat(width, cellHeight, tr(fmt.Sprint(value)), "1", ln, align, true, 0, "")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	w.logger.Info("pdf report written", "path", path)
	return nil
}
