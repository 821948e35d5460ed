// Package chart renders occurrence counts as PNG bar charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Chart titles and axis labels.
const (
	QuarterTitle  = "Ocorrências de furto de cabos por Ano e Trimestre"
	YearTitle     = "Ocorrências de furto de cabos por Ano"
	QuarterXLabel = "Trimestre"
	YearXLabel    = "Ano"
	CountYLabel   = "Número de Ocorrências"
)

// ErrNothingToPlot is returned when the counts hold no years.
var ErrNothingToPlot = errors.New("no years to plot")

const (
	quarterWidth  = 15 * vg.Inch
	quarterHeight = 10 * vg.Inch
	yearWidth     = 10 * vg.Inch
	yearHeight    = 6 * vg.Inch

	// groupWidth is the horizontal space shared by the bars of one quarter.
	groupWidth   = 4 * vg.Centimeter
	maxBarWidth  = vg.Centimeter
	yearBarWidth = 1.5 * vg.Centimeter

	// headroom leaves space above the tallest bar for its value label.
	headroom = 1.1
)

var (
	gridDashes  = []vg.Length{vg.Points(4), vg.Points(3)}
	labelOffset = vg.Points(4)
	barGrey     = color.Gray{Y: 128}
)

// Renderer draws the quarter and year charts.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderQuarterChart draws grouped bars: one group per quarter, one bar per
// year, each year in its own colour with a legend entry and every bar
// annotated with its count.
func (r *Renderer) RenderQuarterChart(counts domain.QuarterCounts, path string) error {
	n := len(counts.Years)
	if n == 0 {
		return ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = QuarterTitle
	p.X.Label.Text = QuarterXLabel
	p.Y.Label.Text = CountYLabel
	p.X.Tick.Label.Rotation = 0
	p.Legend.Top = true
	p.Add(horizontalGrid())

	width := groupWidth / vg.Length(n)
	if width > maxBarWidth {
		width = maxBarWidth
	}

	var peak int
	for j, year := range counts.Years {
		values := make(plotter.Values, domain.QuartersPerYear)
		for q := 0; q < domain.QuartersPerYear; q++ {
			values[q] = float64(counts.Counts[q][j])
			peak = max(peak, counts.Counts[q][j])
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("bars for %d: %w", year, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(j)
		bars.Offset = vg.Length(float64(j)-float64(n-1)/2) * width

		labels, err := valueLabels(values, bars.Offset)
		if err != nil {
			return fmt.Errorf("labels for %d: %w", year, err)
		}

		p.Add(bars, labels)
		p.Legend.Add(strconv.Itoa(year), bars)
	}

	p.NominalX(domain.QuarterLabels()...)
	setYMax(p, peak)

	if err := save(p, quarterWidth, quarterHeight, path); err != nil {
		return err
	}
	r.logger.Info("chart written", "chart", "quarter", "path", path, "years", n)
	return nil
}

// RenderYearChart draws one grey bar per year with its count above it.
func (r *Renderer) RenderYearChart(counts domain.YearCounts, path string) error {
	n := len(counts.Years)
	if n == 0 {
		return ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = YearTitle
	p.X.Label.Text = YearXLabel
	p.Y.Label.Text = CountYLabel
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Add(horizontalGrid())

	values := make(plotter.Values, n)
	names := make([]string, n)
	var peak int
	for j, year := range counts.Years {
		values[j] = float64(counts.Counts[j])
		names[j] = strconv.Itoa(year)
		peak = max(peak, counts.Counts[j])
	}

	bars, err := plotter.NewBarChart(values, yearBarWidth)
	if err != nil {
		return fmt.Errorf("bars: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barGrey

	labels, err := valueLabels(values, 0)
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}

	p.Add(bars, labels)
	p.NominalX(names...)
	setYMax(p, peak)

	if err := save(p, yearWidth, yearHeight, path); err != nil {
		return err
	}
	r.logger.Info("chart written", "chart", "year", "path", path, "years", n)
	return nil
}

// valueLabels places each value as text centred above its bar. xOffset must
// match the bar chart's Offset.
func valueLabels(values plotter.Values, xOffset vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		texts[i] = strconv.Itoa(int(v))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: xOffset, Y: labelOffset}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	return labels, nil
}

func horizontalGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = gridDashes
	return grid
}

func setYMax(p *plot.Plot, peak int) {
	p.Y.Min = 0
	p.Y.Max = math.Max(1, float64(peak)*headroom)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
