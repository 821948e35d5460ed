package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cable-theft-etl/internal/config"
	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/couchcryptid/cable-theft-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ChartResult summarizes a successful charter run.
type ChartResult struct {
	Quarters domain.QuarterCounts
	Years    domain.YearCounts

	// Files lists the artifacts written, in the order they were produced.
	Files []string
}

// Charter aggregates the cleaned table and renders charts and reports from it.
type Charter struct {
	cfg      *config.Config
	reader   TableReader
	renderer ChartRenderer
	reports  ReportWriter
	stages
}

// NewCharter creates a Charter.
func NewCharter(cfg *config.Config, r TableReader, renderer ChartRenderer, reports ReportWriter, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Charter {
	return &Charter{
		cfg:      cfg,
		reader:   r,
		renderer: renderer,
		reports:  reports,
		stages:   stages{logger: logger, metrics: metrics, clock: clock},
	}
}

// Run reads the cleaned table, counts occurrences per quarter and year, and
// writes the charts, the workbook and the PDF summary. It stops at the first
// failing stage and returns a *StageError.
func (c *Charter) Run(ctx context.Context) (res ChartResult, err error) {
	start := c.clock.Now()
	c.logger.Info("charter started", "input", c.cfg.CleanedPath)
	defer func() { c.finish(err) }()

	var table domain.Table
	if err = c.run(ctx, StageImport, func() (e error) {
		table, e = c.reader.Read(c.cfg.CleanedPath)
		return e
	}); err != nil {
		return ChartResult{}, err
	}
	c.metrics.RowsRead.Add(float64(table.Len()))

	if err = c.run(ctx, StageAggregate, func() (e error) {
		if res.Quarters, e = domain.AggregateQuarters(table); e != nil {
			return e
		}
		res.Years, e = domain.AggregateYears(table)
		return e
	}); err != nil {
		return ChartResult{}, err
	}
	if res.Quarters.Skipped > 0 {
		c.logger.Warn("rows with quarter outside 1..4 skipped", "count", res.Quarters.Skipped)
		c.metrics.RowsDropped.WithLabelValues(observability.ReasonInvalidQuarter).Add(float64(res.Quarters.Skipped))
	}
	c.logger.Info("occurrences aggregated", "years", len(res.Quarters.Years), "total", res.Quarters.Total())

	quarterChart := c.cfg.QuarterChartPath()
	if err = c.run(ctx, StageChart, func() error {
		if e := c.renderer.RenderQuarterChart(res.Quarters, quarterChart); e != nil {
			return e
		}
		res.Files = append(res.Files, quarterChart)
		if e := c.renderer.RenderYearChart(res.Years, c.cfg.YearChartPath()); e != nil {
			return e
		}
		res.Files = append(res.Files, c.cfg.YearChartPath())
		return nil
	}); err != nil {
		return ChartResult{}, err
	}

	if err = c.run(ctx, StageReport, func() error {
		if e := c.reports.WriteCountsWorkbook(res.Quarters, c.cfg.WorkbookPath()); e != nil {
			return e
		}
		res.Files = append(res.Files, c.cfg.WorkbookPath())
		if e := c.reports.WritePDF(res.Quarters, quarterChart, c.cfg.ReportPath()); e != nil {
			return e
		}
		res.Files = append(res.Files, c.cfg.ReportPath())
		return nil
	}); err != nil {
		return ChartResult{}, err
	}
	c.metrics.FilesWritten.Add(float64(len(res.Files)))

	c.logger.Info("charter finished", "files", len(res.Files), "duration", c.clock.Since(start))
	return res, nil
}
