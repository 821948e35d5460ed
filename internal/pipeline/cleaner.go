package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cable-theft-etl/internal/config"
	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/couchcryptid/cable-theft-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CleanResult summarizes a successful cleaner run.
type CleanResult struct {
	Stats domain.CleanStats

	// EmptyGeometry counts rows dropped during geometry conversion.
	EmptyGeometry int

	// Rows is the number of rows in the exported table.
	Rows int

	// Partitions lists the per-year files written, ordered by year.
	Partitions []string
}

// Cleaner turns the raw occurrence export into the cleaned table and its
// per-year partitions.
type Cleaner struct {
	cfg    *config.Config
	reader TableReader
	writer TableWriter
	stages
}

// NewCleaner creates a Cleaner.
func NewCleaner(cfg *config.Config, r TableReader, w TableWriter, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Cleaner {
	return &Cleaner{
		cfg:    cfg,
		reader: r,
		writer: w,
		stages: stages{logger: logger, metrics: metrics, clock: clock},
	}
}

// Run imports, cleans and converts the table, splits it by year and writes
// the cleaned table with its partitions in one commit. It stops at the first
// failing stage and returns a *StageError; a failed run leaves the outputs of
// the previous run untouched.
func (c *Cleaner) Run(ctx context.Context) (res CleanResult, err error) {
	start := c.clock.Now()
	c.logger.Info("cleaner started", "input", c.cfg.InputPath, "coordinate_check", c.cfg.CoordinateCheck)
	defer func() { c.finish(err) }()

	var raw domain.Table
	if err = c.run(ctx, StageImport, func() (e error) {
		raw, e = c.reader.Read(c.cfg.InputPath)
		return e
	}); err != nil {
		return CleanResult{}, err
	}
	c.metrics.RowsRead.Add(float64(raw.Len()))

	var cleaned domain.Table
	if err = c.run(ctx, StageClean, func() (e error) {
		cleaned, res.Stats, e = domain.Clean(raw, c.cfg.CleanOptions())
		return e
	}); err != nil {
		return CleanResult{}, err
	}
	c.metrics.RowsDropped.WithLabelValues(observability.ReasonMalformedCoordinates).Add(float64(res.Stats.MalformedCoordinates))
	c.metrics.RowsDropped.WithLabelValues(observability.ReasonOutsideBoundingBox).Add(float64(res.Stats.OutsideBox))
	c.logger.Info("coordinates cleaned",
		"rows_in", res.Stats.Input,
		"malformed", res.Stats.MalformedCoordinates,
		"outside_box", res.Stats.OutsideBox,
		"rows_out", res.Stats.Output,
	)

	var converted domain.Table
	if err = c.run(ctx, StageGeometry, func() (e error) {
		converted, e = domain.ConvertGeometry(cleaned)
		return e
	}); err != nil {
		return CleanResult{}, err
	}
	res.EmptyGeometry = cleaned.Len() - converted.Len()
	res.Rows = converted.Len()
	c.metrics.RowsDropped.WithLabelValues(observability.ReasonEmptyGeometry).Add(float64(res.EmptyGeometry))

	var parts []domain.Partition
	if err = c.run(ctx, StagePartition, func() (e error) {
		parts, e = domain.PartitionByYear(converted)
		return e
	}); err != nil {
		return CleanResult{}, err
	}

	if err = c.run(ctx, StageExport, func() (e error) {
		res.Partitions, e = c.writer.WriteCleaned(c.cfg.CleanedPath, converted, c.cfg.PartitionDir, parts, c.cfg.PartitionCleanStale)
		return e
	}); err != nil {
		return CleanResult{}, err
	}
	c.metrics.RowsWritten.Add(float64(converted.Len()))
	c.metrics.PartitionsWritten.Add(float64(len(res.Partitions)))

	c.logger.Info("cleaner finished",
		"rows", res.Rows,
		"partitions", len(res.Partitions),
		"output", c.cfg.CleanedPath,
		"duration", c.clock.Since(start),
	)
	return res, nil
}
