package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/couchcryptid/cable-theft-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// TableReader loads a delimited file into a table.
type TableReader interface {
	Read(path string) (domain.Table, error)
}

// TableWriter persists the cleaned table together with its per-year
// partitions. Either every file is replaced or none is.
type TableWriter interface {
	WriteCleaned(cleanedPath string, cleaned domain.Table, partitionDir string, parts []domain.Partition, cleanStale bool) ([]string, error)
}

// ChartRenderer draws the occurrence charts.
type ChartRenderer interface {
	RenderQuarterChart(counts domain.QuarterCounts, path string) error
	RenderYearChart(counts domain.YearCounts, path string) error
}

// ReportWriter exports the quarter counts as documents.
type ReportWriter interface {
	WriteCountsWorkbook(counts domain.QuarterCounts, path string) error
	WritePDF(counts domain.QuarterCounts, chartPath, path string) error
}

// stages runs named pipeline steps with timing, logging and error wrapping
// shared by Cleaner and Charter.
type stages struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// run executes fn as stage. A cancelled context stops the pipeline before the
// stage starts. Any failure comes back as a *StageError.
func (s stages) run(ctx context.Context, stage Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	start := s.clock.Now()
	err := fn()
	elapsed := s.clock.Since(start)
	s.metrics.StageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())

	if err != nil {
		s.logger.Error("stage failed", "stage", stage, "error", err)
		return &StageError{Stage: stage, Err: err}
	}
	s.logger.Debug("stage finished", "stage", stage, "duration", elapsed)
	return nil
}

// finish records the run outcome.
func (s stages) finish(err error) {
	if err != nil {
		s.metrics.LastRunSuccess.Set(0)
		return
	}
	s.metrics.LastRunSuccess.Set(1)
}
