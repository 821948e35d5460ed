// Command charter reads the cleaned table, counts occurrences per quarter and
// year, and writes the bar charts, the counts workbook and the PDF summary.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cable-theft-etl/internal/adapter/chart"
	"github.com/couchcryptid/cable-theft-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/cable-theft-etl/internal/adapter/report"
	"github.com/couchcryptid/cable-theft-etl/internal/config"
	"github.com/couchcryptid/cable-theft-etl/internal/observability"
	"github.com/couchcryptid/cable-theft-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	os.Exit(run(os.Stderr))
}

// run executes one pipeline pass and writes the result lines to out. main
// passes stderr because the logger owns stdout.
func run(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics("charter")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	charter := pipeline.NewCharter(cfg,
		csvfile.NewReader(logger),
		chart.NewRenderer(logger),
		report.NewWriter(logger),
		logger, metrics, clockwork.NewRealClock(),
	)
	res, err := charter.Run(ctx)

	if mErr := metrics.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		logger.Warn("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", mErr)
	}

	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	for _, f := range res.Files {
		fmt.Fprintln(out, "Gerado:", f)
	}
	return 0
}
