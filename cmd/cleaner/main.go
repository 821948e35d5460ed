// Command cleaner reads the raw occurrence export, keeps the rows with valid
// coordinates inside the configured bounding box, converts them to WKT points
// and writes the cleaned table plus one file per year.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cable-theft-etl/internal/adapter/csvfile"
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
	metrics := observability.NewMetrics("cleaner")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleaner := pipeline.NewCleaner(cfg,
		csvfile.NewReader(logger),
		csvfile.NewWriter(logger),
		logger, metrics, clockwork.NewRealClock(),
	)
	res, err := cleaner.Run(ctx)

	if mErr := metrics.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		logger.Warn("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", mErr)
	}

	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	fmt.Fprintf(out, "Base tratada: %s (%d registros)\n", cfg.CleanedPath, res.Rows)
	fmt.Fprintf(out, "Arquivos por ano: %d em %s\n", len(res.Partitions), cfg.PartitionDir)
	return 0
}
