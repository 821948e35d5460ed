package csvfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
)

const partitionPattern = "base_tratada_*.csv"

// PartitionFileName returns the file name for a year partition.
func PartitionFileName(year int) string {
	return fmt.Sprintf("base_tratada_%d.csv", year)
}

// Writer persists domain tables as semicolon-delimited UTF-8 files with a
// header row and no index column.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write stores t at path, creating parent directories. The file is written to
// a temporary name and renamed, so a failed write never leaves a partial file.
func (w *Writer) Write(path string, t domain.Table) error {
	var b batch
	defer b.discard()

	if err := b.add(path, t); err != nil {
		return err
	}
	if err := b.commit(); err != nil {
		return err
	}

	w.logger.Info("table written", "path", path, "rows", t.Len())
	return nil
}

// WriteCleaned stores the cleaned table at cleanedPath and one file per
// partition in dir, all or nothing: every file is staged first and the
// existing outputs are replaced only once all of them are ready. When
// cleanStale is set, partition files from earlier runs whose year no longer
// occurs are removed in the same commit. Returns the partition paths in
// partition order.
func (w *Writer) WriteCleaned(cleanedPath string, cleaned domain.Table, dir string, parts []domain.Partition, cleanStale bool) ([]string, error) {
	var b batch
	defer b.discard()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create partition dir: %w", err)
	}
	if err := b.add(cleanedPath, cleaned); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		path := filepath.Join(dir, PartitionFileName(p.Year))
		if err := b.add(path, p.Table); err != nil {
			return nil, fmt.Errorf("partition %d: %w", p.Year, err)
		}
		paths = append(paths, path)
	}

	var stale int
	if cleanStale {
		existing, err := filepath.Glob(filepath.Join(dir, partitionPattern))
		if err != nil {
			return nil, fmt.Errorf("list stale partitions: %w", err)
		}
		for _, path := range existing {
			if !slices.Contains(paths, path) {
				b.remove(path)
				stale++
			}
		}
	}

	if err := b.commit(); err != nil {
		return nil, err
	}

	w.logger.Info("table written", "path", cleanedPath, "rows", cleaned.Len())
	w.logger.Info("partitions written", "dir", dir, "count", len(paths), "stale_removed", stale)
	return paths, nil
}
