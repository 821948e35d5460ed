// Command validate checks the cleaner outputs on disk: the cleaned table's
// shape and ordering, every geometry against the bounding box, and that the
// per-year files partition the cleaned table exactly.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -cleaned ./base_tratada.csv \
//	  -partition-dir ./base/dados_por_ano
//
// Bounding box and default paths come from the same environment variables as
// the cleaner.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cable-theft-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/cable-theft-etl/internal/config"
	"github.com/couchcryptid/cable-theft-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	cleaned := flag.String("cleaned", cfg.CleanedPath, "path to the cleaned table")
	partitionDir := flag.String("partition-dir", cfg.PartitionDir, "directory holding base_tratada_<ano>.csv files")
	flag.Parse()

	if code := run(*cleaned, *partitionDir, cfg.BoundingBox); code != 0 {
		os.Exit(code)
	}
}

func run(cleanedPath, partitionDir string, box domain.BoundingBox) int {
	fmt.Println("=== Cable Theft Output Validation ===")
	fmt.Println()

	reader := csvfile.NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cleaned, err := reader.Read(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	partitions, err := loadPartitions(reader, partitionDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load partitions: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateShape(cleaned),
		validateGeometry(cleaned, box),
		validatePartitions(cleaned, partitions),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d cleaned, %d partition files\n", cleaned.Len(), len(partitions))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

type partitionFile struct {
	path  string
	year  int
	table domain.Table
}

func loadPartitions(reader *csvfile.Reader, dir string) ([]partitionFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "base_tratada_*.csv"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	files := make([]partitionFile, 0, len(paths))
	for _, path := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "base_tratada_"), ".csv")
		year, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("%s: file name does not end in a year", path)
		}
		t, err := reader.Read(path)
		if err != nil {
			return nil, err
		}
		files = append(files, partitionFile{path: path, year: year, table: t})
	}
	return files, nil
}

// ── Phase 1: Shape ──
// Required columns present, coordinate columns gone, timestamps normalized
// and ascending.

func validateShape(t domain.Table) *phase {
	p := &phase{name: "Phase 1: Shape (columns, ordering)"}

	for _, col := range []string{domain.ColTimestamp, domain.ColYear, domain.ColGeometry} {
		if !t.HasColumn(col) {
			p.errorf("missing column %q", col)
		}
	}
	for _, col := range []string{domain.ColLatitude, domain.ColLongitude} {
		if t.HasColumn(col) {
			p.errorf("column %q should have been replaced by %q", col, domain.ColGeometry)
		}
	}
	if t.Len() == 0 {
		p.errorf("cleaned table has no rows")
	}

	stamps, err := t.Column(domain.ColTimestamp)
	if err != nil {
		return p
	}
	var prev time.Time
	for i, s := range stamps {
		ts, err := time.Parse(domain.TimestampLayout, s)
		if err != nil {
			p.errorf("row %d: %s %q not in %s layout", i+1, domain.ColTimestamp, s, domain.TimestampLayout)
			continue
		}
		if ts.Before(prev) {
			p.errorf("row %d: %s %s is earlier than the previous row", i+1, domain.ColTimestamp, s)
		}
		prev = ts
	}
	return p
}

// ── Phase 2: Geometry ──
// Every point is non-empty and strictly inside the bounding box, and its
// row's year matches the timestamp.

func validateGeometry(t domain.Table, box domain.BoundingBox) *phase {
	p := &phase{name: "Phase 2: Geometry (WKT, bounding box)"}

	geoms, err := t.Column(domain.ColGeometry)
	if err != nil {
		return p
	}
	for i, g := range geoms {
		pt, err := domain.ParsePoint(g)
		if err != nil {
			p.errorf("row %d: %v", i+1, err)
			continue
		}
		if pt.Empty() {
			p.errorf("row %d: empty geometry", i+1)
			continue
		}
		if !box.Contains(pt.Lat(), pt.Lon()) {
			p.errorf("row %d: %s outside bounding box", i+1, g)
		}
	}

	stamps, errT := t.Column(domain.ColTimestamp)
	years, errY := t.Column(domain.ColYear)
	if errT != nil || errY != nil {
		return p
	}
	for i := range stamps {
		if !strings.HasPrefix(stamps[i], years[i]+"-") {
			p.errorf("row %d: %s %q does not match %s %q", i+1, domain.ColYear, years[i], domain.ColTimestamp, stamps[i])
		}
	}
	return p
}

// ── Phase 3: Partitions ──
// Each file holds only its year, headers match, and together the files hold
// exactly the cleaned rows.

func validatePartitions(cleaned domain.Table, files []partitionFile) *phase {
	p := &phase{name: "Phase 3: Partitions (per-year files)"}

	remaining := make(map[string]int, cleaned.Len())
	for _, row := range cleaned.Rows {
		remaining[rowKey(row)]++
	}

	for _, f := range files {
		if !slices.Equal(f.table.Header, cleaned.Header) {
			p.errorf("%s: header %v differs from cleaned table", f.path, f.table.Header)
		}
		years, err := f.table.Column(domain.ColYear)
		if err != nil {
			p.errorf("%s: %v", f.path, err)
			continue
		}
		for i, y := range years {
			if y != strconv.Itoa(f.year) {
				p.errorf("%s row %d: %s %q in file for %d", f.path, i+1, domain.ColYear, y, f.year)
			}
		}
		for i, row := range f.table.Rows {
			key := rowKey(row)
			if remaining[key] == 0 {
				p.errorf("%s row %d: not in cleaned table", f.path, i+1)
				continue
			}
			remaining[key]--
		}
	}

	var missing int
	for _, n := range remaining {
		missing += n
	}
	if missing > 0 {
		p.errorf("%d cleaned rows missing from partition files", missing)
	}
	return p
}

func rowKey(row []string) string {
	return strings.Join(row, "\x1f")
}
