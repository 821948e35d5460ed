// Command genmock writes a synthetic raw occurrence export for local runs of
// the cleaner and charter. Output is deterministic for a given seed: the same
// flags always produce the same file.
//
// The generated rows mix comma and dot decimals and include malformed
// coordinates and points outside Belo Horizonte, so every cleaning rule has
// something to drop.
//
// Usage:
//
//	go run ./cmd/genmock -out base/base.csv -rows 2000 -seed 42
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cable-theft-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

var header = []string{
	"id_ocorrencia",
	domain.ColTimestamp,
	domain.ColLatitude,
	domain.ColLongitude,
	domain.ColQuarterYear,
	"bairro",
	"tipo_cabo",
}

var (
	neighbourhoods = []string{"Centro", "Savassi", "Pampulha", "Barreiro", "Venda Nova", "Floresta", "Lourdes", "Buritis", "Santa Efigênia", "Carlos Prates"}
	cableTypes     = []string{"cobre", "telefonia", "energia", "fibra óptica"}
	malformed      = []string{"abc", "", "-19", "19,9.1", "-199.5", "N/D"}
)

// Rough share of rows that should fail each cleaning rule.
const (
	malformedRate = 0.05
	outsideRate   = 0.05
	commaRate     = 0.6
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "base/base.csv", "output path for the raw export")
	rows := flag.Int("rows", 2000, "number of rows to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	years := flag.Int("years", 6, "number of years covered, ending at the fixed clock")
	flag.Parse()

	if *rows <= 0 || *years <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows and -years must be positive")
	}

	// A fixed clock keeps the covered years stable across machines and dates.
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	end := clock.Now()
	start := end.AddDate(-*years, 0, 0)

	g := generator{
		rng:   rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)),
		start: start,
		span:  end.Sub(start),
		box:   domain.BeloHorizonte,
	}
	table := g.table(*rows)

	w := csvfile.NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := w.Write(*out, table); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	log.Printf("wrote %d rows (%d to %d) to %s", table.Len(), start.Year(), end.Year()-1, *out)
	return nil
}

type generator struct {
	rng   *rand.Rand
	start time.Time
	span  time.Duration
	box   domain.BoundingBox
}

func (g generator) table(n int) domain.Table {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = g.row(i + 1)
	}
	return domain.NewTable(header, rows)
}

func (g generator) row(id int) []string {
	ts := g.start.Add(time.Duration(g.rng.Int64N(int64(g.span)))).Truncate(time.Second)
	quarter := (int(ts.Month())-1)/3 + 1

	lat, lon := g.coordinates()
	return []string{
		strconv.Itoa(id),
		ts.Format(domain.SourceTimestampLayout),
		lat,
		lon,
		fmt.Sprintf("%d/%d", quarter, ts.Year()),
		neighbourhoods[g.rng.IntN(len(neighbourhoods))],
		cableTypes[g.rng.IntN(len(cableTypes))],
	}
}

func (g generator) coordinates() (string, string) {
	r := g.rng.Float64()
	switch {
	case r < malformedRate:
		bad := malformed[g.rng.IntN(len(malformed))]
		if g.rng.IntN(2) == 0 {
			return bad, g.decimal(g.between(g.box.MinLon, g.box.MaxLon))
		}
		return g.decimal(g.between(g.box.MinLat, g.box.MaxLat)), bad
	case r < malformedRate+outsideRate:
		// Around São Paulo.
		return g.decimal(g.between(-23.8, -23.3)), g.decimal(g.between(-46.9, -46.4))
	default:
		return g.decimal(g.between(g.box.MinLat, g.box.MaxLat)), g.decimal(g.between(g.box.MinLon, g.box.MaxLon))
	}
}

// between returns a value strictly inside (lo, hi).
func (g generator) between(lo, hi float64) float64 {
	margin := (hi - lo) * 0.01
	return lo + margin + g.rng.Float64()*(hi-lo-2*margin)
}

// decimal formats v with six decimals, using a comma separator for most rows
// as the source export does.
func (g generator) decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if g.rng.Float64() < commaRate {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}
