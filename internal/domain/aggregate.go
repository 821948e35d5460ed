package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QuartersPerYear is the number of rows in a QuarterCounts matrix.
const QuartersPerYear = 4

// QuarterLabel returns the chart label for a quarter, e.g. 1 -> "1º Trimestre".
func QuarterLabel(q int) string {
	return fmt.Sprintf("%dº Trimestre", q)
}

// QuarterLabels returns the four labels in chart order.
func QuarterLabels() []string {
	labels := make([]string, QuartersPerYear)
	for q := 1; q <= QuartersPerYear; q++ {
		labels[q-1] = QuarterLabel(q)
	}
	return labels
}

// QuarterCounts is a quarter × year occurrence matrix. Counts[q-1][j] holds the
// number of occurrences in quarter q of Years[j]. Every cell is present.
type QuarterCounts struct {
	Years  []int
	Counts [][]int

	// Skipped counts rows whose quarter was outside 1..4.
	Skipped int
}

// Count returns the number of occurrences for quarter q (1..4) in year.
func (c QuarterCounts) Count(q, year int) int {
	if q < 1 || q > QuartersPerYear {
		return 0
	}
	for j, y := range c.Years {
		if y == year {
			return c.Counts[q-1][j]
		}
	}
	return 0
}

// YearTotals returns the column sums, aligned with Years.
func (c QuarterCounts) YearTotals() []int {
	totals := make([]int, len(c.Years))
	for _, row := range c.Counts {
		for j, n := range row {
			totals[j] += n
		}
	}
	return totals
}

// Total returns the sum of every cell.
func (c QuarterCounts) Total() int {
	var total int
	for _, n := range c.YearTotals() {
		total += n
	}
	return total
}

// AggregateQuarters counts occurrences by quarter (from trimestre_ano) and
// year (from ano). Quarter/year pairs with no occurrences are reported as 0.
func AggregateQuarters(t Table) (QuarterCounts, error) {
	if t.Len() == 0 {
		return QuarterCounts{}, ErrEmptyTable
	}
	qIdx, err := t.ColumnIndex(ColQuarterYear)
	if err != nil {
		return QuarterCounts{}, err
	}
	yIdx, err := t.ColumnIndex(ColYear)
	if err != nil {
		return QuarterCounts{}, err
	}

	type key struct{ quarter, year int }
	counts := make(map[key]int)
	seenYears := make(map[int]bool)
	var skipped int

	for i, row := range t.Rows {
		q, err := parseQuarter(cell(row, qIdx))
		if err != nil {
			return QuarterCounts{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		year, err := parseYear(cell(row, yIdx))
		if err != nil {
			return QuarterCounts{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		if q < 1 || q > QuartersPerYear {
			skipped++
			continue
		}
		counts[key{q, year}]++
		seenYears[year] = true
	}

	out := QuarterCounts{Years: sortedKeys(seenYears), Skipped: skipped}
	out.Counts = make([][]int, QuartersPerYear)
	for q := 1; q <= QuartersPerYear; q++ {
		row := make([]int, len(out.Years))
		for j, y := range out.Years {
			row[j] = counts[key{q, y}]
		}
		out.Counts[q-1] = row
	}
	return out, nil
}

// parseQuarter reads the integer before the first "/" of a "Q/YYYY" value.
func parseQuarter(s string) (int, error) {
	head, _, _ := strings.Cut(s, "/")
	q, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}
	return q, nil
}

// YearCounts holds occurrences per year, ordered by year.
type YearCounts struct {
	Years  []int
	Counts []int
}

// AggregateYears counts occurrences per ano value.
func AggregateYears(t Table) (YearCounts, error) {
	if t.Len() == 0 {
		return YearCounts{}, ErrEmptyTable
	}
	idx, err := t.ColumnIndex(ColYear)
	if err != nil {
		return YearCounts{}, err
	}

	counts := make(map[int]int)
	seen := make(map[int]bool)
	for i, row := range t.Rows {
		year, err := parseYear(cell(row, idx))
		if err != nil {
			return YearCounts{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		counts[year]++
		seen[year] = true
	}

	out := YearCounts{Years: sortedKeys(seen)}
	out.Counts = make([]int, len(out.Years))
	for j, y := range out.Years {
		out.Counts[j] = counts[y]
	}
	return out, nil
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
