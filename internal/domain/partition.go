package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Partition is the subset of a cleaned table that shares one ano value.
type Partition struct {
	Year  int
	Table Table
}

// PartitionByYear splits t by the ano column. Partitions are ordered by year
// and keep the row order of t.
func PartitionByYear(t Table) ([]Partition, error) {
	idx, err := t.ColumnIndex(ColYear)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*Partition)
	for i, row := range t.Rows {
		year, err := parseYear(cell(row, idx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		p, ok := byYear[year]
		if !ok {
			p = &Partition{Year: year, Table: Table{Header: append([]string(nil), t.Header...)}}
			byYear[year] = p
		}
		p.Table.Rows = append(p.Table.Rows, append([]string(nil), row...))
	}

	parts := make([]Partition, 0, len(byYear))
	for _, p := range byYear {
		parts = append(parts, *p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Year < parts[j].Year })
	return parts, nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return year, nil
}
