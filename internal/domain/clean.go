package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// SourceTimestampLayout is the data_hora format in the raw export.
	SourceTimestampLayout = "02/01/2006 15:04:05"

	// TimestampLayout is the data_hora format written to the cleaned table.
	TimestampLayout = "2006-01-02 15:04:05"
)

// coordinateRe matches a decimal degree after comma normalization, e.g. "-19.9167".
var coordinateRe = regexp.MustCompile(`^-?\d{1,2}\.\d+$`)

// CoordinateCheck selects which coordinate columns must match coordinateRe.
type CoordinateCheck string

const (
	// CheckStrict drops a row when either latitude or longitude is malformed.
	CheckStrict CoordinateCheck = "strict"

	// CheckLongitudeOnly reproduces the legacy export, which only enforced the
	// longitude format. Malformed latitudes are left for the bounding box.
	CheckLongitudeOnly CoordinateCheck = "longitude-only"
)

// ParseCoordinateCheck validates a mode name.
func ParseCoordinateCheck(s string) (CoordinateCheck, error) {
	switch CoordinateCheck(s) {
	case CheckStrict, CheckLongitudeOnly:
		return CoordinateCheck(s), nil
	default:
		return "", fmt.Errorf("unknown coordinate check %q", s)
	}
}

// BoundingBox is an exclusive latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BeloHorizonte is the default sanity box for the metropolitan area.
var BeloHorizonte = BoundingBox{MinLat: -22, MaxLat: -19, MinLon: -45, MaxLon: -43}

// Contains reports whether the coordinate lies strictly inside the box.
// NaN coordinates are never contained.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat > b.MinLat && lat < b.MaxLat && lon > b.MinLon && lon < b.MaxLon
}

// CleanOptions configures Clean.
type CleanOptions struct {
	Box   BoundingBox
	Check CoordinateCheck
}

// CleanStats counts rows removed by each cleaning step.
type CleanStats struct {
	Input                int
	MalformedCoordinates int
	OutsideBox           int
	Output               int
}

// Clean runs the coordinate cleaning steps in order: timestamp parse and sort,
// coordinate normalization, bounding box filter, and year derivation.
func Clean(t Table, opts CleanOptions) (Table, CleanStats, error) {
	stats := CleanStats{Input: t.Len()}

	sorted, err := SortByTimestamp(t)
	if err != nil {
		return Table{}, stats, err
	}

	normalized, err := NormalizeCoordinates(sorted, opts.Check)
	if err != nil {
		return Table{}, stats, err
	}
	stats.MalformedCoordinates = sorted.Len() - normalized.Len()

	boxed, err := FilterBoundingBox(normalized, opts.Box)
	if err != nil {
		return Table{}, stats, err
	}
	stats.OutsideBox = normalized.Len() - boxed.Len()

	out, err := DeriveYear(boxed)
	if err != nil {
		return Table{}, stats, err
	}
	stats.Output = out.Len()
	return out, stats, nil
}

// SortByTimestamp parses data_hora, rewrites it as TimestampLayout, and sorts
// rows ascending by it. Rows with equal timestamps keep their input order.
// A single unparseable timestamp fails the whole table.
func SortByTimestamp(t Table) (Table, error) {
	idx, err := t.ColumnIndex(ColTimestamp)
	if err != nil {
		return Table{}, err
	}

	type stamped struct {
		at  time.Time
		row []string
	}
	rows := make([]stamped, len(t.Rows))
	for i, row := range t.Rows {
		raw := strings.TrimSpace(cell(row, idx))
		at, err := time.Parse(SourceTimestampLayout, raw)
		if err != nil {
			return Table{}, fmt.Errorf("%w: row %d: %q", ErrInvalidTimestamp, i+1, raw)
		}
		r := padded(row, len(t.Header))
		r[idx] = at.Format(TimestampLayout)
		rows[i] = stamped{at: at, row: r}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	out := Table{Header: append([]string(nil), t.Header...), Rows: make([][]string, len(rows))}
	for i := range rows {
		out.Rows[i] = rows[i].row
	}
	return out, nil
}

// NormalizeCoordinates replaces decimal commas with dots in latitude and
// longitude and drops rows whose values do not look like decimal degrees.
// Which columns are enforced depends on check.
func NormalizeCoordinates(t Table, check CoordinateCheck) (Table, error) {
	latIdx, err := t.ColumnIndex(ColLatitude)
	if err != nil {
		return Table{}, err
	}
	lonIdx, err := t.ColumnIndex(ColLongitude)
	if err != nil {
		return Table{}, err
	}
	if _, err := ParseCoordinateCheck(string(check)); err != nil {
		return Table{}, err
	}

	out := Table{Header: append([]string(nil), t.Header...)}
	for _, row := range t.Rows {
		lat := normalizeDecimal(cell(row, latIdx))
		lon := normalizeDecimal(cell(row, lonIdx))

		keep := coordinateRe.MatchString(lon)
		if check == CheckStrict {
			keep = keep && coordinateRe.MatchString(lat)
		}
		if !keep {
			continue
		}

		r := padded(row, len(t.Header))
		r[latIdx] = lat
		r[lonIdx] = lon
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// FilterBoundingBox keeps rows whose parsed coordinates fall strictly inside box.
func FilterBoundingBox(t Table, box BoundingBox) (Table, error) {
	latIdx, err := t.ColumnIndex(ColLatitude)
	if err != nil {
		return Table{}, err
	}
	lonIdx, err := t.ColumnIndex(ColLongitude)
	if err != nil {
		return Table{}, err
	}

	return t.filter(func(_ int, row []string) bool {
		return box.Contains(parseFloatOrNaN(cell(row, latIdx)), parseFloatOrNaN(cell(row, lonIdx)))
	}), nil
}

// DeriveYear appends the ano column from data_hora, which must already be in
// TimestampLayout (see SortByTimestamp).
func DeriveYear(t Table) (Table, error) {
	idx, err := t.ColumnIndex(ColTimestamp)
	if err != nil {
		return Table{}, err
	}

	years := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		at, err := time.Parse(TimestampLayout, cell(row, idx))
		if err != nil {
			return Table{}, fmt.Errorf("%w: row %d: %q", ErrInvalidTimestamp, i+1, cell(row, idx))
		}
		years[i] = strconv.Itoa(at.Year())
	}
	return t.withColumn(ColYear, years), nil
}

func normalizeDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

// parseFloatOrNaN parses a coordinate, returning NaN when it is not a number.
func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(normalizeDecimal(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
