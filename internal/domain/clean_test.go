package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMalformed = "abc"
	testCentroLat = "-19,9191"
	testCentroLon = "-43,9386"
)

var rawHeader = []string{"id", ColTimestamp, ColLatitude, ColLongitude, ColQuarterYear}

func rawTable(rows ...[]string) Table {
	return NewTable(rawHeader, rows)
}

func mustColumn(t *testing.T, tbl Table, name string) []string {
	t.Helper()
	values, err := tbl.Column(name)
	require.NoError(t, err)
	return values
}

func TestSortByTimestamp(t *testing.T) {
	t.Run("sorts ascending and rewrites layout", func(t *testing.T) {
		in := rawTable(
			[]string{"b", "15/06/2023 08:00:00", testCentroLat, testCentroLon, "2/2023"},
			[]string{"a", "02/01/2022 23:59:59", testCentroLat, testCentroLon, "1/2022"},
			[]string{"c", "01/01/2024 00:00:00", testCentroLat, testCentroLon, "1/2024"},
		)

		out, err := SortByTimestamp(in)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, mustColumn(t, out, "id"))
		assert.Equal(t, []string{
			"2022-01-02 23:59:59",
			"2023-06-15 08:00:00",
			"2024-01-01 00:00:00",
		}, mustColumn(t, out, ColTimestamp))
	})

	t.Run("equal timestamps keep input order", func(t *testing.T) {
		in := rawTable(
			[]string{"first", "10/10/2023 10:00:00", "", "", ""},
			[]string{"second", "10/10/2023 10:00:00", "", "", ""},
			[]string{"earlier", "09/10/2023 10:00:00", "", "", ""},
		)

		out, err := SortByTimestamp(in)

		require.NoError(t, err)
		assert.Equal(t, []string{"earlier", "first", "second"}, mustColumn(t, out, "id"))
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := rawTable([]string{"a", "02/01/2022 23:59:59", testCentroLat, testCentroLon, "1/2022"})
		before := NewTable(in.Header, in.Rows)

		_, err := SortByTimestamp(in)

		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(before, in))
	})

	t.Run("invalid timestamp fails the table", func(t *testing.T) {
		in := rawTable(
			[]string{"a", "02/01/2022 23:59:59", "", "", ""},
			[]string{"b", "2022-01-02 23:59:59", "", "", ""},
		)

		_, err := SortByTimestamp(in)

		require.ErrorIs(t, err, ErrInvalidTimestamp)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := SortByTimestamp(NewTable([]string{"id"}, [][]string{{"a"}}))
		require.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestNormalizeCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		lat   string
		lon   string
		check CoordinateCheck
		kept  bool
	}{
		{"comma decimals", testCentroLat, testCentroLon, CheckStrict, true},
		{"dot decimals", "-19.9191", "-43.9386", CheckStrict, true},
		{"surrounding spaces", " -19,9 ", " -43,9 ", CheckStrict, true},
		{"malformed latitude strict", testMalformed, testCentroLon, CheckStrict, false},
		{"malformed latitude longitude-only", testMalformed, testCentroLon, CheckLongitudeOnly, true},
		{"malformed longitude strict", testCentroLat, testMalformed, CheckStrict, false},
		{"malformed longitude longitude-only", testCentroLat, testMalformed, CheckLongitudeOnly, false},
		{"integer degrees", "-19", "-43", CheckStrict, false},
		{"three integer digits", "-19.9", "-143.9", CheckStrict, false},
		{"empty values", "", "", CheckStrict, false},
		{"positive values", "19.9", "43.9", CheckStrict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := rawTable([]string{"a", "2023-01-01 00:00:00", tt.lat, tt.lon, "1/2023"})

			out, err := NormalizeCoordinates(in, tt.check)

			require.NoError(t, err)
			if !tt.kept {
				assert.Equal(t, 0, out.Len())
				return
			}
			require.Equal(t, 1, out.Len())
			assert.NotContains(t, mustColumn(t, out, ColLongitude)[0], ",")
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NormalizeCoordinates(rawTable(), CoordinateCheck("loose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loose")
	})

	t.Run("replaces commas", func(t *testing.T) {
		out, err := NormalizeCoordinates(rawTable([]string{"a", "", testCentroLat, testCentroLon, ""}), CheckStrict)
		require.NoError(t, err)
		assert.Equal(t, []string{"-19.9191"}, mustColumn(t, out, ColLatitude))
		assert.Equal(t, []string{"-43.9386"}, mustColumn(t, out, ColLongitude))
	})
}

func TestFilterBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
		kept bool
	}{
		{"city centre", "-19.9191", "-43.9386", true},
		{"just inside north", "-19.0001", "-44.0", true},
		{"just inside south", "-21.9999", "-44.0", true},
		{"north edge excluded", "-19.0", "-44.0", false},
		{"south edge excluded", "-22.0", "-44.0", false},
		{"west edge excluded", "-20.0", "-45.0", false},
		{"east edge excluded", "-20.0", "-43.0", false},
		{"north of box", "-18.5", "-44.0", false},
		{"east of box", "-20.0", "-42.5", false},
		{"swapped coordinates", "-43.9386", "-19.9191", false},
		{"unparseable latitude", testMalformed, "-44.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := rawTable([]string{"a", "", tt.lat, tt.lon, ""})

			out, err := FilterBoundingBox(in, BeloHorizonte)

			require.NoError(t, err)
			if tt.kept {
				assert.Equal(t, 1, out.Len())
			} else {
				assert.Equal(t, 0, out.Len())
			}
		})
	}
}

func TestDeriveYear(t *testing.T) {
	in := rawTable(
		[]string{"a", "2022-12-31 23:59:59", "", "", ""},
		[]string{"b", "2023-01-01 00:00:00", "", "", ""},
	)

	out, err := DeriveYear(in)

	require.NoError(t, err)
	assert.Equal(t, append(append([]string(nil), rawHeader...), ColYear), out.Header)
	assert.Equal(t, []string{"2022", "2023"}, mustColumn(t, out, ColYear))
	assert.False(t, in.HasColumn(ColYear))

	t.Run("requires rewritten layout", func(t *testing.T) {
		_, err := DeriveYear(rawTable([]string{"a", "31/12/2022 23:59:59", "", "", ""}))
		require.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}

func sampleRaw() Table {
	return rawTable(
		[]string{"1", "05/03/2023 10:00:00", "-19,9191", "-43,9386", "1/2023"},
		[]string{"2", "01/02/2023 09:30:00", "-19.8500", "-44.0100", "1/2023"},
		[]string{"3", "10/07/2023 12:00:00", testMalformed, "-43,9000", "3/2023"},
		[]string{"4", "11/07/2023 12:00:00", "-19,9000", testMalformed, "3/2023"},
		[]string{"5", "12/08/2024 18:45:10", "-23,5505", "-46,6333", "3/2024"},
		[]string{"6", "20/11/2024 07:15:00", "-20,1000", "-43,5000", "4/2024"},
		[]string{"7", "21/11/2024 07:15:00", "-19,0000", "-43,5000", "4/2024"},
	)
}

func TestClean(t *testing.T) {
	out, stats, err := Clean(sampleRaw(), CleanOptions{Box: BeloHorizonte, Check: CheckStrict})

	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "6"}, mustColumn(t, out, "id"))
	assert.Equal(t, []string{"2023", "2023", "2024"}, mustColumn(t, out, ColYear))
	assert.Equal(t, CleanStats{Input: 7, MalformedCoordinates: 2, OutsideBox: 2, Output: 3}, stats)

	lats := mustColumn(t, out, ColLatitude)
	lons := mustColumn(t, out, ColLongitude)
	for i := range lats {
		assert.True(t, BeloHorizonte.Contains(parseFloatOrNaN(lats[i]), parseFloatOrNaN(lons[i])),
			"row %d outside bounding box: %s %s", i, lats[i], lons[i])
	}
}

func TestClean_LongitudeOnly(t *testing.T) {
	out, stats, err := Clean(sampleRaw(), CleanOptions{Box: BeloHorizonte, Check: CheckLongitudeOnly})

	require.NoError(t, err)
	// The malformed latitude passes the format check and is caught by the box.
	assert.Equal(t, []string{"2", "1", "6"}, mustColumn(t, out, "id"))
	assert.Equal(t, 1, stats.MalformedCoordinates)
	assert.Equal(t, 3, stats.OutsideBox)
}

func TestClean_Deterministic(t *testing.T) {
	opts := CleanOptions{Box: BeloHorizonte, Check: CheckStrict}

	first, _, err := Clean(sampleRaw(), opts)
	require.NoError(t, err)
	second, _, err := Clean(sampleRaw(), opts)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestClean_InvalidTimestamp(t *testing.T) {
	in := rawTable([]string{"1", "not a date", "-19,9", "-43,9", "1/2023"})

	_, _, err := Clean(in, CleanOptions{Box: BeloHorizonte, Check: CheckStrict})

	require.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParseCoordinateCheck(t *testing.T) {
	c, err := ParseCoordinateCheck("strict")
	require.NoError(t, err)
	assert.Equal(t, CheckStrict, c)

	c, err = ParseCoordinateCheck("longitude-only")
	require.NoError(t, err)
	assert.Equal(t, CheckLongitudeOnly, c)

	_, err = ParseCoordinateCheck("")
	require.Error(t, err)
}
