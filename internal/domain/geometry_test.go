package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	tests := []struct {
		name  string
		lon   float64
		lat   float64
		empty bool
	}{
		{"finite", -43.9386, -19.9191, false},
		{"origin", 0, 0, false},
		{"NaN longitude", math.NaN(), -19.9, true},
		{"NaN latitude", -43.9, math.NaN(), true},
		{"infinite longitude", math.Inf(1), -19.9, true},
		{"negative infinite latitude", -43.9, math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoint(tt.lon, tt.lat)
			assert.Equal(t, tt.empty, p.Empty())
			if tt.empty {
				assert.Equal(t, "POINT EMPTY", p.WKT())
			}
		})
	}
}

func TestPointWKTRoundTrip(t *testing.T) {
	p := NewPoint(-43.9386, -19.9191)

	assert.Contains(t, p.WKT(), "POINT")
	assert.Contains(t, p.WKT(), "-43.9386")

	parsed, err := ParsePoint(p.WKT())
	require.NoError(t, err)
	assert.False(t, parsed.Empty())
	assert.InDelta(t, -43.9386, parsed.Lon(), 1e-9)
	assert.InDelta(t, -19.9191, parsed.Lat(), 1e-9)

	empty, err := ParsePoint("POINT EMPTY")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = ParsePoint("LINESTRING(0 0, 1 1)")
	require.Error(t, err)
}

func TestConvertGeometry(t *testing.T) {
	in := NewTable(
		[]string{"id", ColLatitude, ColLongitude, ColYear},
		[][]string{
			{"1", "-19.9191", "-43.9386", "2023"},
			{"2", testMalformed, "-43.9000", "2023"},
			{"3", "-20.1000", "", "2024"},
			{"4", "-20.1000", "-43.5000", "2024"},
		},
	)

	out, err := ConvertGeometry(in)

	require.NoError(t, err)
	assert.Equal(t, []string{"id", ColYear, ColGeometry}, out.Header)
	assert.False(t, out.HasColumn(ColLatitude))
	assert.False(t, out.HasColumn(ColLongitude))
	assert.Equal(t, []string{"1", "4"}, mustColumn(t, out, "id"))

	geoms := mustColumn(t, out, ColGeometry)
	assert.Equal(t, NewPoint(-43.9386, -19.9191).WKT(), geoms[0])
	assert.Equal(t, NewPoint(-43.5, -20.1).WKT(), geoms[1])
	for _, g := range geoms {
		p, err := ParsePoint(g)
		require.NoError(t, err)
		assert.False(t, p.Empty())
	}

	// input untouched
	assert.True(t, in.HasColumn(ColLatitude))
	assert.Equal(t, 4, in.Len())
}

func TestConvertGeometry_MissingColumn(t *testing.T) {
	_, err := ConvertGeometry(NewTable([]string{"id", ColLatitude}, nil))
	require.ErrorIs(t, err, ErrMissingColumn)
}
