package domain

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// emptyPointWKT is the WKT for a point without coordinates.
const emptyPointWKT = "POINT EMPTY"

// Point is a WGS-84 location in (longitude, latitude) order. A point built
// from a non-finite coordinate is empty.
type Point struct {
	p     orb.Point
	empty bool
}

// NewPoint builds a point from longitude and latitude.
func NewPoint(lon, lat float64) Point {
	if !finite(lon) || !finite(lat) {
		return Point{empty: true}
	}
	return Point{p: orb.Point{lon, lat}}
}

// Empty reports whether the point has no usable coordinates.
func (p Point) Empty() bool { return p.empty }

func (p Point) Lon() float64 { return p.p.Lon() }

func (p Point) Lat() float64 { return p.p.Lat() }

// WKT renders the point as well-known text, e.g. "POINT(-43.9 -19.9)".
func (p Point) WKT() string {
	if p.empty {
		return emptyPointWKT
	}
	return wkt.MarshalString(p.p)
}

// ParsePoint reads a WKT point written by Point.WKT.
func ParsePoint(s string) (Point, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, emptyPointWKT) {
		return Point{empty: true}, nil
	}
	p, err := wkt.UnmarshalPoint(s)
	if err != nil {
		return Point{}, err
	}
	return NewPoint(p.Lon(), p.Lat()), nil
}

// ConvertGeometry replaces the latitude and longitude columns with a geometry
// column and drops rows whose point is empty.
func ConvertGeometry(t Table) (Table, error) {
	latIdx, err := t.ColumnIndex(ColLatitude)
	if err != nil {
		return Table{}, err
	}
	lonIdx, err := t.ColumnIndex(ColLongitude)
	if err != nil {
		return Table{}, err
	}

	out := Table{}
	for i, h := range t.Header {
		if i != latIdx && i != lonIdx {
			out.Header = append(out.Header, h)
		}
	}
	out.Header = append(out.Header, ColGeometry)

	for _, row := range t.Rows {
		pt := NewPoint(parseFloatOrNaN(cell(row, lonIdx)), parseFloatOrNaN(cell(row, latIdx)))
		if pt.Empty() {
			continue
		}
		r := make([]string, 0, len(out.Header))
		for i, v := range padded(row, len(t.Header)) {
			if i != latIdx && i != lonIdx {
				r = append(r, v)
			}
		}
		out.Rows = append(out.Rows, append(r, pt.WKT()))
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
