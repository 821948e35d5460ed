// Package domain models cable-theft occurrence records and the pure table
// transforms that clean, geocode, partition, and aggregate them.
//
// # Data Source
//
// Occurrences come from a semicolon-delimited export with one row per
// reported theft. Only a handful of columns are interpreted; every other
// column is carried through to the outputs unchanged.
//
// # Field Conventions
//
// Timestamp ("data_hora"):
//
//	"DD/MM/YYYY HH:MM:SS" in the raw export, e.g. "03/02/2023 14:05:00".
//	Rewritten as "YYYY-MM-DD HH:MM:SS" in the cleaned table.
//
// Coordinates ("latitude", "longitude"):
//
//	Decimal degrees with either a comma or a dot separator: "-19,9167" or
//	"-19.9167". After normalization a value must match ^-?\d{1,2}\.\d+$.
//	Rows outside the Belo Horizonte box (lat -22..-19, lon -45..-43, both
//	exclusive) are treated as geocoding errors and dropped.
//
// Geometry ("geometry"):
//
//	WKT point in (longitude latitude) order, e.g. "POINT(-43.94 -19.92)".
//	Replaces the latitude and longitude columns in the cleaned table.
//
// Quarter ("trimestre_ano"):
//
//	"Q/YYYY", e.g. "2/2023". Only the leading integer is used; the year comes
//	from "ano". Supplied by the upstream export, not derived here.
//
// # Purity
//
// Every transform takes a [Table] and returns a new one. Inputs are never
// modified.
package domain
