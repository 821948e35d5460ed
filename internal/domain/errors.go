package domain

import "errors"

var (
	// ErrInputNotFound is returned when a source file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMissingColumn is returned when a required column is absent from a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidTimestamp is returned when data_hora does not match DD/MM/YYYY HH:MM:SS.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidYear is returned when the ano column does not hold an integer.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidQuarter is returned when trimestre_ano has no integer before the "/".
	ErrInvalidQuarter = errors.New("invalid quarter")

	// ErrEmptyTable is returned when a stage needs at least one row and got none.
	ErrEmptyTable = errors.New("empty table")
)
