package domain

import "errors"

var (
	// ErrSourceRead is returned when the instrument source is missing, unreadable or malformed
	ErrSourceRead = errors.New("source read error")

	// ErrNotFound is returned when an unknown code or date is queried
	ErrNotFound = errors.New("not found")

	// ErrDivisionByZero is returned when averaging an empty price series
	ErrDivisionByZero = errors.New("division by zero")
)
