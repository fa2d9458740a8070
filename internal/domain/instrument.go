package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Instrument represents a row of the instrument reference table
// It is immutable once loaded
type Instrument struct {
	Code         string
	Name         string
	InitialPrice decimal.Decimal // Real closing price the random walk starts from
}

// Validate ensures the instrument adheres to domain rules
// Returns an error if validation fails
func (i *Instrument) Validate() error {
	if i.Code == "" {
		return errors.New("instrument code cannot be empty")
	}

	if i.InitialPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("instrument initial price must be positive")
	}

	return nil
}
