package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// InstrumentSource defines the interface for reading the instrument reference table
type InstrumentSource interface {
	// Load returns every instrument of the reference table in source order
	// Errors wrap ErrSourceRead
	Load(ctx context.Context) ([]Instrument, error)
}

// StockRegistry defines the read-only interface over the loaded stock records
type StockRegistry interface {
	// All returns a copy of every loaded instrument in load order
	All() []Instrument

	// FindByCode retrieves a stock record by its instrument code
	// Returns an error wrapping ErrNotFound if no instrument has that code
	FindByCode(code string) (*StockRecord, error)

	// ClosingPrice resolves the closing price of code on date
	// Returns an error wrapping ErrNotFound for an unknown code or a date outside the history
	ClosingPrice(code string, date Date) (decimal.Decimal, error)
}
