package domain

import (
	"github.com/google/uuid"
)

// StockRecord pairs an instrument with its generated price history
// Records are created once at startup and never mutated afterwards
type StockRecord struct {
	ID         uuid.UUID
	Instrument Instrument
	History    PriceHistory
}
