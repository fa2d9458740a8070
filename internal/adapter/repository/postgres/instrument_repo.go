package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
)

// instrumentRepository implements domain.InstrumentSource over the instruments reference table
// Only the reference table is read; generated histories are never stored
type instrumentRepository struct {
	db *DB
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(db *DB) domain.InstrumentSource {
	return &instrumentRepository{db: db}
}

// Load retrieves every instrument ordered by code
// Any row that cannot be parsed aborts the load
func (r *instrumentRepository) Load(ctx context.Context) ([]domain.Instrument, error) {
	query := `
		SELECT code, name, initial_price
		FROM instruments
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query instruments: %w", domain.ErrSourceRead, err)
	}
	defer rows.Close()

	var instruments []domain.Instrument
	for rows.Next() {
		var inst domain.Instrument
		var initialPriceStr string

		if err := rows.Scan(&inst.Code, &inst.Name, &initialPriceStr); err != nil {
			return nil, fmt.Errorf("%w: failed to scan instrument: %w", domain.ErrSourceRead, err)
		}

		// Parse initial_price (DECIMAL)
		initialPrice, err := decimal.NewFromString(initialPriceStr)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse initial_price of %s: %w", domain.ErrSourceRead, inst.Code, err)
		}
		inst.InitialPrice = initialPrice

		if err := inst.Validate(); err != nil {
			return nil, fmt.Errorf("%w: instrument %s: %w", domain.ErrSourceRead, inst.Code, err)
		}

		instruments = append(instruments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate instruments: %w", domain.ErrSourceRead, err)
	}

	return instruments, nil
}
