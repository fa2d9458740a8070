package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
)

// HistoryGenerator synthesizes the price history of one instrument
type HistoryGenerator interface {
	Generate(initialPrice decimal.Decimal, asOf domain.Date, days int) domain.PriceHistory
}

// Registry holds every instrument with its generated history
// A Registry is built once and is read-only afterwards, so reads need no locking
type Registry struct {
	instruments []domain.Instrument
	records     map[string]*domain.StockRecord
	points      int
}

// Load reads the instruments from source and builds the registry
// Any source error aborts the load
func Load(ctx context.Context, source domain.InstrumentSource, gen HistoryGenerator, asOf domain.Date, days int) (*Registry, error) {
	instruments, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}

	return Build(instruments, gen, asOf, days), nil
}

// Build generates one history per instrument and returns the registry
// Logic: instruments keep their input order; when a code repeats, the first occurrence wins
func Build(instruments []domain.Instrument, gen HistoryGenerator, asOf domain.Date, days int) *Registry {
	r := &Registry{
		instruments: make([]domain.Instrument, 0, len(instruments)),
		records:     make(map[string]*domain.StockRecord, len(instruments)),
	}

	for _, inst := range instruments {
		if _, dup := r.records[inst.Code]; dup {
			slog.Warn("duplicate instrument code ignored", "code", inst.Code, "name", inst.Name)
			continue
		}

		history := gen.Generate(inst.InitialPrice, asOf, days)
		r.records[inst.Code] = &domain.StockRecord{
			ID:         uuid.New(),
			Instrument: inst,
			History:    history,
		}
		r.instruments = append(r.instruments, inst)
		r.points += history.Len()
	}

	slog.Info("registry built", "instruments", len(r.instruments), "points", r.points, "as_of", asOf.String())
	return r
}

// All returns a copy of every instrument in load order
func (r *Registry) All() []domain.Instrument {
	out := make([]domain.Instrument, len(r.instruments))
	copy(out, r.instruments)
	return out
}

// FindByCode retrieves the stock record of code
// The returned record is a copy; its history shares the registry's read-only storage
func (r *Registry) FindByCode(code string) (*domain.StockRecord, error) {
	rec, ok := r.records[code]
	if !ok {
		return nil, fmt.Errorf("instrument %q %w", code, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// ClosingPrice resolves the closing price of code on date
func (r *Registry) ClosingPrice(code string, date domain.Date) (decimal.Decimal, error) {
	rec, err := r.FindByCode(code)
	if err != nil {
		return decimal.Zero, err
	}

	price, ok := rec.History.At(date)
	if !ok {
		return decimal.Zero, fmt.Errorf("closing price of %q on %s %w", code, date, domain.ErrNotFound)
	}
	return price, nil
}

// Len returns the number of instruments
func (r *Registry) Len() int { return len(r.instruments) }

// Points returns the number of generated prices across all instruments
func (r *Registry) Points() int { return r.points }
