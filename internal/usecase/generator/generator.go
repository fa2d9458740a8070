package generator

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
)

// DefaultDays is the length of a generated history (ten years of 365 days)
const DefaultDays = 365 * 10

// pricePlaces is the number of decimal places kept on every generated price
const pricePlaces = 2

// RandomSource yields uniformly distributed values in [0, 1)
// *rand.Rand satisfies it
type RandomSource interface {
	Float64() float64
}

// Generator synthesizes closing-price histories as a random walk
// A Generator is not safe for concurrent use; histories are generated sequentially at startup
type Generator struct {
	rnd RandomSource
}

// NewGenerator creates a Generator drawing moves from rnd
func NewGenerator(rnd RandomSource) *Generator {
	return &Generator{rnd: rnd}
}

// New creates a Generator seeded from the clock
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a deterministic Generator for the given seed
func NewSeeded(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Generate produces days closing prices ending at asOf
// Logic:
//   - day 0 is asOf, day i is asOf minus i days
//   - each price is the previous one moved by a uniform draw in [-5%, +5%)
//   - every price is rounded up to 2 decimal places before it feeds the next step
//
// The walk is anchored on initialPrice and drifts further away for older dates
// days <= 0 yields an empty history
func (g *Generator) Generate(initialPrice decimal.Decimal, asOf domain.Date, days int) domain.PriceHistory {
	if days <= 0 {
		return domain.NewPriceHistory(nil)
	}

	prices := make(map[domain.Date]decimal.Decimal, days)
	current := initialPrice
	for i := 0; i < days; i++ {
		next := g.step(current)
		prices[asOf.AddDays(-i)] = next
		current = next
	}

	return domain.NewPriceHistory(prices)
}

// step applies one random move to price
func (g *Generator) step(price decimal.Decimal) decimal.Decimal {
	move := (g.rnd.Float64() - 0.5) / 10
	factor := decimal.NewFromFloat(move).Add(decimal.NewFromInt(1))
	return roundUp(price.Mul(factor))
}

// roundUp rounds toward positive infinity: 10.001 -> 10.01, -10.001 -> -10.00
func roundUp(price decimal.Decimal) decimal.Decimal {
	return price.RoundCeil(pricePlaces)
}
