package average

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
)

// SeriesProvider supplies the full closing-price series of an instrument
type SeriesProvider interface {
	ClosingPricesFor(ctx context.Context, code string) ([]decimal.Decimal, error)
}

// AverageService computes average closing prices
type AverageService struct {
	Prices SeriesProvider
}

// NewAverageService creates a new AverageService instance
func NewAverageService(prices SeriesProvider) *AverageService {
	return &AverageService{Prices: prices}
}

// Average returns the mean closing price of code
// Returns an error wrapping ErrNotFound for an unknown code and ErrDivisionByZero for an empty series
func (s *AverageService) Average(ctx context.Context, code string) (float64, error) {
	prices, err := s.Prices.ClosingPricesFor(ctx, code)
	if err != nil {
		return 0, err
	}

	avg, err := Mean(prices)
	if err != nil {
		return 0, fmt.Errorf("average of %q: %w", code, err)
	}
	return avg, nil
}

// Mean returns the arithmetic mean of prices
// The sum is exact; only the final quotient is converted to float64
func Mean(prices []decimal.Decimal) (float64, error) {
	if len(prices) == 0 {
		return 0, domain.ErrDivisionByZero
	}

	sum := decimal.Sum(decimal.Zero, prices...)
	return sum.Div(decimal.NewFromInt(int64(len(prices)))).InexactFloat64(), nil
}
