package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceHistory is a read-only mapping from calendar day to closing price
type PriceHistory struct {
	prices map[Date]decimal.Decimal
}

// NewPriceHistory wraps a copy of prices
func NewPriceHistory(prices map[Date]decimal.Decimal) PriceHistory {
	cp := make(map[Date]decimal.Decimal, len(prices))
	for d, p := range prices {
		cp[d] = p
	}
	return PriceHistory{prices: cp}
}

// Len returns the number of days in the history
func (h PriceHistory) Len() int { return len(h.prices) }

// At returns the closing price on date, if any
func (h PriceHistory) At(date Date) (decimal.Decimal, bool) {
	p, ok := h.prices[date]
	return p, ok
}

// Dates returns every date of the history, newest first
func (h PriceHistory) Dates() []Date {
	dates := make([]Date, 0, len(h.prices))
	for d := range h.prices {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// Prices returns every closing price, newest first
func (h PriceHistory) Prices() []decimal.Decimal {
	dates := h.Dates()
	prices := make([]decimal.Decimal, len(dates))
	for i, d := range dates {
		prices[i] = h.prices[d]
	}
	return prices
}
