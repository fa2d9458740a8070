package generator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays a fixed sequence of draws, cycling when exhausted
type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

var asOf = domain.NewDate(2018, time.June, 21)

func TestGenerate_LengthAndConsecutiveDates(t *testing.T) {
	gen := NewSeeded(42)

	history := gen.Generate(decimal.RequireFromString("11.86"), asOf, DefaultDays)

	assert.Equal(t, DefaultDays, history.Len())

	dates := history.Dates()
	require.Len(t, dates, DefaultDays)
	assert.Equal(t, asOf, dates[0])
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDays(-1), dates[i], "dates must be consecutive")
	}

	assert.Equal(t, asOf.AddDays(-(DefaultDays - 1)), dates[len(dates)-1])
}

func TestGenerate_ChainsFromInitialPrice(t *testing.T) {
	// 0.75 -> +2.5%, 0.25 -> -2.5%
	gen := NewGenerator(&fixedSource{values: []float64{0.75, 0.25, 0.5}})

	history := gen.Generate(decimal.NewFromInt(10), asOf, 3)

	p0, ok := history.At(asOf)
	require.True(t, ok)
	assert.Equal(t, "10.25", p0.StringFixed(2)) // 10 * 1.025

	p1, ok := history.At(asOf.AddDays(-1))
	require.True(t, ok)
	assert.Equal(t, "10.00", p1.StringFixed(2)) // 10.25 * 0.975 = 9.99375 rounded up

	p2, ok := history.At(asOf.AddDays(-2))
	require.True(t, ok)
	assert.Equal(t, "10.00", p2.StringFixed(2)) // no move
}

func TestGenerate_PricesKeepTwoDecimals(t *testing.T) {
	gen := NewSeeded(7)

	history := gen.Generate(decimal.RequireFromString("3.33"), asOf, 200)

	for _, p := range history.Prices() {
		assert.True(t, p.Equal(p.Truncate(2)), "price %s has more than 2 decimals", p)
	}
}

func TestGenerate_MovesStayWithinFivePercent(t *testing.T) {
	gen := NewSeeded(99)

	history := gen.Generate(decimal.NewFromInt(1000), asOf, 500)

	// Walk from the oldest date towards asOf is the reverse of the recurrence
	prices := history.Prices()
	limit := decimal.RequireFromString("0.0501")
	prev := decimal.NewFromInt(1000)
	for i := 0; i < len(prices); i++ {
		cur := prices[i]
		change := cur.Sub(prev).Div(prev).Abs()
		assert.True(t, change.LessThan(limit), "step %d moved %s", i, change)
		prev = cur
	}
}

func TestGenerate_SameSeedSameHistory(t *testing.T) {
	a := NewSeeded(2018).Generate(decimal.NewFromInt(50), asOf, 100)
	b := NewSeeded(2018).Generate(decimal.NewFromInt(50), asOf, 100)

	assert.Equal(t, a.Prices(), b.Prices())
}

func TestGenerate_NonPositiveDays(t *testing.T) {
	gen := NewSeeded(1)

	assert.Equal(t, 0, gen.Generate(decimal.NewFromInt(10), asOf, 0).Len())
	assert.Equal(t, 0, gen.Generate(decimal.NewFromInt(10), asOf, -5).Len())
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.001", "10.01"},
		{"10.01", "10.01"},
		{"10.0000001", "10.01"},
		{"10", "10.00"},
		{"-10.001", "-10.00"},
		{"-10.019", "-10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := roundUp(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
