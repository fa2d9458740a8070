package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
	"github.com/simaogato/stockwalk/internal/memo"
)

const (
	// DefaultReferenceCode is the instrument ClosingPriceOn answers for
	DefaultReferenceCode = "0267.HK"

	// DefaultPriceLatency emulates the cost of resolving one closing price
	DefaultPriceLatency = 5 * time.Millisecond

	// DefaultSeriesLatency emulates the cost of assembling a full price series
	DefaultSeriesLatency = 400 * time.Millisecond
)

// Cache names, as reported to the memo recorder
const (
	closingPriceCache  = "closing_price"
	closingPricesCache = "closing_prices"
)

// Config holds the tunables of the pricing service
type Config struct {
	ReferenceCode string
	PriceLatency  time.Duration
	SeriesLatency time.Duration
}

// PricingService serves closing prices from the registry through per-key memo caches
type PricingService struct {
	Registry domain.StockRegistry
	Config   Config

	closingPrice  *memo.Cache[domain.Date, decimal.Decimal]
	closingPrices *memo.Cache[string, []decimal.Decimal]
}

// NewPricingService creates a new PricingService instance
func NewPricingService(registry domain.StockRegistry, cfg Config, opts ...memo.Option) *PricingService {
	s := &PricingService{
		Registry: registry,
		Config:   cfg,
	}
	s.closingPrice = memo.New(closingPriceCache, s.resolveClosingPrice, opts...)
	s.closingPrices = memo.New(closingPricesCache, s.resolveClosingPrices, opts...)
	return s
}

// ClosingPriceOn returns the reference instrument's closing price on date
// Logic: the first call for a date pays PriceLatency; later calls for the same date are served from the cache
func (s *PricingService) ClosingPriceOn(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
	return s.closingPrice.Get(date)
}

// ClosingPricesFor returns every closing price of code, newest first
// Logic: the first call for a code pays SeriesLatency; later calls for the same code are served from the cache
func (s *PricingService) ClosingPricesFor(ctx context.Context, code string) ([]decimal.Decimal, error) {
	prices, err := s.closingPrices.Get(code)
	if err != nil {
		return nil, err
	}

	// Hand out a copy so callers cannot alter the cached series
	out := make([]decimal.Decimal, len(prices))
	copy(out, prices)
	return out, nil
}

// CachedDates returns the number of memoized dates
func (s *PricingService) CachedDates() int { return s.closingPrice.Len() }

// CachedSeries returns the number of memoized series
func (s *PricingService) CachedSeries() int { return s.closingPrices.Len() }

func (s *PricingService) resolveClosingPrice(date domain.Date) (decimal.Decimal, error) {
	time.Sleep(s.Config.PriceLatency)
	return s.Registry.ClosingPrice(s.Config.ReferenceCode, date)
}

func (s *PricingService) resolveClosingPrices(code string) ([]decimal.Decimal, error) {
	time.Sleep(s.Config.SeriesLatency)

	rec, err := s.Registry.FindByCode(code)
	if err != nil {
		return nil, err
	}
	return rec.History.Prices(), nil
}
