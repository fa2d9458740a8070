// Package app wires the instrument source, generator, registry and services
// from a configuration. It owns the one-time initialization of the process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simaogato/stockwalk/internal/adapter/repository/postgres"
	"github.com/simaogato/stockwalk/internal/adapter/source/csvfile"
	"github.com/simaogato/stockwalk/internal/config"
	"github.com/simaogato/stockwalk/internal/domain"
	"github.com/simaogato/stockwalk/internal/memo"
	"github.com/simaogato/stockwalk/internal/metrics"
	"github.com/simaogato/stockwalk/internal/usecase/average"
	"github.com/simaogato/stockwalk/internal/usecase/generator"
	"github.com/simaogato/stockwalk/internal/usecase/pricing"
	"github.com/simaogato/stockwalk/internal/usecase/registry"
	"github.com/simaogato/stockwalk/internal/usecase/report"
)

// App holds the fully built, read-only services
type App struct {
	Registry *registry.Registry
	Pricing  *pricing.PricingService
	Average  *average.AverageService
	Report   *report.ReportService

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	closers []func() error
}

// Options overrides the parts of the wiring tests need to control
type Options struct {
	// Source replaces the configured instrument source
	Source domain.InstrumentSource

	// AsOf replaces today's date as the newest history day
	AsOf domain.Date

	// Registerer receives the metrics; a fresh registry is used when nil
	// When it cannot also gather, the metrics endpoint serves prometheus.DefaultGatherer
	Registerer prometheus.Registerer
}

// New loads the instruments, generates every history and builds the services
// Any load error is terminal for the run
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{}

	reg := opts.Registerer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, a.Gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		a.Gatherer = g
	} else {
		a.Gatherer = prometheus.DefaultGatherer
	}
	a.Metrics = metrics.NewMetrics(reg)

	source := opts.Source
	if source == nil {
		var err error
		if source, err = a.openSource(ctx, cfg.Source); err != nil {
			return nil, err
		}
	}

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = domain.Today()
	}

	gen := generator.New()
	if cfg.History.Seed != 0 {
		gen = generator.NewSeeded(cfg.History.Seed)
	}

	start := time.Now()
	r, err := registry.Load(ctx, source, gen, asOf, cfg.History.Days)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Metrics.ObserveLoad(r.Len(), r.Points(), time.Since(start))
	a.Registry = r

	a.Pricing = pricing.NewPricingService(r, pricing.Config{
		ReferenceCode: cfg.Pricing.ReferenceCode,
		PriceLatency:  cfg.Pricing.PriceLatency,
		SeriesLatency: cfg.Pricing.SeriesLatency,
	}, memo.WithRecorder(a.Metrics))
	a.Average = average.NewAverageService(a.Pricing)
	a.Report = report.NewReportService(r, a.Average)

	slog.Info("initialization complete",
		"instruments", r.Len(),
		"days", cfg.History.Days,
		"as_of", asOf.String(),
		"took", time.Since(start),
	)
	return a, nil
}

// Close releases the resources opened for the source
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) openSource(ctx context.Context, cfg config.SourceConfig) (domain.InstrumentSource, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewInstrumentRepository(db), nil
	case config.DriverCSV:
		return csvfile.NewSource(cfg.Path, csvfile.Options{
			Encoding:      cfg.Encoding,
			SkipHeader:    cfg.SkipHeader,
			SkipMalformed: cfg.SkipMalformed,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}
