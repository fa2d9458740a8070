package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the price service.
type Metrics struct {
	CacheHits       *prometheus.CounterVec   // labels: cache
	CacheMisses     *prometheus.CounterVec   // labels: cache
	ComputeDuration *prometheus.HistogramVec // labels: cache

	InstrumentsLoaded prometheus.Gauge
	HistoryPoints     prometheus.Gauge
	LoadDuration      prometheus.Histogram
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwalk_cache_hits_total",
			Help: "Memoized lookups answered from the cache",
		}, []string{"cache"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwalk_cache_misses_total",
			Help: "Memoized lookups that ran the backing computation",
		}, []string{"cache"}),
		ComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockwalk_cache_compute_seconds",
			Help:    "Duration of backing computations on cache miss",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"cache"}),
		InstrumentsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockwalk_instruments_loaded",
			Help: "Instruments held by the registry",
		}),
		HistoryPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockwalk_history_points",
			Help: "Generated closing prices across all instruments",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockwalk_load_seconds",
			Help:    "Time spent reading the source and generating histories",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.ComputeDuration,
		m.InstrumentsLoaded,
		m.HistoryPoints,
		m.LoadDuration,
	)

	return m
}

// CacheHit implements memo.Recorder.
func (m *Metrics) CacheHit(cache string) { m.CacheHits.WithLabelValues(cache).Inc() }

// CacheMiss implements memo.Recorder.
func (m *Metrics) CacheMiss(cache string) { m.CacheMisses.WithLabelValues(cache).Inc() }

// ObserveCompute implements memo.Recorder.
func (m *Metrics) ObserveCompute(cache string, d time.Duration) {
	m.ComputeDuration.WithLabelValues(cache).Observe(d.Seconds())
}

// ObserveLoad records the outcome of the startup load.
func (m *Metrics) ObserveLoad(instruments, points int, d time.Duration) {
	m.InstrumentsLoaded.Set(float64(instruments))
	m.HistoryPoints.Set(float64(points))
	m.LoadDuration.Observe(d.Seconds())
}

// HealthStatus represents the service health.
type HealthStatus struct {
	mu sync.RWMutex

	Ready       bool      `json:"ready"`
	Instruments int       `json:"instruments"`
	LoadedAt    time.Time `json:"loaded_at"`
	StartedAt   time.Time `json:"started_at"`
}

// NewHealthStatus creates a HealthStatus that is not ready yet.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

// SetLoaded marks the registry as built.
func (h *HealthStatus) SetLoaded(instruments int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Ready = true
	h.Instruments = instruments
	h.LoadedAt = time.Now()
}

// ServeHTTP answers 200 once loaded and 503 before.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !h.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(h)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, gatherer prometheus.Gatherer, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("metrics server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
