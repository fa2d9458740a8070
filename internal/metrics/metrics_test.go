package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CacheEvents(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.CacheMiss("closing_price")
	m.CacheHit("closing_price")
	m.CacheHit("closing_price")
	m.CacheMiss("closing_prices")
	m.ObserveCompute("closing_price", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("closing_price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("closing_price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("closing_prices")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("closing_prices")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ComputeDuration))
}

func TestMetrics_ObserveLoad(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveLoad(3, 3*3650, 120*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.InstrumentsLoaded))
	assert.Equal(t, 10950.0, testutil.ToFloat64(m.HistoryPoints))
}

func TestServer_Endpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.CacheHit("closing_price")
	health := NewHealthStatus()
	srv := NewServer(":0", reg, health)

	// Not loaded yet
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	health.SetLoaded(2)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, 2.0, body["instruments"])

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `stockwalk_cache_hits_total{cache="closing_price"} 1`))
}
