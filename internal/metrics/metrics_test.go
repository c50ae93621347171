package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/stripplan/internal/packing"
)

func TestObservePlan(t *testing.T) {
	m := New()

	m.ObservePlan("grouped", packing.Statistics{Bins: 3, OverloadedBins: 2}, time.Millisecond)
	m.ObservePlan("grouped", packing.Statistics{Bins: 1}, time.Millisecond)
	m.ObserveFailure("cutting")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.plansTotal.WithLabelValues("grouped", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.plansTotal.WithLabelValues("cutting", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.overloadedBins.WithLabelValues("grouped")))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/api/plans/cutting", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodPost, "/api/plans/cutting", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePlan("grouped", packing.Statistics{Bins: 1}, time.Millisecond)
		m.ObserveFailure("grouped")
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObservePlan("individual", packing.Statistics{Bins: 2}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "stripplan_plans_total"), "missing plans counter")
	assert.True(t, strings.Contains(body, "go_goroutines"), "missing runtime collector")
}
