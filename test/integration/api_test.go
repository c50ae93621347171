package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/stripplan/internal/application"
	"github.com/eugenenazirov/stripplan/internal/config"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:                "0",
		ShutdownGracePeriod: time.Second,
		ReadHeaderTimeout:   time.Second,
		WriteTimeout:        time.Second,
		IdleTimeout:         time.Second,
		EnableMetrics:       true,
		LogLevel:            "debug",
		RollLength:          10,
		Catalog:             []float64{30, 60, 100, 150, 240, 320},
		WattsPerMeter:       10,
		SafetyFactorPercent: 20,
		SourceMode:          config.ModeGrouped,
	}
	app, err := application.New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestIntegrationFlow(t *testing.T) {
	srv := newServer(t)

	resp, _ := call(t, srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPut, "/api/catalog", map[string]any{"capacities": []float64{100, 60}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := call(t, srv, http.MethodPost, "/api/plans/cutting", map[string]any{
		"orders": []map[string]any{{"unitSize": 2, "count": 3}, {"unitSize": 3, "count": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var cutting struct {
		Bins []struct {
			Pieces []float64 `json:"pieces"`
		} `json:"bins"`
		Statistics struct {
			Bins           int     `json:"bins"`
			WastedCapacity float64 `json:"wastedCapacity"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(data, &cutting))
	require.Len(t, cutting.Bins, 1)
	assert.Equal(t, []float64{3, 2, 2, 2}, cutting.Bins[0].Pieces)
	assert.InDelta(t, 1.0, cutting.Statistics.WastedCapacity, 1e-9)

	resp, data = call(t, srv, http.MethodPost, "/api/plans/sources", map[string]any{
		"orders": []map[string]any{{"unitSize": 3, "count": 2}, {"unitSize": 1, "count": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var sources struct {
		Mode    string    `json:"mode"`
		Catalog []float64 `json:"catalog"`
		Counts  []struct {
			Capacity float64 `json:"capacity"`
			Count    int     `json:"count"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(data, &sources))
	assert.Equal(t, "grouped", sources.Mode)
	assert.Equal(t, []float64{60, 100}, sources.Catalog)
	require.Len(t, sources.Counts, 1)
	assert.Equal(t, 60.0, sources.Counts[0].Capacity)
	assert.Equal(t, 2, sources.Counts[0].Count)

	resp, data = call(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(data)
	assert.True(t, strings.Contains(text, `stripplan_plans_total{mode="cutting",outcome="ok"} 1`), text)
	assert.True(t, strings.Contains(text, `stripplan_plans_total{mode="grouped",outcome="ok"} 1`), text)
}

func TestIntegrationRejectsOversizedPiece(t *testing.T) {
	srv := newServer(t)

	resp, data := call(t, srv, http.MethodPost, "/api/plans/cutting", map[string]any{
		"orders":     []map[string]any{{"unitSize": 12, "count": 1}, {"unitSize": 11, "count": 2}},
		"rollLength": 10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Contains(t, body.Details, "12, 11")
}
