package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/config"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/pipeline"
)

type staticLoader struct {
	ds    *pipeline.Dataset
	calls int
}

func (l *staticLoader) Load(ctx context.Context) *pipeline.Dataset {
	l.calls++
	return l.ds
}

func f(v float64) *float64 {
	return &v
}

func testSeries() models.UnifiedSeries {
	d := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return models.UnifiedSeries{Readings: []models.UnifiedReading{
		{Timestamp: d.Add(9 * time.Hour), EC: f(1.2), PH: f(6.5), Runtime: [models.Channels]float64{30, 0, 0, 2}},
		{Timestamp: d.Add(17 * time.Hour), EC: f(1.6), PH: f(6.9), Runtime: [models.Channels]float64{45, 0, 0, 3}},
		{Timestamp: d.Add(33 * time.Hour), EC: f(1.1), PH: f(6.1), Runtime: [models.Channels]float64{10, 0, 0, 0}},
		{Timestamp: time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC), EC: f(2), PH: f(7), Runtime: [models.Channels]float64{60, 0, 0, 0}},
	}}
}

func newTestServer(t *testing.T, token string, loader DatasetLoader) *Server {
	t.Helper()
	cfg := config.Config{
		Port:           8080,
		BearerToken:    token,
		DefaultMetrics: models.NewMetricSet(models.MetricEC, models.MetricPH),
	}
	return New(cfg, pipeline.NewHolder(pipeline.NewDataset(testSeries())), loader)
}

func do(t *testing.T, s *Server, method, target string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestDashboardMarch(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard?month=3&metrics=EC,PH", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	data := body["data"].(map[string]any)
	agg := data["aggregate"].(map[string]any)
	assert.Equal(t, []any{55.0, 0.0, 0.0, 3.0}, agg["runtime_minutes"])
	assert.Equal(t, 232.0, agg["flow_liters_total"])

	display := data["display"].(map[string]any)
	channels := display["channels"].([]any)
	require.Len(t, channels, 4)
	assert.Equal(t, "0h 55m", channels[0].(map[string]any)["runtime"])
	assert.Equal(t, "220.00", channels[0].(map[string]any)["flow_liters"])
	assert.Equal(t, "0h 58m", display["runtime_total"])

	chart := data["chart"].(map[string]any)
	assert.Len(t, chart["points"], 6)
	assert.Len(t, chart["annotations"], 4)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, false, meta["empty"])
	assert.Equal(t, 3.0, meta["month"])
}

func TestDashboardEmptyMonth(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard?month=11", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, 0.0, data["aggregate"].(map[string]any)["runtime_minutes_total"])
	assert.Empty(t, data["chart"].(map[string]any)["points"])
	assert.Equal(t, true, body["meta"].(map[string]any)["empty"])
}

func TestDashboardBadInput(t *testing.T) {
	s := newTestServer(t, "", nil)
	for _, target := range []string{
		"/api/v1/dashboard?month=abc",
		"/api/v1/dashboard?month=0",
		"/api/v1/dashboard?month=13",
		"/api/v1/dashboard/series?metrics=EC,ORP",
	} {
		rec, body := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestSeriesVisibility(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard/series?metrics=PH", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	points := data["points"].([]any)
	assert.Len(t, points, 8)
	for _, p := range points {
		point := p.(map[string]any)
		assert.Equal(t, point["metric"] == "PH", point["visible"])
	}

	annotations := data["annotations"].([]any)
	require.Len(t, annotations, 2)
	for _, a := range annotations {
		assert.Equal(t, "PH", a.(map[string]any)["metric"])
	}
}

func TestSeriesNoMetrics(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard/series?metrics=", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Len(t, data["points"], 8)
	assert.Empty(t, data["annotations"])
}

func TestSummary(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, 118.0, data["aggregate"].(map[string]any)["runtime_minutes_total"])
	assert.Equal(t, "1h 58m", data["display"].(map[string]any)["runtime_total"])
	assert.NotContains(t, data, "chart")
}

func TestMonths(t *testing.T) {
	rec, body := do(t, newTestServer(t, "", nil), http.MethodGet, "/api/v1/dashboard/months", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	options := body["data"].([]any)
	require.Len(t, options, 2)
	assert.Equal(t, 3.0, options[0].(map[string]any)["value"])
	assert.Equal(t, "Mês 4", options[1].(map[string]any)["label"])
}

func TestReload(t *testing.T) {
	loader := &staticLoader{ds: pipeline.NewDataset(models.UnifiedSeries{})}
	s := newTestServer(t, "", loader)

	rec, body := do(t, s, http.MethodPost, "/api/v1/dashboard/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 0.0, body["data"].(map[string]any)["readings"])

	_, months := do(t, s, http.MethodGet, "/api/v1/dashboard/months", nil)
	assert.Empty(t, months["data"], "reloaded empty dataset has no months")
}

func TestReloadNotConfigured(t *testing.T) {
	rec, _ := do(t, newTestServer(t, "", nil), http.MethodPost, "/api/v1/dashboard/reload", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t, "secret", nil)

	rec, _ := do(t, s, http.MethodGet, "/api/v1/dashboard/months", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/dashboard/months", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/dashboard/months", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec, _ := do(t, newTestServer(t, "", nil), http.MethodOptions, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
