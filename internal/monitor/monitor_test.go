package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklab/newsdigest/internal/metrics"
)

func get(t *testing.T, m *metrics.Metrics, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewRouter(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthOK(t *testing.T) {
	rec, body := get(t, metrics.New(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthAfterError(t *testing.T) {
	m := metrics.New()
	m.SetError("telegram down")

	rec, body := get(t, m, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "telegram down", body["last_error"])
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	m.AddEntriesFetched(7)
	m.AddRejected("stale", 2)

	rec, body := get(t, m, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, body["entries_fetched"])
	assert.Equal(t, map[string]any{"stale": float64(2)}, body["rejected"])
}
