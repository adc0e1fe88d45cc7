package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidreport/internal/services"
	"covidreport/internal/watcher"
)

type stubMonitor struct {
	status watcher.Status
}

func (s stubMonitor) Status() watcher.Status { return s.status }

func newHealthRouter(monitor services.DatasetMonitor) http.Handler {
	logger := discardLogger()
	h := NewHealthHandler(services.NewHealthService("1.2.3", "", "file", monitor, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_Endpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		monitor    services.DatasetMonitor
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{"health", "/api/health", nil, http.StatusOK, "status", "ok"},
		{"live", "/api/health/live", nil, http.StatusOK, "status", "alive"},
		{"version", "/api/version", nil, http.StatusOK, "version", "1.2.3"},
		{"ready without probe", "/api/health/ready", nil, http.StatusOK, "status", "ready"},
		{
			name:       "ready after good probe",
			path:       "/api/health/ready",
			monitor:    stubMonitor{watcher.Status{Source: "file", Healthy: true, Probed: true, Columns: 11}},
			wantStatus: http.StatusOK,
			wantField:  "status",
			wantValue:  "ready",
		},
		{
			name:       "not ready after failed probe",
			path:       "/api/health/ready",
			monitor:    stubMonitor{watcher.Status{Source: "file", Healthy: false, Probed: true, LastError: "missing column cases"}},
			wantStatus: http.StatusServiceUnavailable,
			wantField:  "status",
			wantValue:  "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthRouter(tt.monitor).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValue, body[tt.wantField])
		})
	}
}

func TestHealthHandler_ReadinessDetails(t *testing.T) {
	monitor := stubMonitor{watcher.Status{Source: "azblob", Healthy: false, Probed: true, LastError: "blob not found"}}

	rec := httptest.NewRecorder()
	newHealthRouter(monitor).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	var body services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Services, "dataset")

	dataset := body.Services["dataset"]
	assert.Equal(t, "not_ready", dataset.Status)
	assert.Contains(t, dataset.Message, "blob not found")
	require.NotNil(t, dataset.Details)
	assert.Equal(t, "azblob", dataset.Details.Source)
}
