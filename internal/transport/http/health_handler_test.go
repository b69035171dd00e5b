package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimrecon/internal/services"
)

type staticRuns int64

func (s staticRuns) ActiveRuns() int64 { return int64(s) }

func TestHealthHandler_Endpoints(t *testing.T) {
	logger := testLogger()
	h := NewHealthHandler(services.NewHealthService("v1.0.0-test", staticRuns(0), logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)

	tests := []struct {
		path       string
		wantStatus string
		field      string
	}{
		{"/api/health", "ok", "status"},
		{"/api/health/live", "alive", "status"},
		{"/api/health/ready", "ready", "status"},
		{"/api/version", "v1.0.0-test", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body[tt.field])
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	logger := testLogger()
	h := NewHealthHandler(services.NewHealthService("dev", nil, logger), logger)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
