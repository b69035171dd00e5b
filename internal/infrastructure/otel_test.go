package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimrecon/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_MetricsEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := CreateReconcileMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, 250*time.Millisecond, 12, 3, nil)
	metrics.RecordRun(ctx, time.Second, 0, 0, context.DeadlineExceeded)
	metrics.RecordHTTPRequest(ctx, http.MethodPost, "/api/reconcile", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "reconcile_runs_total")
	assert.Contains(t, body, "reconcile_run_failures_total")
	assert.Contains(t, body, `error_kind="timeout"`)
	assert.Contains(t, body, "reconcile_rows_processed_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(OTelConfigFrom(config.TelemetryConfig{}), discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)

	metrics, err := CreateReconcileMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordRun(context.Background(), time.Second, 1, 0, nil)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestTraceIDFromContext(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test", EnableTracing: true, SampleRatio: 1}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "op")
	defer span.End()

	assert.Len(t, TraceIDFromContext(ctx), 32)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	RecordError(ctx, errors.New("boom"))
}

func TestRecordRun_NilMetrics(t *testing.T) {
	var m *ReconcileMetrics
	assert.NotPanics(t, func() {
		m.RecordRun(context.Background(), time.Second, 1, 1, nil)
		m.RecordHTTPRequest(context.Background(), http.MethodGet, "/", 200, time.Second)
	})
}
