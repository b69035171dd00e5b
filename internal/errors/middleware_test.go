package errors

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{method, route, status})
}

func TestErrorMiddleware_LogsAndRecords(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	recorder := &fakeRecorder{}
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger, recorder)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Post("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/items/7", strings.NewReader("Visit ID,Claim Units\nV-secret,3\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, recorder.seen, 1)
	assert.Equal(t, recordedRequest{http.MethodPost, "/api/items/{id}", http.StatusBadRequest}, recorder.seen[0])

	out := logs.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"request_bytes":`)
	assert.Contains(t, out, `"route":"/api/items/{id}"`)
	assert.NotContains(t, out, "V-secret")
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	logger := testLogger()
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger, nil)

	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeInternal)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(NewErrorHandler(testLogger(), true))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"panic":"boom"`)
}
