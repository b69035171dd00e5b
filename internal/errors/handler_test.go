package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var errSheet = errors.New("sheet has no rows")

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "malformed input",
			err:        NewMalformedInputError("accepted file could not be read", errSheet),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMalformedInput,
		},
		{
			name:       "wrapped malformed input",
			err:        fmt.Errorf("run abc: %w", NewMalformedInputError("claim file could not be read", errSheet)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMalformedInput,
		},
		{
			name:       "validation",
			err:        NewAppValidationError("accepted upload is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "payload too large app error",
			err:        NewPayloadTooLargeError(1024, nil),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "max bytes reader",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("extract: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "export",
			err:        NewExportError("workbook could not be written", errors.New("disk")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
		},
		{
			name:       "api error",
			err:        ErrValidation("format", "must be one of xlsx csv"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/reconcile", problem.Instance)
		})
	}
}

func TestErrorToProblem_HidesInternalCause(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	problem := h.ErrorToProblem(NewExportError("workbook could not be written", errors.New("/tmp/secret path")), r)
	assert.NotContains(t, problem.Detail, "secret")

	problem = h.ErrorToProblem(NewMalformedInputError("claim file could not be read", errSheet), r)
	assert.Contains(t, problem.Detail, "sheet has no rows")
	assert.Equal(t, "MALFORMED_INPUT", problem.Extensions["error_type"])
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	var logs bytes.Buffer
	h := NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)), false)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-1"))
	h.HandleError(rec, r, NewMalformedInputError("accepted file could not be read", errSheet).
		WithContext("file", "accepted"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeMalformedInput, body["type"])
	assert.Equal(t, "accepted", body["file"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "trace_id")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestHandleError_Nil(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/reconcile", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestProblemDetails_StandardFieldsWin(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "detail", "/x").
		WithExtension("status", 999).
		WithExtension("field", "format")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "format", body["field"])
}

func TestAPIError_Respond(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "req")
	defer span.End()

	r := httptest.NewRequest(http.MethodGet, "/api/reconcile/export", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	ErrValidation("format", "must be one of: xlsx, csv").Respond(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	assert.Equal(t, span.SpanContext().TraceID().String(), body["trace_id"])
	assert.Contains(t, rec.Body.String(), `"field":"format"`)
}
