package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"claimrecon/internal/dataprocessing"
	apierrors "claimrecon/internal/errors"
	"claimrecon/internal/exporter"
	"claimrecon/internal/middleware"
	"claimrecon/pkg/contracts/domain"
)

// MockReconcileService is a mock implementation of ReconcileServiceInterface
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) Run(ctx context.Context, accepted, claim dataprocessing.Source) (*domain.Result, error) {
	args := m.Called(accepted.Name, claim.Name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResult() *domain.Result {
	headers := []string{"Payer Name", "Billable Units"}
	row := domain.DataRow{Values: domain.Row{
		domain.StringCell("Medicaid Plan"),
		domain.NumberCell(decimal.NewFromInt(3), ""),
	}}
	return &domain.Result{
		RunID: "5b0c3a6e-1111-2222-3333-444455556666",
		Tabs: []domain.Tab{
			{ID: domain.TabAccepted, Title: domain.TitleAccepted, Headers: headers, Rows: []domain.ReportLine{row}},
			{ID: domain.TabClaim, Title: domain.TitleClaim, Headers: headers},
			{ID: domain.TabInvestigation, Title: domain.TitleInvestigation, Headers: headers, Rows: []domain.ReportLine{
				domain.GroupHeader{Group: domain.GroupPayer, Label: "Medicaid Plan"},
				row,
			}},
		},
		Summary: domain.RunSummary{AcceptedRows: 1, ReviewRows: 1, InvestigationRows: 1, GroupHeaders: 1},
	}
}

func newTestRouter(svc ReconcileServiceInterface, maxBytes int64) chi.Router {
	logger := testLogger()
	h := NewReconcileHandler(svc, exporter.NewExporter(logger), middleware.NewValidator(logger),
		maxBytes, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/reconcile", h.Routes())
	return r
}

// multipartBody builds a form with the given file fields
func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validFiles() map[string][2]string {
	return map[string][2]string{
		FieldAccepted: {"accepted.csv", "Payer Name\nMedicaid Plan\n"},
		FieldClaim:    {"claims.csv", "Visit ID\nV1\n"},
	}
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestReconcileHandler_Reconcile(t *testing.T) {
	svc := new(MockReconcileService)
	svc.On("Run", "accepted.csv", "claims.csv").Return(sampleResult(), nil)

	body, contentType := multipartBody(t, validFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(svc, 1<<20).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, sampleResult().RunID, rec.Header().Get("X-Run-ID"))

	var resp struct {
		Status  string `json:"status"`
		RunID   string `json:"run_id"`
		Summary struct {
			ReviewRows int `json:"review_rows"`
		} `json:"summary"`
		Tabs []struct {
			ID   string            `json:"id"`
			Rows []json.RawMessage `json:"rows"`
		} `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Tabs, 3)
	assert.Equal(t, domain.TabInvestigation, resp.Tabs[2].ID)
	assert.JSONEq(t, `{"type":"group_header","group":"payer","label":"Medicaid Plan"}`, string(resp.Tabs[2].Rows[0]))
	assert.JSONEq(t, `{"type":"data","cells":["Medicaid Plan",3]}`, string(resp.Tabs[2].Rows[1]))
	svc.AssertExpectations(t)
}

func TestReconcileHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string][2]string
		serviceErr error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing claim file",
			files:      map[string][2]string{FieldAccepted: {"accepted.csv", "a"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong extension",
			files: map[string][2]string{
				FieldAccepted: {"accepted.pdf", "a"},
				FieldClaim:    {"claims.csv", "b"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed spreadsheet",
			files:      validFiles(),
			serviceErr: apierrors.NewMalformedInputError("could not read spreadsheet", dataprocessing.ErrMalformedInput),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeMalformedInput,
		},
		{
			name:       "run timeout",
			files:      validFiles(),
			serviceErr: apierrors.NewTimeoutError("reconciliation run timed out", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   apierrors.TypeTimeout,
		},
		{
			name:       "unexpected failure",
			files:      validFiles(),
			serviceErr: errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReconcileService)
			if tt.serviceErr != nil {
				svc.On("Run", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			body, contentType := multipartBody(t, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/api/reconcile/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			newTestRouter(svc, 1<<20).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			problem := decodeProblem(t, rec)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, problem["type"])
			}
			if tt.serviceErr == nil {
				svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReconcileHandler_PayloadTooLarge(t *testing.T) {
	svc := new(MockReconcileService)

	files := validFiles()
	files[FieldAccepted] = [2]string{"accepted.csv", strings.Repeat("x", 4096)}
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(svc, 1024).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, apierrors.TypePayloadTooLarge, decodeProblem(t, rec)["type"])
	svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestReconcileHandler_WrongContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(new(MockReconcileService), 1<<20).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReconcileHandler_Export(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		wantStatus      int
		wantContentType string
		wantFilename    string
	}{
		{
			name:            "workbook by default",
			query:           "",
			wantStatus:      http.StatusOK,
			wantContentType: exporter.FormatXLSX.ContentType(),
			wantFilename:    "reconciliation_5b0c3a6e.xlsx",
		},
		{
			name:            "single tab csv",
			query:           "?format=csv&tab=investigation",
			wantStatus:      http.StatusOK,
			wantContentType: exporter.FormatCSV.ContentType(),
			wantFilename:    "reconciliation_5b0c3a6e_investigation.csv",
		},
		{
			name:       "csv without tab",
			query:      "?format=csv",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown format",
			query:      "?format=pdf",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown tab",
			query:      "?format=xlsx&tab=summary",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReconcileService)
			svc.On("Run", "accepted.csv", "claims.csv").Return(sampleResult(), nil)

			body, contentType := multipartBody(t, validFiles())
			req := httptest.NewRequest(http.MethodPost, "/api/reconcile/export"+tt.query, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			newTestRouter(svc, 1<<20).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
				return
			}
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.wantFilename)
		})
	}
}

func TestReconcileHandler_ExportWorkbookSheets(t *testing.T) {
	svc := new(MockReconcileService)
	svc.On("Run", "accepted.csv", "claims.csv").Return(sampleResult(), nil)

	body, contentType := multipartBody(t, validFiles())
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile/export?format=xlsx", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(svc, 1<<20).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{domain.TitleAccepted, domain.TitleClaim, domain.TitleInvestigation}, f.GetSheetList())
}
