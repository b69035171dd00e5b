package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"claimrecon/internal/dataprocessing"
	apierrors "claimrecon/internal/errors"
	"claimrecon/internal/exporter"
	"claimrecon/internal/middleware"
	"claimrecon/pkg/contracts/domain"
)

// Multipart field names for the two uploads
const (
	FieldAccepted = "accepted"
	FieldClaim    = "claim"
)

// multipartOverhead covers boundaries and part headers on top of the files
const multipartOverhead = 1 << 20

// ReconcileHandler handles upload and export requests
type ReconcileHandler struct {
	service      ReconcileServiceInterface
	exporter     *exporter.Exporter
	validator    *middleware.Validator
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// UploadRequest names the two uploaded files
type UploadRequest struct {
	Accepted string `form:"accepted" validate:"required,spreadsheet"`
	Claim    string `form:"claim" validate:"required,spreadsheet"`
}

// ExportQuery selects the export format and, for CSV, the tab
type ExportQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=xlsx csv"`
	Tab    string `query:"tab" validate:"required_if=Format csv,omitempty,oneof=accepted claim investigation"`
}

// ReconcileResponse is the JSON body of a successful run
type ReconcileResponse struct {
	Status  string            `json:"status"`
	RunID   string            `json:"run_id"`
	Summary domain.RunSummary `json:"summary"`
	Tabs    []domain.Tab      `json:"tabs"`
}

// NewReconcileHandler creates a new reconcile handler. maxBytes bounds each
// uploaded file.
func NewReconcileHandler(service ReconcileServiceInterface, exp *exporter.Exporter, validator *middleware.Validator, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReconcileHandler {
	return &ReconcileHandler{
		service:      service,
		exporter:     exp,
		validator:    validator,
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "reconcile_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the reconcile routes
func (h *ReconcileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator("multipart/form-data"))

	r.Post("/", h.Reconcile)
	r.Post("/export", h.Export)

	return r
}

// Reconcile handles POST /api/reconcile
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	accepted, claim, err := h.readUploads(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), accepted, claim)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)
	render.JSON(w, r, ReconcileResponse{
		Status:  "success",
		RunID:   result.RunID,
		Summary: result.Summary,
		Tabs:    result.Tabs,
	})
}

// Export handles POST /api/reconcile/export?format=xlsx|csv&tab=...
func (h *ReconcileHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := ExportQuery{
		Format: r.URL.Query().Get("format"),
		Tab:    r.URL.Query().Get("tab"),
	}
	if err := h.validator.ValidateStruct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	accepted, claim, err := h.readUploads(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), accepted, claim)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tabs := result.Tabs
	if query.Tab != "" {
		tab := result.Tab(query.Tab)
		if tab == nil {
			h.errorHandler.HandleError(w, r, apierrors.NewNotFoundError("tab "+query.Tab))
			return
		}
		tabs = []domain.Tab{*tab}
	}

	data, err := h.exporter.Render(tabs, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewExportError("failed to render export", err))
		return
	}

	filename := exporter.FileName(result.RunID, query.Tab, format)
	h.logger.InfoContext(r.Context(), "Export rendered",
		slog.String("run_id", result.RunID),
		slog.String("format", string(format)),
		slog.String("tab", query.Tab),
		slog.Int("bytes", len(data)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readUploads parses the multipart body and reads both files into memory
func (h *ReconcileHandler) readUploads(w http.ResponseWriter, r *http.Request) (dataprocessing.Source, dataprocessing.Source, error) {
	var none dataprocessing.Source

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return none, none, h.uploadError(err)
	}
	defer r.MultipartForm.RemoveAll()

	acceptedFile, acceptedHeader, acceptedErr := r.FormFile(FieldAccepted)
	claimFile, claimHeader, claimErr := r.FormFile(FieldClaim)
	if acceptedFile != nil {
		defer acceptedFile.Close()
	}
	if claimFile != nil {
		defer claimFile.Close()
	}

	req := UploadRequest{}
	if acceptedErr == nil {
		req.Accepted = acceptedHeader.Filename
	}
	if claimErr == nil {
		req.Claim = claimHeader.Filename
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return none, none, err
	}

	accepted, err := h.readPart(acceptedFile, acceptedHeader)
	if err != nil {
		return none, none, err
	}
	claim, err := h.readPart(claimFile, claimHeader)
	if err != nil {
		return none, none, err
	}
	return accepted, claim, nil
}

func (h *ReconcileHandler) readPart(file multipart.File, header *multipart.FileHeader) (dataprocessing.Source, error) {
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return dataprocessing.Source{}, apierrors.NewPayloadTooLargeError(h.maxBytes, nil).
			WithContext("file", header.Filename)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return dataprocessing.Source{}, h.uploadError(err)
	}
	return dataprocessing.Source{Name: header.Filename, Data: data}, nil
}

func (h *ReconcileHandler) uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apierrors.NewPayloadTooLargeError(h.maxBytes, err)
	}
	return apierrors.InvalidRequestWithError(err)
}
