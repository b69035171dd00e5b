package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"claimrecon/internal/dataprocessing"
	apperrors "claimrecon/internal/errors"
	"claimrecon/internal/infrastructure"
	"claimrecon/internal/validation"
	"claimrecon/pkg/contracts/domain"
)

// ReconcileService runs the reconciliation pipeline over a pair of uploads.
// Runs share no state; each call extracts, reconciles and returns its own
// result.
type ReconcileService struct {
	extractor  *dataprocessing.Extractor
	validator  *validation.FileValidator
	metrics    *infrastructure.ReconcileMetrics
	tracer     trace.Tracer
	runTimeout time.Duration
	maxBytes   int64
	logger     *slog.Logger
	active     atomic.Int64
}

// ReconcileOption configures a ReconcileService
type ReconcileOption func(*ReconcileService)

// WithMetrics records run counters and durations
func WithMetrics(m *infrastructure.ReconcileMetrics) ReconcileOption {
	return func(s *ReconcileService) { s.metrics = m }
}

// WithTracer sets the tracer used for run and stage spans
func WithTracer(t trace.Tracer) ReconcileOption {
	return func(s *ReconcileService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithRunTimeout bounds each run. Zero disables the bound.
func WithRunTimeout(d time.Duration) ReconcileOption {
	return func(s *ReconcileService) { s.runTimeout = d }
}

// NewReconcileService creates a reconcile service. validator may be nil,
// in which case uploads go straight to the extractor.
func NewReconcileService(validator *validation.FileValidator, logger *slog.Logger, opts ...ReconcileOption) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ReconcileService{
		validator: validator,
		tracer:    tracenoop.NewTracerProvider().Tracer("claimrecon/services"),
		logger:    logger.With(slog.String("service", "reconcile")),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.extractor = dataprocessing.NewExtractor(s.logger)
	if validator != nil {
		s.maxBytes = validator.MaxBytes()
	}
	return s
}

// ActiveRuns returns the number of runs in progress
func (s *ReconcileService) ActiveRuns() int64 {
	return s.active.Load()
}

// Run extracts both uploads concurrently, then reconciles them. Extraction
// failures cancel the sibling extraction. The returned error is an
// *apperrors.AppError for every failure the caller can act on.
func (s *ReconcileService) Run(ctx context.Context, accepted, claim dataprocessing.Source) (result *domain.Result, err error) {
	start := time.Now()
	runID := uuid.New().String()

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "reconcile.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("accepted.file", accepted.Name),
			attribute.String("claim.file", claim.Name),
		))
	defer span.End()

	logger := s.logger.With(slog.String("run_id", runID))
	s.trackActive(ctx, 1)
	defer s.trackActive(ctx, -1)

	defer func() {
		rows, review := 0, 0
		if result != nil {
			rows = result.Summary.AcceptedRows + result.Summary.ClaimRows
			review = result.Summary.ReviewRows
		}
		s.metrics.RecordRun(ctx, time.Since(start), rows, review, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			logger.WarnContext(ctx, "Reconciliation failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)))
		}
	}()

	if err := s.validate(accepted, claim); err != nil {
		return nil, err
	}

	acceptedDS, claimDS, err := s.extractBoth(ctx, accepted, claim)
	if err != nil {
		return nil, s.mapError(err)
	}

	// Last cancellation point: the stages below run to completion.
	if err := ctx.Err(); err != nil {
		return nil, s.mapError(err)
	}

	_, stageSpan := s.tracer.Start(ctx, "reconcile.stages")
	rec := dataprocessing.Reconcile(acceptedDS, claimDS)
	stageSpan.End()

	result = &domain.Result{
		RunID:   runID,
		Tabs:    rec.Tabs(),
		Summary: rec.Summary,
	}
	result.Summary.ProcessingTime = time.Since(start)

	span.SetAttributes(
		attribute.Int("rows.accepted", result.Summary.AcceptedRows),
		attribute.Int("rows.claim", result.Summary.ClaimRows),
		attribute.Int("rows.review", result.Summary.ReviewRows),
	)
	logger.InfoContext(ctx, "Reconciliation completed",
		slog.Int("accepted_rows", result.Summary.AcceptedRows),
		slog.Int("claim_rows", result.Summary.ClaimRows),
		slog.Int("groups", result.Summary.Groups),
		slog.Int("review_rows", result.Summary.ReviewRows),
		slog.Int("investigation_rows", result.Summary.InvestigationRows),
		slog.Duration("duration", result.Summary.ProcessingTime))

	return result, nil
}

func (s *ReconcileService) extractBoth(ctx context.Context, accepted, claim dataprocessing.Source) (*domain.Dataset, *domain.Dataset, error) {
	var acceptedDS, claimDS *domain.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, span := s.tracer.Start(gctx, "reconcile.extract.accepted")
		defer span.End()
		ds, err := s.extractor.Extract(ctx, accepted, dataprocessing.AcceptedColumns)
		if err != nil {
			return fmt.Errorf("accepted visits: %w", err)
		}
		acceptedDS = ds
		return nil
	})
	g.Go(func() error {
		ctx, span := s.tracer.Start(gctx, "reconcile.extract.claim")
		defer span.End()
		ds, err := s.extractor.Extract(ctx, claim, dataprocessing.ClaimColumns)
		if err != nil {
			return fmt.Errorf("claim search: %w", err)
		}
		claimDS = ds
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return acceptedDS, claimDS, nil
}

func (s *ReconcileService) validate(accepted, claim dataprocessing.Source) error {
	if accepted.Name == "" && len(accepted.Data) == 0 {
		return apperrors.NewAppValidationError(ErrMissingInput.Error())
	}
	if claim.Name == "" && len(claim.Data) == 0 {
		return apperrors.NewAppValidationError(ErrMissingInput.Error())
	}
	if s.validator == nil {
		return nil
	}
	for _, src := range []dataprocessing.Source{accepted, claim} {
		if err := s.validator.ValidateUpload(src.Name, src.Data); err != nil {
			return s.mapError(err)
		}
	}
	return nil
}

// mapError converts pipeline and validation failures into AppErrors.
func (s *ReconcileService) mapError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("reconciliation run timed out", err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, dataprocessing.ErrMalformedInput),
		errors.Is(err, validation.ErrEmptyFile),
		errors.Is(err, validation.ErrSignatureMismatch):
		return apperrors.NewMalformedInputError("could not read spreadsheet", err)
	case errors.Is(err, validation.ErrFileTooLarge):
		return apperrors.NewPayloadTooLargeError(s.maxBytes, err)
	case errors.Is(err, validation.ErrUnsupportedExtension),
		errors.Is(err, validation.ErrTemporaryFile):
		return apperrors.NewAppValidationError(err.Error())
	default:
		return err
	}
}

func (s *ReconcileService) trackActive(ctx context.Context, delta int64) {
	s.active.Add(delta)
	if s.metrics != nil {
		s.metrics.ActiveRuns.Add(ctx, delta)
	}
}
