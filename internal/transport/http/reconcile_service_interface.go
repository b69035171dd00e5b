package http

import (
	"context"

	"claimrecon/internal/dataprocessing"
	"claimrecon/pkg/contracts/domain"
)

// ReconcileServiceInterface defines the reconciliation operations the
// handlers depend on
type ReconcileServiceInterface interface {
	Run(ctx context.Context, accepted, claim dataprocessing.Source) (*domain.Result, error)
}
