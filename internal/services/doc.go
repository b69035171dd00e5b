// Package services implements the business logic layer between the HTTP
// handlers and the reconciliation pipeline.
//
// # Reconcile Service
//
// ReconcileService.Run takes the accepted visits and claim search uploads
// and returns the three report tabs:
//
//	svc := services.NewReconcileService(validator, logger,
//	    services.WithMetrics(metrics),
//	    services.WithTracer(providers.Tracer),
//	    services.WithRunTimeout(2*time.Minute))
//
//	result, err := svc.Run(ctx,
//	    dataprocessing.Source{Name: "accepted.xlsx", Data: acceptedBytes},
//	    dataprocessing.Source{Name: "claims.xlsx", Data: claimBytes})
//
// The two uploads are extracted concurrently. A failure in one cancels the
// other. Once both datasets are in memory the context is checked one last
// time and the pure stages run to completion.
//
// # Error Handling
//
// Run returns *errors.AppError values that the HTTP layer maps to problem
// responses: unreadable uploads become MALFORMED_INPUT, oversized uploads
// PAYLOAD_TOO_LARGE and a deadline hit TIMEOUT. Caller cancellation is
// returned as the context error.
//
// # Health Service
//
// HealthService backs the liveness, readiness and version endpoints.
package services
