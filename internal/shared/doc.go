// Package shared holds code used by more than one package that belongs to no
// particular layer.
//
// The testutil subpackage provides captured loggers and spreadsheet fixtures
// for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewReconcileService(v, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Reconciliation failed")
package shared
