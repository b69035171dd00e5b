// Package http implements the HTTP handlers of the reconciliation service.
// Handlers parse requests, call the services and render responses; they hold
// no reconciliation logic of their own.
//
// # Endpoints
//
//	POST /api/reconcile                       multipart: accepted, claim
//	POST /api/reconcile/export?format=&tab=   same body, returns a file
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// Failures are rendered as RFC 7807 problem documents through
// errors.ErrorHandler, so a malformed upload returns 422 and an oversized
// one 413.
package http
