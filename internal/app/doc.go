// Package app wires configuration, logging, telemetry, services and the HTTP
// router into a runnable server.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, CLAIMRECON_* environment)
//	2. Initialize slog and OpenTelemetry
//	3. Build the file validator, reconcile and health services
//	4. Mount handlers and middleware on a chi router
//	5. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM, then lets in-flight reconciliation
// requests finish within the configured shutdown timeout before flushing
// telemetry. Initialization errors are returned to the caller; the package
// never calls os.Exit.
package app
