// Package config loads the service configuration.
//
// Values are resolved in three layers, later layers overriding earlier ones:
//
//	1. Default()
//	2. a YAML file (CLAIMRECON_CONFIG, or config.yaml / configs/config.yaml)
//	3. CLAIMRECON_* environment variables
//
// Environment variable names follow the struct nesting:
//
//	CLAIMRECON_SERVER_PORT=9090
//	CLAIMRECON_LOGGING_LEVEL=debug
//	CLAIMRECON_RECONCILE_MAX_UPLOAD_BYTES=67108864
//	CLAIMRECON_RECONCILE_ALLOWED_EXTENSIONS=.xlsx,.csv
//
// Validate normalises upload extensions to lower case with a leading dot.
package config
