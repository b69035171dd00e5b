package config

import "time"

// Application constants
const (
	AppName = "ClaimRecon"

	// EnvPrefix namespaces every environment variable, e.g. CLAIMRECON_SERVER_PORT.
	EnvPrefix = "CLAIMRECON"

	// ConfigFileEnv names an explicit YAML config file.
	ConfigFileEnv = "CLAIMRECON_CONFIG"
)

// Reconciliation defaults
const (
	DefaultMaxUploadBytes = 32 << 20
	DefaultRunTimeout     = 2 * time.Minute
)

// DefaultAllowedExtensions are the spreadsheet formats accepted for upload.
var DefaultAllowedExtensions = []string{".xlsx", ".xls", ".csv"}

// HTTP defaults
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 2 * time.Minute
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultRateLimit       = 20
	DefaultBurstSize       = 10
)
