package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidLogLevel = goerr.New("invalid log level")
	ErrInvalidFormat   = goerr.New("invalid log format")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FactorIDKey   = "factor_id"
)
