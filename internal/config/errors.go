package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or blob directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidKeysConfigs indicates invalid key-service settings
	// (for example, neither a master passphrase nor a remote address).
	ErrInvalidKeysConfigs = errors.New("invalid keys configuration")
	// ErrInvalidServerConfigs indicates invalid server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
