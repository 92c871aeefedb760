// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Blobs.Dir == "" {
		return ErrInvalidStorageConfigs
	}

	// Local key service needs a passphrase; a remote one needs an address.
	if cfg.Keys.RemoteAddress == "" && cfg.Keys.MasterPassphrase == "" {
		return ErrInvalidKeysConfigs
	}

	return nil
}
