// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The merged tree is shared by both binaries, so only cross-cutting rules
// live here; binary-specific rules are in [ClientConfig.validate] and
// [StructuredConfig.ValidateServer].
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.ThrottleWindow < 0 || cfg.Sync.DebounceWindow < 0 {
		return ErrInvalidSyncConfigs
	}
	return nil
}

// ValidateServer checks the groups the remote store server needs.
func (cfg *StructuredConfig) ValidateServer() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.ConnectivityInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.AccessToken == "" {
		return ErrInvalidAppConfigs
	}

	for _, w := range cfg.Sync.Windows {
		if w.ThrottleWindow <= 0 || w.DebounceWindow <= 0 {
			return ErrInvalidSyncConfigs
		}
	}

	return nil
}
