// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the full configuration tree shared by the server and
// the client binaries. Each binary reads the groups it needs.
type StructuredConfig struct {
	App App `envPrefix:"APP_"`

	Storage Storage `envPrefix:"STORAGE_"`

	Server Server `envPrefix:"SERVER_"`

	Adapter Adapter `envPrefix:"ADAPTER_"`

	Sync Sync `envPrefix:"SYNC_"`

	Workers Workers `envPrefix:"WORKERS_"`

	Log Log `envPrefix:"LOG_"`

	JSONFilePath string `env:"CONFIG"`
}

type Storage struct {
	DB DB `envPrefix:"DB_"`
}

type App struct {
	// AccessToken is the bearer token the client presents to the remote
	// store. It is issued by the authentication collaborator.
	AccessToken string `env:"ACCESS_TOKEN"`

	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	TokenIssuer string `env:"TOKEN_ISSUER"`

	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	Version string `env:"VERSION"`
}

type Server struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

type DB struct {
	DSN string `env:"DATABASE_URI"`
}

type Adapter struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the refresh windows of the sync scheduler. The top-level
// windows apply to every entity kind; per-kind groups override them.
type Sync struct {
	ThrottleWindow time.Duration `env:"THROTTLE_WINDOW"`

	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW"`

	Links SyncWindows `envPrefix:"LINKS_"`

	Collections SyncWindows `envPrefix:"COLLECTIONS_"`
}

type SyncWindows struct {
	ThrottleWindow time.Duration `env:"THROTTLE_WINDOW"`

	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW"`
}

type Workers struct {
	ConnectivityInterval time.Duration `env:"CONNECTIVITY_INTERVAL"`
}

type Log struct {
	FilePath string `env:"FILE_PATH"`
}

// GetStructuredConfig assembles the configuration from environment
// variables, command-line flags and an optional JSON file.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
