// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from defaults,
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App identifies the application towards the backend.
	App App `envPrefix:"APP_"`

	// Gateway holds the backend address, request timeout and polling policy.
	Gateway Gateway `envPrefix:"GATEWAY_"`

	// Auth holds the credentials used to authenticate against the backend.
	Auth Auth `envPrefix:"AUTH_"`

	// Device identifies the device the client runs on.
	Device Device `envPrefix:"DEVICE_"`

	// Storage holds local paths: staging directory and attempt journal.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds logger output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// DotEnvPath is the optional path to a .env file loaded into the process
	// environment before environment variables are parsed.
	// Populated via the DOTENV environment variable or the -env-file flag.
	DotEnvPath string `env:"DOTENV"`
}

// App holds application identity settings sent with every backend request.
type App struct {
	// Vendor is the vendor name the application is registered under.
	// Env: APP_VENDOR
	Vendor string `env:"VENDOR"`

	// Application is the application name registered on the backend.
	// Env: APP_APPLICATION
	Application string `env:"APPLICATION"`

	// Instance is the application instance. Defaults to Mode when empty.
	// Env: APP_INSTANCE
	Instance string `env:"INSTANCE"`

	// Mode is either "test" or "production".
	// Env: APP_MODE
	Mode string `env:"MODE"`

	// DefinitionPath points to the model definition file (YAML, TOML or
	// JSON). When empty the client runs in untyped mode.
	// Env: APP_DEFINITION
	DefinitionPath string `env:"DEFINITION"`
}

// Gateway holds the settings of the HTTP client talking to the backend.
type Gateway struct {
	// URL is the backend base URL (e.g. "https://sync.example.com").
	// Env: GATEWAY_URL
	URL string `env:"URL"`

	// RequestTimeout bounds every single HTTP request.
	// Env: GATEWAY_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PollInterval is the first delay between two status polls of a ticket.
	// Env: GATEWAY_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// PollMaxInterval caps the exponential poll backoff.
	// Env: GATEWAY_POLL_MAX_INTERVAL
	PollMaxInterval time.Duration `env:"POLL_MAX_INTERVAL"`

	// PollTimeout bounds the total time spent waiting for a ticket.
	// Env: GATEWAY_POLL_TIMEOUT
	PollTimeout time.Duration `env:"POLL_TIMEOUT"`
}

// Auth holds backend credentials and the optional push registration.
type Auth struct {
	// Env: AUTH_USER
	User string `env:"USER"`
	// Env: AUTH_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: AUTH_PUSH_CHANNEL
	PushChannel string `env:"PUSH_CHANNEL"`
	// Env: AUTH_PUSH_TOKEN
	PushToken string `env:"PUSH_TOKEN"`
}

// Device identifies the client device.
type Device struct {
	// Name is the device type name (e.g. "desktop").
	// Env: DEVICE_NAME
	Name string `env:"NAME"`

	// Identifier is the unique device identifier. Defaults to "0".
	// Env: DEVICE_IDENTIFIER
	Identifier string `env:"IDENTIFIER"`
}

// Storage groups local filesystem and database settings.
type Storage struct {
	// StagingDir is the directory holding temporary sync payloads. Defaults
	// to the system temp directory.
	// Env: STORAGE_STAGING_DIR
	StagingDir string `env:"STAGING_DIR"`

	// JournalDSN is the SQLite file used to journal sync attempts. The
	// journal is disabled when empty.
	// Env: STORAGE_JOURNAL_DSN
	JournalDSN string `env:"JOURNAL_DSN"`
}

// Workers holds configuration for background sync processing.
type Workers struct {
	// SyncInterval is the period of the background full sync job. Zero
	// disables the job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// ConfirmTimeout is how long a sync result may wait for confirmation
	// before it is abandoned and its staging file released.
	// Env: WORKERS_CONFIRM_TIMEOUT
	ConfirmTimeout time.Duration `env:"CONFIRM_TIMEOUT"`
}

// Log holds logger settings.
type Log struct {
	// File is the log file path. Logs go to stdout when empty.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// Level is a zerolog level name ("debug", "info", ...).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{Mode: "test"},
		Gateway: Gateway{
			RequestTimeout:  30 * time.Second,
			PollInterval:    time.Second,
			PollMaxInterval: 10 * time.Second,
			PollTimeout:     5 * time.Minute,
		},
		Device:  Device{Identifier: "0"},
		Workers: Workers{ConfirmTimeout: 10 * time.Minute},
		Log:     Log{Level: "info"},
	}
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. flagCfg holds values bound by a flag set created with
// [NewFlagSet] after it has been parsed; it may be nil.
func GetStructuredConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv(flagCfg).
		withEnv().
		withFlags(flagCfg).
		withJSON().
		build()
}
