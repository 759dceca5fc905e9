// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",
		"DOTENV": "/path/to/.env",

		"APP_VENDOR":      "acme",
		"APP_APPLICATION": "tasks",
		"APP_INSTANCE":    "staging",
		"APP_MODE":        "test",
		"APP_DEFINITION":  "/etc/sync/models.yaml",

		"GATEWAY_URL":               "https://sync.example.com",
		"GATEWAY_REQUEST_TIMEOUT":   "15s",
		"GATEWAY_POLL_INTERVAL":     "500ms",
		"GATEWAY_POLL_MAX_INTERVAL": "5s",
		"GATEWAY_POLL_TIMEOUT":      "3m",

		"AUTH_USER":         "alice",
		"AUTH_PASSWORD":     "secret",
		"AUTH_PUSH_CHANNEL": "fcm",
		"AUTH_PUSH_TOKEN":   "push-token",

		"DEVICE_NAME":       "desktop",
		"DEVICE_IDENTIFIER": "dev-1",

		"STORAGE_STAGING_DIR": "/var/tmp/sync",
		"STORAGE_JOURNAL_DSN": "/var/lib/sync/journal.db",

		"WORKERS_SYNC_INTERVAL":   "5m",
		"WORKERS_CONFIRM_TIMEOUT": "1m",

		"LOG_FILE":  "/var/log/sync.log",
		"LOG_LEVEL": "debug",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "/path/to/.env", cfg.DotEnvPath)

	assert.Equal(t, App{Vendor: "acme", Application: "tasks", Instance: "staging", Mode: "test", DefinitionPath: "/etc/sync/models.yaml"}, cfg.App)
	assert.Equal(t, "https://sync.example.com", cfg.Gateway.URL)
	assert.Equal(t, 15*time.Second, cfg.Gateway.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Gateway.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Gateway.PollMaxInterval)
	assert.Equal(t, 3*time.Minute, cfg.Gateway.PollTimeout)

	assert.Equal(t, Auth{User: "alice", Password: "secret", PushChannel: "fcm", PushToken: "push-token"}, cfg.Auth)
	assert.Equal(t, Device{Name: "desktop", Identifier: "dev-1"}, cfg.Device)
	assert.Equal(t, Storage{StagingDir: "/var/tmp/sync", JournalDSN: "/var/lib/sync/journal.db"}, cfg.Storage)
	assert.Equal(t, Workers{SyncInterval: 5 * time.Minute, ConfirmTimeout: time.Minute}, cfg.Workers)
	assert.Equal(t, Log{File: "/var/log/sync.log", Level: "debug"}, cfg.Log)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("GATEWAY_POLL_TIMEOUT", "not-a-duration")

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
