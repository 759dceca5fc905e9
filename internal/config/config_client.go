// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// ClientConfig is the validated client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     App
	Gateway Gateway
	Auth    Auth
	Device  Device
	Storage Storage
	Workers Workers
	Log     Log
}

// GetClientConfig builds and validates the client configuration.
//
// It loads the base config via [GetStructuredConfig], resolves derived
// defaults (the instance falls back to the mode name) and validates the
// resulting [ClientConfig].
func GetClientConfig(flagCfg *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Gateway: cfg.Gateway,
		Auth:    cfg.Auth,
		Device:  cfg.Device,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
		Log:     cfg.Log,
	}

	if clientCfg.Gateway.URL != "" {
		normalized, err := NormalizeBaseURL(clientCfg.Gateway.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidGatewayConfigs, err)
		}
		clientCfg.Gateway.URL = normalized
	}

	clientCfg.App.Mode = strings.ToLower(strings.TrimSpace(clientCfg.App.Mode))
	if clientCfg.App.Instance == "" {
		clientCfg.App.Instance = clientCfg.App.Mode
	}

	if err := clientCfg.validate(); err != nil {
		return nil, err
	}
	return clientCfg, nil
}
