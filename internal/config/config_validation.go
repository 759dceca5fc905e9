// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// validate checks the merged [StructuredConfig] before client-specific
// defaults are resolved. Only source-independent invariants are checked
// here; required values are checked by [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.Gateway.URL != "" {
		if _, err := NormalizeBaseURL(cfg.Gateway.URL); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidGatewayConfigs, err)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Gateway.URL == "" || cfg.Gateway.RequestTimeout <= 0 {
		return ErrInvalidGatewayConfigs
	}
	if cfg.Gateway.PollInterval <= 0 || cfg.Gateway.PollMaxInterval < cfg.Gateway.PollInterval || cfg.Gateway.PollTimeout <= 0 {
		return ErrInvalidGatewayConfigs
	}

	if cfg.Auth.User == "" || cfg.Auth.Password == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Device.Name == "" || cfg.Device.Identifier == "" {
		return ErrInvalidDeviceConfigs
	}

	if cfg.App.Vendor == "" || cfg.App.Application == "" {
		return ErrInvalidAppConfigs
	}
	if cfg.App.Mode != "test" && cfg.App.Mode != "production" {
		return ErrInvalidAppConfigs
	}

	if cfg.Workers.SyncInterval < 0 || cfg.Workers.ConfirmTimeout <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return ErrInvalidLogConfigs
	}

	return nil
}
