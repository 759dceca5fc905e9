// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidGatewayConfigs indicates invalid gateway settings
	// (for example, missing URL or non-positive timeouts).
	ErrInvalidGatewayConfigs = errors.New("invalid gateway configuration")
	// ErrInvalidAuthConfigs indicates missing backend credentials.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidDeviceConfigs indicates a missing device name or identifier.
	ErrInvalidDeviceConfigs = errors.New("invalid device configuration")
	// ErrInvalidAppConfigs indicates invalid application identity settings
	// (for example, unknown mode or missing application name).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, negative sync interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
