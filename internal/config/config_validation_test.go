// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validClientConfig() ClientConfig {
	return ClientConfig{
		App: App{Vendor: "acme", Application: "tasks", Instance: "test", Mode: "test"},
		Gateway: Gateway{
			URL:             "http://localhost:8080",
			RequestTimeout:  time.Second,
			PollInterval:    time.Second,
			PollMaxInterval: 5 * time.Second,
			PollTimeout:     time.Minute,
		},
		Auth:    Auth{User: "alice", Password: "secret"},
		Device:  Device{Name: "desktop", Identifier: "0"},
		Workers: Workers{ConfirmTimeout: time.Minute},
		Log:     Log{Level: "info"},
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		want   error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}},
		{name: "no url", mutate: func(c *ClientConfig) { c.Gateway.URL = "" }, want: ErrInvalidGatewayConfigs},
		{name: "max below interval", mutate: func(c *ClientConfig) { c.Gateway.PollMaxInterval = time.Millisecond }, want: ErrInvalidGatewayConfigs},
		{name: "no poll timeout", mutate: func(c *ClientConfig) { c.Gateway.PollTimeout = 0 }, want: ErrInvalidGatewayConfigs},
		{name: "no password", mutate: func(c *ClientConfig) { c.Auth.Password = "" }, want: ErrInvalidAuthConfigs},
		{name: "no device", mutate: func(c *ClientConfig) { c.Device.Name = "" }, want: ErrInvalidDeviceConfigs},
		{name: "no application", mutate: func(c *ClientConfig) { c.App.Application = "" }, want: ErrInvalidAppConfigs},
		{name: "unknown mode", mutate: func(c *ClientConfig) { c.App.Mode = "staging" }, want: ErrInvalidAppConfigs},
		{name: "negative interval", mutate: func(c *ClientConfig) { c.Workers.SyncInterval = -time.Second }, want: ErrInvalidWorkerConfigs},
		{name: "no confirm timeout", mutate: func(c *ClientConfig) { c.Workers.ConfirmTimeout = 0 }, want: ErrInvalidWorkerConfigs},
		{name: "bad level", mutate: func(c *ClientConfig) { c.Log.Level = "loud" }, want: ErrInvalidLogConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
