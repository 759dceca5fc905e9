// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net/url"
	"strings"
)

// BaseURL holds a validated backend base URL.
// It implements the flag.Value interface.
type BaseURL struct {
	target *string
}

// String returns the URL currently stored, or an empty string.
func (u BaseURL) String() string {
	if u.target == nil {
		return ""
	}
	return *u.target
}

// Set parses s as an absolute http(s) URL. A missing scheme defaults to
// http. Trailing slashes are removed.
func (u BaseURL) Set(s string) error {
	normalized, err := NormalizeBaseURL(s)
	if err != nil {
		return err
	}

	*u.target = normalized
	return nil
}

// NormalizeBaseURL trims raw, adds the http scheme when none is given and
// checks that a host is present.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("address scheme must be http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("address must include host")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

// NewFlagSet creates a flag set bound to a fresh [StructuredConfig]. After
// fs.Parse the returned config holds the values given on the command line
// and can be passed to [GetClientConfig].
//
// Flags:
//
//	-u gateway base URL
//	-request-timeout per request timeout (e.g., "30s")
//	-poll-interval first poll delay (e.g., "1s")
//	-poll-max-interval poll backoff cap (e.g., "10s")
//	-poll-timeout total wait for a ticket (e.g., "5m")
//	-user / -password backend credentials
//	-device device name
//	-device-id device identifier
//	-vendor / -application / -instance / -mode application identity
//	-definition model definition file
//	-staging-dir directory for temporary payloads
//	-journal attempt journal SQLite file
//	-sync-interval background sync period
//	-confirm-timeout automatic abandon delay for unconfirmed results
//	-log-file / -log-level logger settings
//	-c/-config json file path with configs
//	-env-file .env file path
func NewFlagSet(name string) (*flag.FlagSet, *StructuredConfig) {
	cfg := &StructuredConfig{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.Var(BaseURL{target: &cfg.Gateway.URL}, "u", "Gateway base URL")
	fs.DurationVar(&cfg.Gateway.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&cfg.Gateway.PollInterval, "poll-interval", 0, "First delay between ticket polls")
	fs.DurationVar(&cfg.Gateway.PollMaxInterval, "poll-max-interval", 0, "Maximum delay between ticket polls")
	fs.DurationVar(&cfg.Gateway.PollTimeout, "poll-timeout", 0, "Maximum time to wait for a ticket")

	fs.StringVar(&cfg.Auth.User, "user", "", "Backend user")
	fs.StringVar(&cfg.Auth.Password, "password", "", "Backend password")

	fs.StringVar(&cfg.Device.Name, "device", "", "Device name")
	fs.StringVar(&cfg.Device.Identifier, "device-id", "", "Device identifier")

	fs.StringVar(&cfg.App.Vendor, "vendor", "", "Vendor name")
	fs.StringVar(&cfg.App.Application, "application", "", "Application name")
	fs.StringVar(&cfg.App.Instance, "instance", "", "Application instance")
	fs.StringVar(&cfg.App.Mode, "mode", "", "Backend mode (test, production)")
	fs.StringVar(&cfg.App.DefinitionPath, "definition", "", "Model definition file")

	fs.StringVar(&cfg.Storage.StagingDir, "staging-dir", "", "Staging directory")
	fs.StringVar(&cfg.Storage.JournalDSN, "journal", "", "Attempt journal SQLite file")

	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval")
	fs.DurationVar(&cfg.Workers.ConfirmTimeout, "confirm-timeout", 0, "Abandon unconfirmed results after this delay")

	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level")

	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.DotEnvPath, "env-file", "", ".env file path")

	return fs, cfg
}
