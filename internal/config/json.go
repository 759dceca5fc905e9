// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type structuredJSONConfig struct {
	App struct {
		Vendor         string `json:"vendor"`
		Application    string `json:"application"`
		Instance       string `json:"instance"`
		Mode           string `json:"mode"`
		DefinitionPath string `json:"definition"`
	} `json:"app,omitempty"`

	Gateway struct {
		URL             string   `json:"url"`
		RequestTimeout  Duration `json:"request_timeout"`
		PollInterval    Duration `json:"poll_interval"`
		PollMaxInterval Duration `json:"poll_max_interval"`
		PollTimeout     Duration `json:"poll_timeout"`
	} `json:"gateway,omitempty"`

	Auth struct {
		User        string `json:"user"`
		Password    string `json:"password"`
		PushChannel string `json:"push_channel"`
		PushToken   string `json:"push_token"`
	} `json:"auth,omitempty"`

	Device struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
	} `json:"device,omitempty"`

	Storage struct {
		StagingDir string `json:"staging_dir"`
		JournalDSN string `json:"journal_dsn"`
	} `json:"storage,omitempty"`

	Workers struct {
		SyncInterval   Duration `json:"sync_interval"`
		ConfirmTimeout Duration `json:"confirm_timeout"`
	} `json:"workers,omitempty"`

	Log struct {
		File  string `json:"file"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg structuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Vendor:         jsonCfg.App.Vendor,
			Application:    jsonCfg.App.Application,
			Instance:       jsonCfg.App.Instance,
			Mode:           jsonCfg.App.Mode,
			DefinitionPath: jsonCfg.App.DefinitionPath,
		},
		Gateway: Gateway{
			URL:             jsonCfg.Gateway.URL,
			RequestTimeout:  time.Duration(jsonCfg.Gateway.RequestTimeout),
			PollInterval:    time.Duration(jsonCfg.Gateway.PollInterval),
			PollMaxInterval: time.Duration(jsonCfg.Gateway.PollMaxInterval),
			PollTimeout:     time.Duration(jsonCfg.Gateway.PollTimeout),
		},
		Auth: Auth{
			User:        jsonCfg.Auth.User,
			Password:    jsonCfg.Auth.Password,
			PushChannel: jsonCfg.Auth.PushChannel,
			PushToken:   jsonCfg.Auth.PushToken,
		},
		Device: Device{
			Name:       jsonCfg.Device.Name,
			Identifier: jsonCfg.Device.Identifier,
		},
		Storage: Storage{
			StagingDir: jsonCfg.Storage.StagingDir,
			JournalDSN: jsonCfg.Storage.JournalDSN,
		},
		Workers: Workers{
			SyncInterval:   time.Duration(jsonCfg.Workers.SyncInterval),
			ConfirmTimeout: time.Duration(jsonCfg.Workers.ConfirmTimeout),
		},
		Log: Log{
			File:  jsonCfg.Log.File,
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
