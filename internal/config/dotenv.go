// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const defaultDotEnvPath = ".env"

func lookupDotEnvPath() string {
	if p := os.Getenv("DOTENV"); p != "" {
		return p
	}
	return defaultDotEnvPath
}

// loadDotEnv loads variables from path into the process environment without
// overriding variables that are already set. A missing default .env file is
// not an error; a missing explicitly requested file is.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, fs.ErrNotExist) && path == defaultDotEnvPath {
		return nil
	}
	return fmt.Errorf("error loading dotenv file %s: %w", path, err)
}
