// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
)

// NewJournal initialises the attempt journal using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to cfg.JournalDSN, creating the database
//     file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Returns a [Journal] wired to the connection.
//
// An empty cfg.JournalDSN disables journaling and returns [NopJournal].
func NewJournal(ctx context.Context, cfg config.Storage, logger *logger.Logger) (Journal, error) {
	if cfg.JournalDSN == "" {
		logger.Debug().Str("func", "NewJournal").Msg("journal disabled")
		return NopJournal(), nil
	}

	logger.Info().Msg("opening sync journal...")

	db, err := NewConnectSQLite(ctx, cfg.JournalDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewAttemptJournal(db, logger), nil
}
