// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-entity-sync/internal/schema"
	"github.com/MKhiriev/go-entity-sync/internal/service"
	"github.com/MKhiriev/go-entity-sync/models"
)

// SyncClient is the contract of the sync facade used by front ends such as
// the command line tool.
type SyncClient interface {
	// Authenticate logs in and prepares the codec for the returned role.
	// It must succeed before any other operation.
	Authenticate(ctx context.Context) (models.AuthResult, error)

	SyncAll(ctx context.Context) (*service.SyncResult, error)
	SyncDiff(ctx context.Context, entities []any, files []models.File) (*service.SyncResult, error)
	SyncAllAsync(ctx context.Context) (<-chan service.Outcome, error)
	SyncDiffAsync(ctx context.Context, entities []any, files []models.File) (<-chan service.Outcome, error)
	GetConflictHistory(ctx context.Context, model, guid string) ([]models.EntityVersion, error)

	// Attempts lists journaled sync attempts, newest first.
	Attempts(ctx context.Context, filter models.AttemptFilter) ([]models.SyncAttempt, error)
	// Definition returns the loaded definition, nil in untyped mode.
	Definition() *schema.Definition

	Close() error
}
