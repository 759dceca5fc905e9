// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the client-side sync engine: the
// submit, poll, fetch, confirm cycle against the backend, conflict history
// reads, and their background variants.
package service

import (
	"context"

	"github.com/MKhiriev/go-entity-sync/internal/workers"
	"github.com/MKhiriev/go-entity-sync/models"
)

// SyncService runs sync attempts. Exactly one of the returned result and
// error is non-nil. Only one attempt may run at a time.
type SyncService interface {
	// SyncAll requests the full data set visible to the user.
	SyncAll(ctx context.Context) (*SyncResult, error)
	// SyncDiff sends local changes and receives the backend's reply.
	SyncDiff(ctx context.Context, entities []any, files []models.File) (*SyncResult, error)
	// Close abandons a result still waiting for confirmation.
	Close()
}

// AsyncSyncService runs sync attempts on a background worker. Every
// accepted call delivers exactly one Outcome on the returned channel.
type AsyncSyncService interface {
	SyncAllAsync(ctx context.Context) (<-chan Outcome, error)
	SyncDiffAsync(ctx context.Context, entities []any, files []models.File) (<-chan Outcome, error)
	// Close waits for queued attempts and stops the worker.
	Close()
}

// ConflictHistoryService reads the recorded versions of a conflicted entity.
type ConflictHistoryService interface {
	// GetHistory returns the versions of model/guid ordered by timestamp.
	GetHistory(ctx context.Context, model, guid string) ([]models.EntityVersion, error)
}

// SyncJob runs full syncs periodically.
type SyncJob interface {
	workers.Worker
	// RunOnce performs a single sync and hands the result to the handler.
	RunOnce(ctx context.Context) error
	Start(ctx context.Context)
	Stop()
}

// ResultHandler consumes the data of a successful attempt. The result is
// confirmed when the handler returns nil and abandoned otherwise.
type ResultHandler func(ctx context.Context, result *SyncResult) error
