// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists the journal of sync attempts in a local SQLite
// database. Every state transition of an attempt is recorded so that an
// interrupted process can be detected and cleaned up on the next start.
package store

import (
	"context"

	"github.com/MKhiriev/go-entity-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/journal_mock.go -package=mock

// Journal records sync attempts and their state transitions.
type Journal interface {
	// Create inserts a new attempt together with its first transition.
	Create(ctx context.Context, attempt models.SyncAttempt) error
	// Update stores the current state of an attempt and appends a
	// transition.
	Update(ctx context.Context, attempt models.SyncAttempt) error
	Get(ctx context.Context, id string) (models.SyncAttempt, error)
	// List returns attempts matching filter, newest first.
	List(ctx context.Context, filter models.AttemptFilter) ([]models.SyncAttempt, error)
	Transitions(ctx context.Context, id string) ([]models.AttemptTransition, error)
	// MarkStaleAbandoned moves every attempt left in a non-terminal state
	// to ABANDONED and returns how many were changed.
	MarkStaleAbandoned(ctx context.Context) (int64, error)
	Close() error
}
