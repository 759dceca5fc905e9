// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/store"
	"github.com/MKhiriev/go-entity-sync/models"
)

// attemptRecorder tracks the state of one attempt and reports every
// transition to the journal. Journal failures are logged and never change
// the outcome of the attempt.
type attemptRecorder struct {
	journal store.Journal
	now     func() time.Time
	logger  *logger.Logger

	mu      sync.Mutex
	attempt models.SyncAttempt
}

func newAttemptRecorder(ctx context.Context, journal store.Journal, id string, mode models.SyncMode, now func() time.Time, log *logger.Logger) *attemptRecorder {
	ts := now()
	r := &attemptRecorder{
		journal: journal,
		now:     now,
		logger:  log,
		attempt: models.SyncAttempt{
			ID:        id,
			Mode:      mode,
			State:     models.StateIdle,
			StartedAt: ts,
			UpdatedAt: ts,
		},
	}

	if err := journal.Create(ctx, r.attempt); err != nil {
		log.Warn().Err(err).Str("func", "attemptRecorder.create").Msg("failed to journal attempt")
	}
	return r
}

func (r *attemptRecorder) ID() string {
	return r.attempt.ID
}

func (r *attemptRecorder) State() models.AttemptState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempt.State
}

// to moves the attempt to state after applying update to the record.
func (r *attemptRecorder) to(ctx context.Context, state models.AttemptState, update ...func(*models.SyncAttempt)) {
	r.mu.Lock()
	if r.attempt.State.Terminal() {
		r.mu.Unlock()
		return
	}
	for _, fn := range update {
		fn(&r.attempt)
	}
	r.attempt.State = state
	r.attempt.UpdatedAt = r.now()
	snapshot := r.attempt
	r.mu.Unlock()

	r.logger.Debug().Str("func", "attemptRecorder.to").Str("state", string(state)).Msg("attempt state changed")
	if err := r.journal.Update(context.WithoutCancel(ctx), snapshot); err != nil {
		r.logger.Warn().Err(err).Str("func", "attemptRecorder.to").Str("state", string(state)).Msg("failed to journal transition")
	}
}

func (r *attemptRecorder) fail(ctx context.Context, state models.AttemptState, opErr *OperationError) {
	r.to(ctx, state, func(a *models.SyncAttempt) {
		a.ErrorKind = opErr.Kind.String()
		a.ErrorMessage = opErr.Err.Error()
	})
}
