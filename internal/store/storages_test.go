// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJournal_Disabled(t *testing.T) {
	j, err := NewJournal(context.Background(), config.Storage{}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, nopJournal{}, j)
}

// TestNewJournal_SQLite runs the journal against a real database file.
func TestNewJournal_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state", "journal.db")

	j, err := NewJournal(ctx, config.Storage{JournalDSN: dsn}, logger.Nop())
	require.NoError(t, err)
	defer j.Close()

	start := time.Now().UTC().Truncate(time.Second)
	done := models.SyncAttempt{ID: "done", Mode: models.SyncModeAll, State: models.StateSubmitted, StartedAt: start, UpdatedAt: start}
	stuck := models.SyncAttempt{ID: "stuck", Mode: models.SyncModeDiff, State: models.StateEncoding, StartedAt: start.Add(time.Second), UpdatedAt: start.Add(time.Second)}

	require.NoError(t, j.Create(ctx, done))
	require.NoError(t, j.Create(ctx, stuck))
	assert.ErrorIs(t, j.Create(ctx, done), ErrAttemptExists)

	done.State = models.StateConfirmed
	done.Ticket = "T1"
	done.EntitiesIn = 3
	done.UpdatedAt = start.Add(2 * time.Second)
	require.NoError(t, j.Update(ctx, done))

	got, err := j.Get(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, got.State)
	assert.Equal(t, models.Ticket("T1"), got.Ticket)
	assert.Equal(t, 3, got.EntitiesIn)
	assert.True(t, start.Equal(got.StartedAt), "started_at %v", got.StartedAt)

	n, err := j.MarkStaleAbandoned(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	abandoned, err := j.List(ctx, models.AttemptFilter{States: []models.AttemptState{models.StateAbandoned}})
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	assert.Equal(t, "stuck", abandoned[0].ID)
	assert.Equal(t, staleMessage, abandoned[0].ErrorMessage)

	all, err := j.List(ctx, models.AttemptFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "stuck", all[0].ID, "newest first")

	transitions, err := j.Transitions(ctx, "stuck")
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, models.StateEncoding, transitions[0].State)
	assert.Equal(t, models.StateAbandoned, transitions[1].State)
}
