// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/gatewaytest"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/mock"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/internal/store"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

var taskModel = models.Model{
	Name: "Task",
	Fields: []models.FieldDefinition{
		{Name: "title", Type: models.FieldText, Required: true},
	},
}

type fixture struct {
	gateway *mock.MockGateway
	staging *staging.Store
	svc     *syncService
}

func newFixture(t *testing.T, journal store.Journal, confirmTimeout time.Duration) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	gw := mock.NewMockGateway(ctrl)
	st := staging.NewMemoryStore(logger.Nop())

	svc := NewSyncService(gw, codec.NewUntyped(taskModel), st, journal, confirmTimeout, logger.Nop()).(*syncService)
	return &fixture{gateway: gw, staging: st, svc: svc}
}

func (f *fixture) stagingFiles(t *testing.T) []string {
	t.Helper()
	names, err := f.staging.List()
	require.NoError(t, err)
	return names
}

// writePayload returns a GetSyncData implementation writing p.
func writePayload(t *testing.T, p gatewaytest.Payload) func(context.Context, models.Ticket, io.Writer) error {
	t.Helper()
	data, err := gatewaytest.BuildPayload(p)
	require.NoError(t, err)

	return func(_ context.Context, _ models.Ticket, dst io.Writer) error {
		_, err := dst.Write(data)
		return err
	}
}

func taskEntity(guid, title string) models.JSONEntity {
	return models.JSONEntity{
		Model:         "Task",
		GUID:          guid,
		ConflictState: models.ConflictNone,
		Fields:        map[string]string{"title": title},
	}
}

// recordingJournal keeps the states an attempt went through.
type recordingJournal struct {
	store.Journal

	mu     sync.Mutex
	states []models.AttemptState
	last   models.SyncAttempt
}

func newRecordingJournal() *recordingJournal {
	return &recordingJournal{Journal: store.NopJournal()}
}

func (j *recordingJournal) Create(_ context.Context, a models.SyncAttempt) error {
	return j.record(a)
}

func (j *recordingJournal) Update(_ context.Context, a models.SyncAttempt) error {
	return j.record(a)
}

func (j *recordingJournal) record(a models.SyncAttempt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.states = append(j.states, a.State)
	j.last = a
	return nil
}

func (j *recordingJournal) States() []models.AttemptState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.AttemptState(nil), j.states...)
}

func (j *recordingJournal) Last() models.SyncAttempt {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
