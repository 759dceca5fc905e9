// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/workers"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// spySyncService counts SyncAll calls and always fails.
type spySyncService struct {
	calls atomic.Int64
	err   error
}

func (s *spySyncService) SyncAll(context.Context) (*SyncResult, error) {
	s.calls.Add(1)
	return nil, s.err
}

func (s *spySyncService) SyncDiff(context.Context, []any, []models.File) (*SyncResult, error) {
	return nil, s.err
}

func (s *spySyncService) Close() {}

func newSpyJob(spy *spySyncService, interval time.Duration) SyncJob {
	return NewSyncJob(spy, interval, nil, logger.Nop())
}

// ── NewSyncJob ───────────────────────────────────────────────────────────────

func TestNewSyncJob_ReturnsInterface(t *testing.T) {
	job := newSpyJob(&spySyncService{err: assert.AnError}, time.Second)
	require.NotNil(t, job)

	var _ workers.Worker = job
}

func TestNewSyncJob_DefaultInterval(t *testing.T) {
	job := newSpyJob(&spySyncService{}, 0).(*syncJob)
	assert.Equal(t, 5*time.Minute, job.interval)

	job = newSpyJob(&spySyncService{}, -time.Second).(*syncJob)
	assert.Equal(t, 5*time.Minute, job.interval)
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestSyncJob_Start_CallsSyncAll(t *testing.T) {
	spy := &spySyncService{err: assert.AnError}
	job := newSpyJob(spy, 10*time.Millisecond)

	job.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "SyncAll keeps being called despite errors: %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spySyncService{err: assert.AnError}
	job := newSpyJob(spy, 10*time.Millisecond)

	job.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load(), "no calls after Stop")
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := newSpyJob(&spySyncService{}, time.Second)
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_DoubleStop_NoPanic(t *testing.T) {
	job := newSpyJob(&spySyncService{err: assert.AnError}, 10*time.Millisecond)

	job.Start(context.Background())
	job.Stop()
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_Restart_StopsPrevious(t *testing.T) {
	spy := &spySyncService{err: assert.AnError}
	job := newSpyJob(spy, 10*time.Millisecond)
	ctx := context.Background()

	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	callsBefore := spy.calls.Load()
	assert.Greater(t, callsBefore, int64(0))

	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.calls.Load(), callsBefore)
}

func TestSyncJob_ContextCancel_StopsJob(t *testing.T) {
	job := newSpyJob(&spySyncService{err: assert.AnError}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancel")
	}
}

func TestSyncJob_RunsUnderWorkers(t *testing.T) {
	spy := &spySyncService{err: assert.AnError}
	job := newSpyJob(spy, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()

	workers.NewWorkers(job).Run(ctx)
	assert.GreaterOrEqual(t, spy.calls.Load(), int64(2))
}

// ── RunOnce ──────────────────────────────────────────────────────────────────

func TestSyncJob_RunOnce_ConfirmsHandledResult(t *testing.T) {
	f := newFixture(t, nil, 0)
	expectSuccessfulAttempt(t, f, "T1")
	f.gateway.EXPECT().ConfirmTask(gomock.Any(), models.Ticket("T1")).Return(nil)

	var handled *SyncResult
	job := NewSyncJob(f.svc, time.Minute, func(_ context.Context, r *SyncResult) error {
		handled = r
		return nil
	}, logger.Nop())

	require.NoError(t, job.RunOnce(context.Background()))
	require.NotNil(t, handled)
	assert.Len(t, handled.Entities, 1)
	assert.True(t, handled.Handle().Settled())
	assert.Empty(t, f.stagingFiles(t))
}

func TestSyncJob_RunOnce_HandlerErrorAbandons(t *testing.T) {
	f := newFixture(t, nil, 0)
	expectSuccessfulAttempt(t, f, "T1")

	job := NewSyncJob(f.svc, time.Minute, func(context.Context, *SyncResult) error {
		return assert.AnError
	}, logger.Nop())

	err := job.RunOnce(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, f.stagingFiles(t))
}

func TestSyncJob_RunOnce_SyncError(t *testing.T) {
	spy := &spySyncService{err: assert.AnError}
	job := newSpyJob(spy, time.Minute)

	assert.ErrorIs(t, job.RunOnce(context.Background()), assert.AnError)
	assert.Equal(t, int64(1), spy.calls.Load())
}
