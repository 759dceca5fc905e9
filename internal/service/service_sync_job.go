package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
)

type syncJob struct {
	syncService SyncService
	interval    time.Duration
	handler     ResultHandler
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that calls syncService.SyncAll on a ticker and
// hands every result to handler. If interval is zero or negative it defaults
// to 5 minutes. A nil handler confirms every result.
func NewSyncJob(syncService SyncService, interval time.Duration, handler ResultHandler, log *logger.Logger) SyncJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &syncJob{
		syncService: syncService,
		interval:    interval,
		handler:     handler,
		logger:      log,
	}
}

// RunOnce implements SyncJob. The result is confirmed when the handler
// succeeds and abandoned otherwise.
func (j *syncJob) RunOnce(ctx context.Context) error {
	result, err := j.syncService.SyncAll(ctx)
	if err != nil {
		j.logger.Warn().Err(err).Str("func", "syncJob.RunOnce").Msg("periodic sync failed")
		return err
	}

	if j.handler != nil {
		if err = j.handler(ctx, result); err != nil {
			j.logger.Warn().Err(err).Str("func", "syncJob.RunOnce").Msg("sync result rejected by handler")
			result.Abandon()
			return err
		}
	}
	return result.Confirm(ctx)
}

// Run implements workers.Worker. It blocks until ctx is cancelled.
func (j *syncJob) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = j.RunOnce(ctx)
		}
	}
}

// Start implements SyncJob. It stops any previously running job, then
// launches Run in a background goroutine. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.Run(jobCtx)
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
