// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/workers"
	"github.com/MKhiriev/go-entity-sync/models"
)

// Outcome is the result of an asynchronous attempt. Exactly one of Result
// and Err is set, and every submitted attempt delivers exactly one Outcome.
type Outcome struct {
	Result *SyncResult
	Err    error
}

type asyncSyncService struct {
	sync     SyncService
	executor *workers.Executor
}

// NewAsyncSyncService runs attempts of syncService on a single background
// worker. Attempts are executed in submission order.
func NewAsyncSyncService(syncService SyncService, queueSize int, log *logger.Logger) AsyncSyncService {
	return &asyncSyncService{
		sync:     syncService,
		executor: workers.NewExecutor(queueSize, log),
	}
}

func (a *asyncSyncService) SyncAllAsync(ctx context.Context) (<-chan Outcome, error) {
	return a.submit("sync all", func() (*SyncResult, error) {
		return a.sync.SyncAll(ctx)
	})
}

func (a *asyncSyncService) SyncDiffAsync(ctx context.Context, entities []any, files []models.File) (<-chan Outcome, error) {
	return a.submit("sync diff", func() (*SyncResult, error) {
		return a.sync.SyncDiff(ctx, entities, files)
	})
}

func (a *asyncSyncService) Close() {
	a.executor.Close()
}

func (a *asyncSyncService) submit(op string, attempt func() (*SyncResult, error)) (<-chan Outcome, error) {
	out := make(chan Outcome, 1)
	err := a.executor.Submit(func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				out <- Outcome{Err: &OperationError{Kind: KindProgrammer, Op: op, Err: fmt.Errorf("%w: %v", ErrAttemptPanicked, r)}}
			}
		}()

		result, err := attempt()
		out <- Outcome{Result: result, Err: err}
	})
	if err != nil {
		return nil, &OperationError{Kind: KindProgrammer, Op: op, Err: err}
	}
	return out, nil
}
