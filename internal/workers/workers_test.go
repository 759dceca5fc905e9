// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
}

func (m *mockWorker) Run(context.Context) {
	m.runCount.Add(1)
}

// blockingWorker returns once ctx is done.
type blockingWorker struct {
	stopped atomic.Bool
}

func (b *blockingWorker) Run(ctx context.Context) {
	<-ctx.Done()
	b.stopped.Store(true)
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if got := w.runCount.Load(); got != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, got)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{workers: []Worker{}}

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
}

func TestNewWorkers_SkipsNil(t *testing.T) {
	ws := NewWorkers(nil, &mockWorker{}, nil)
	if ws.Len() != 1 {
		t.Errorf("expected 1 worker, got %d", ws.Len())
	}
}

func TestWorkers_Run_BlocksUntilContextDone(t *testing.T) {
	b := &blockingWorker{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewWorkers(b).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Run returned before ctx was cancelled")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !b.stopped.Load() {
		t.Error("worker was not stopped")
	}
}
