// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"errors"
	"sync"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
)

var (
	ErrExecutorClosed = errors.New("executor closed")
	ErrQueueFull      = errors.New("executor queue full")
)

const defaultQueueSize = 16

// Executor runs submitted tasks on a single background goroutine in
// submission order.
type Executor struct {
	tasks chan func()
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	logger *logger.Logger
}

// NewExecutor starts an executor holding at most queueSize pending tasks.
// A non-positive queueSize selects the default.
func NewExecutor(queueSize int, log *logger.Logger) *Executor {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	e := &Executor{
		tasks:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: log,
	}
	go e.loop()
	return e
}

// Submit queues task. It never blocks: a full queue yields ErrQueueFull.
func (e *Executor) Submit(task func()) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrExecutorClosed
	}

	select {
	case e.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits until the queued ones have run.
func (e *Executor) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.tasks)
	}
	e.mu.Unlock()

	<-e.done
}

func (e *Executor) loop() {
	defer close(e.done)
	for task := range e.tasks {
		e.run(task)
	}
}

func (e *Executor) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("func", "Executor.run").Any("panic", r).Msg("task panicked")
		}
	}()
	task()
}
