// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/models"
)

// SyncResult is the data delivered by a successful attempt. Entities and
// file contents are held in memory and stay readable after the result is
// confirmed or abandoned.
type SyncResult struct {
	Ticket       models.Ticket
	AttemptID    string
	Entities     []any
	Files        []models.File
	DeletedFiles []string

	handle *ConfirmHandle
}

// Confirm tells the backend the data has been received.
func (r *SyncResult) Confirm(ctx context.Context) error {
	return r.handle.Confirm(ctx)
}

// Abandon discards the result without confirming it. The backend will
// deliver the same data again on the next attempt.
func (r *SyncResult) Abandon() {
	r.handle.Abandon()
}

// Handle returns the confirmation capability of the result.
func (r *SyncResult) Handle() *ConfirmHandle {
	return r.handle
}

// ConfirmHandle is a single-use capability to confirm a delivered result.
// The first of Confirm, Abandon or the automatic abandon after the confirm
// timeout settles the handle and releases the local copy of the reply.
type ConfirmHandle struct {
	gateway adapter.Gateway
	ticket  models.Ticket
	input   *staging.Handle
	attempt *attemptRecorder
	logger  *logger.Logger
	// onSettle is called once, after the handle has been settled.
	onSettle func(*ConfirmHandle)

	mu      sync.Mutex
	settled bool
	timer   *time.Timer
}

func newConfirmHandle(gateway adapter.Gateway, ticket models.Ticket, input *staging.Handle, attempt *attemptRecorder, timeout time.Duration, onSettle func(*ConfirmHandle), log *logger.Logger) *ConfirmHandle {
	h := &ConfirmHandle{
		gateway:  gateway,
		ticket:   ticket,
		input:    input,
		attempt:  attempt,
		logger:   log,
		onSettle: onSettle,
	}

	if timeout > 0 {
		h.mu.Lock()
		h.timer = time.AfterFunc(timeout, h.expire)
		h.mu.Unlock()
	}
	return h
}

// Ticket returns the ticket the handle confirms.
func (h *ConfirmHandle) Ticket() models.Ticket {
	return h.ticket
}

// Settled reports whether the handle has been confirmed or abandoned.
func (h *ConfirmHandle) Settled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settled
}

// Confirm calls ConfirmTask for the ticket. The local copy is released even
// when the backend call fails; the delivered data stays valid. A settled
// handle returns ErrResultSettled.
func (h *ConfirmHandle) Confirm(ctx context.Context) error {
	if !h.settle() {
		return Classify("confirm", ErrResultSettled)
	}
	defer h.input.Release()

	if err := h.gateway.ConfirmTask(ctx, h.ticket); err != nil {
		opErr := Classify("confirm", err)
		h.logger.Error().Err(err).Str("func", "ConfirmHandle.Confirm").Str("ticket", h.ticket.String()).Msg("confirm failed")
		h.attempt.fail(ctx, models.StateAbandoned, opErr)
		return opErr
	}

	h.logger.Info().Str("func", "ConfirmHandle.Confirm").Str("ticket", h.ticket.String()).Msg("sync result confirmed")
	h.attempt.to(ctx, models.StateConfirmed)
	return nil
}

// Abandon releases the local copy without contacting the backend. Calls
// after the handle has been settled have no effect.
func (h *ConfirmHandle) Abandon() {
	h.abandon("abandoned")
}

func (h *ConfirmHandle) expire() {
	h.abandon("confirm timeout expired")
}

func (h *ConfirmHandle) abandon(reason string) {
	if !h.settle() {
		return
	}
	h.input.Release()

	h.logger.Info().Str("func", "ConfirmHandle.Abandon").Str("ticket", h.ticket.String()).Msg(reason)
	h.attempt.to(context.Background(), models.StateAbandoned, func(a *models.SyncAttempt) {
		a.ErrorMessage = reason
	})
}

// settle marks the handle as used and reports whether the caller won.
func (h *ConfirmHandle) settle() bool {
	h.mu.Lock()
	if h.settled {
		h.mu.Unlock()
		return false
	}
	h.settled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()

	if h.onSettle != nil {
		h.onSettle(h)
	}
	return true
}
