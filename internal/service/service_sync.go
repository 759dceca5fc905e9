// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/internal/store"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
)

// IDGenerator produces attempt identifiers.
type IDGenerator interface {
	Generate() string
}

type syncService struct {
	gateway        adapter.Gateway
	codec          codec.EntityCodec
	staging        *staging.Store
	journal        store.Journal
	ids            IDGenerator
	confirmTimeout time.Duration
	now            func() time.Time
	logger         *logger.Logger

	// running is held for the whole attempt.
	running sync.Mutex

	// pending holds the handles of delivered results that are neither
	// confirmed nor abandoned yet.
	pendingMu sync.Mutex
	pending   map[*ConfirmHandle]struct{}
}

// NewSyncService returns a SyncService. A nil journal disables attempt
// journaling. A positive confirmTimeout abandons unconfirmed results
// automatically.
func NewSyncService(gateway adapter.Gateway, c codec.EntityCodec, st *staging.Store, journal store.Journal, confirmTimeout time.Duration, log *logger.Logger) SyncService {
	if journal == nil {
		journal = store.NopJournal()
	}
	return &syncService{
		gateway:        gateway,
		codec:          c,
		staging:        st,
		journal:        journal,
		ids:            utils.NewUUIDGenerator(),
		confirmTimeout: confirmTimeout,
		now:            time.Now,
		logger:         log,
		pending:        make(map[*ConfirmHandle]struct{}),
	}
}

func (s *syncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, models.SyncModeAll, nil, nil)
}

func (s *syncService) SyncDiff(ctx context.Context, entities []any, files []models.File) (*SyncResult, error) {
	return s.run(ctx, models.SyncModeDiff, entities, files)
}

// Close abandons every result still waiting for confirmation.
func (s *syncService) Close() {
	s.abandonPending()
}

func (s *syncService) run(ctx context.Context, mode models.SyncMode, entities []any, files []models.File) (result *SyncResult, err error) {
	op := "sync " + string(mode)
	if !s.running.TryLock() {
		return nil, Classify(op, ErrSyncInProgress)
	}
	defer s.running.Unlock()

	id := s.ids.Generate()
	ctx = utils.WithAttemptID(ctx, id)
	log := s.logger.WithStr("attempt_id", id)
	attempt := newAttemptRecorder(ctx, s.journal, id, mode, s.now, log)

	// input is owned by the attempt until it is handed to the confirm handle.
	var input *staging.Handle
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("func", "syncService.run").
				Str("stack", string(debug.Stack())).
				Msg("sync attempt panicked")
			result, err = nil, s.failed(ctx, attempt, op, fmt.Errorf("%w: %v", ErrAttemptPanicked, r))
		}
		if err != nil && input != nil {
			input.Release()
		}
	}()

	log.Info().Str("func", "syncService.run").Str("mode", string(mode)).Msg("sync attempt started")

	ticket, err := s.submit(ctx, attempt, mode, entities, files)
	if err != nil {
		return nil, s.failed(ctx, attempt, op, err)
	}
	ctx = utils.WithTicket(ctx, ticket)
	log = log.WithStr("ticket", ticket.String())

	attempt.to(ctx, models.StatePolling)
	if err = s.gateway.WaitUntilSyncRequestComplete(ctx, ticket); err != nil {
		return nil, s.failed(ctx, attempt, op, err)
	}

	attempt.to(ctx, models.StateFetching)
	if input, err = s.fetch(ctx, ticket); err != nil {
		return nil, s.failed(ctx, attempt, op, err)
	}

	if result, err = s.decode(input); err != nil {
		return nil, s.failed(ctx, attempt, op, err)
	}
	result.Ticket = ticket
	result.AttemptID = id

	attempt.to(ctx, models.StateDecoded, func(a *models.SyncAttempt) {
		a.EntitiesIn = len(result.Entities)
		a.FilesIn = len(result.Files)
		a.DeletedFilesIn = len(result.DeletedFiles)
	})

	// Registered under the lock so an early auto-abandon finds the handle.
	s.pendingMu.Lock()
	result.handle = newConfirmHandle(s.gateway, ticket, input, attempt, s.confirmTimeout, s.settled, log)
	s.pending[result.handle] = struct{}{}
	s.pendingMu.Unlock()
	input = nil

	attempt.to(ctx, models.StateAwaitingConfirm)

	log.Info().Str("func", "syncService.run").
		Int("entities", len(result.Entities)).
		Int("files", len(result.Files)).
		Int("deleted_files", len(result.DeletedFiles)).
		Msg("sync data received")
	return result, nil
}

// submit performs the encoding and submit steps and returns the ticket
// issued by the backend. The outgoing staging file never outlives it.
func (s *syncService) submit(ctx context.Context, attempt *attemptRecorder, mode models.SyncMode, entities []any, files []models.File) (models.Ticket, error) {
	if mode == models.SyncModeAll {
		ticket, err := s.gateway.SendSyncAllRequest(ctx)
		if err != nil {
			return "", err
		}
		attempt.to(ctx, models.StateSubmitted, func(a *models.SyncAttempt) { a.Ticket = ticket })
		return ticket, nil
	}

	attempt.to(ctx, models.StateEncoding)

	output, err := s.staging.Create(staging.KindOutgoing)
	if err != nil {
		return "", err
	}
	defer output.Release()

	entitiesOut, filesOut, err := s.encode(output, entities, files)
	if err != nil {
		return "", err
	}

	payload, err := output.Open()
	if err != nil {
		return "", err
	}

	ticket, err := s.gateway.SendSyncDiffRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	attempt.to(ctx, models.StateSubmitted, func(a *models.SyncAttempt) {
		a.Ticket = ticket
		a.EntitiesOut = entitiesOut
		a.FilesOut = filesOut
	})
	return ticket, nil
}

// encode writes the outgoing payload. Entity and file validation failures
// are reported together.
func (s *syncService) encode(output *staging.Handle, entities []any, files []models.File) (int, int, error) {
	fileErr := validateFiles(files)

	w, err := output.NewWriter()
	if err != nil {
		return 0, 0, err
	}

	if err = errors.Join(codec.EncodeAll(s.codec, entities, w.WriteEntity), fileErr); err != nil {
		_ = w.Close()
		return 0, 0, err
	}
	for _, f := range files {
		if err = w.WriteFile(f.GUID, f.Content); err != nil {
			_ = w.Close()
			return 0, 0, err
		}
	}

	entitiesOut, filesOut := w.Counts()
	if err = w.Close(); err != nil {
		return 0, 0, err
	}
	return entitiesOut, filesOut, nil
}

func validateFiles(files []models.File) error {
	var errs []error
	seen := make(map[string]struct{}, len(files))
	for i, f := range files {
		switch {
		case f.GUID == "" || strings.ContainsAny(f.GUID, `/\`):
			errs = append(errs, fmt.Errorf("%w: file #%d has an invalid guid %q", ErrInvalidFile, i, f.GUID))
			continue
		case f.Content == nil:
			errs = append(errs, fmt.Errorf("%w: file #%d (%s) has no content", ErrInvalidFile, i, f.GUID))
		}
		if _, dup := seen[f.GUID]; dup {
			errs = append(errs, fmt.Errorf("%w: file #%d duplicates guid %s", ErrInvalidFile, i, f.GUID))
		}
		seen[f.GUID] = struct{}{}
	}
	return errors.Join(errs...)
}

// fetch downloads the reply into a new incoming staging file, which is
// released on failure.
func (s *syncService) fetch(ctx context.Context, ticket models.Ticket) (*staging.Handle, error) {
	input, err := s.staging.Create(staging.KindIncoming)
	if err != nil {
		return nil, err
	}

	w, err := input.OpenWrite()
	if err != nil {
		input.Release()
		return nil, err
	}
	if err = s.gateway.GetSyncData(ctx, ticket, w); err != nil {
		input.Release()
		return nil, err
	}
	if err = w.Close(); err != nil {
		input.Release()
		return nil, fmt.Errorf("error closing incoming payload: %w", err)
	}
	return input, nil
}

// decode reads the whole reply. Attachments are copied into memory so the
// delivered result does not depend on the staging file.
func (s *syncService) decode(input *staging.Handle) (*SyncResult, error) {
	r, err := input.NewReader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	result := &SyncResult{
		Entities: make([]any, 0),
		Files:    make([]models.File, 0),
	}
	for {
		e, err := r.NextEntity()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		obj, err := s.codec.Decode(e)
		if err != nil {
			return nil, fmt.Errorf("error decoding entity %s/%s: %w", e.Model, e.GUID, err)
		}
		result.Entities = append(result.Entities, obj)
	}

	for _, guid := range r.FileGUIDs() {
		content, err := r.File(guid)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(content)
		if err != nil {
			return nil, fmt.Errorf("error reading file %s: %w", guid, err)
		}
		result.Files = append(result.Files, models.File{GUID: guid, Name: guid, Content: bytes.NewReader(data)})
	}

	if result.DeletedFiles, err = r.DeletedFiles(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *syncService) failed(ctx context.Context, attempt *attemptRecorder, op string, err error) error {
	opErr := Classify(op, err)
	attempt.fail(ctx, models.StateFailed, opErr)

	s.logger.Error().Err(err).
		Str("func", "syncService.run").
		Str("attempt_id", attempt.ID()).
		Str("kind", opErr.Kind.String()).
		Msg("sync attempt failed")
	return opErr
}

// settled drops a confirmed or abandoned handle from the pending set.
func (s *syncService) settled(h *ConfirmHandle) {
	s.pendingMu.Lock()
	delete(s.pending, h)
	s.pendingMu.Unlock()
}

func (s *syncService) abandonPending() {
	s.pendingMu.Lock()
	pending := make([]*ConfirmHandle, 0, len(s.pending))
	for h := range s.pending {
		pending = append(pending, h)
	}
	s.pendingMu.Unlock()

	for _, h := range pending {
		h.Abandon()
	}
}
