// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/models"
)

type conflictHistoryService struct {
	gateway adapter.Gateway
	codec   codec.EntityCodec
	staging *staging.Store
	logger  *logger.Logger
}

func NewConflictHistoryService(gateway adapter.Gateway, c codec.EntityCodec, st *staging.Store, log *logger.Logger) ConflictHistoryService {
	return &conflictHistoryService{
		gateway: gateway,
		codec:   c,
		staging: st,
		logger:  log,
	}
}

// GetHistory downloads the history of model/guid into a staging file and
// decodes it. Versions with equal timestamps keep the backend order. An
// entity without recorded conflicts yields an empty slice.
func (s *conflictHistoryService) GetHistory(ctx context.Context, model, guid string) ([]models.EntityVersion, error) {
	const op = "conflict history"
	if model == "" || guid == "" {
		return nil, Classify(op, fmt.Errorf("%w: model and guid are required", ErrInvalidRequest))
	}

	h, err := s.staging.Create(staging.KindConflictHistory)
	if err != nil {
		return nil, Classify(op, err)
	}
	defer h.Release()

	versions, err := s.read(ctx, h, model, guid)
	if err != nil {
		s.logger.Error().Err(err).
			Str("func", "conflictHistoryService.GetHistory").
			Str("model", model).
			Str("guid", guid).
			Msg("failed to read conflict history")
		return nil, Classify(op, err)
	}

	slices.SortStableFunc(versions, func(a, b models.EntityVersion) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return versions, nil
}

func (s *conflictHistoryService) read(ctx context.Context, h *staging.Handle, model, guid string) ([]models.EntityVersion, error) {
	w, err := h.OpenWrite()
	if err != nil {
		return nil, err
	}
	if err = s.gateway.GetConflictHistory(ctx, model, guid, w); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("error closing history payload: %w", err)
	}

	versions := make([]models.EntityVersion, 0)
	if size, err := h.Size(); err != nil {
		return nil, err
	} else if size == 0 {
		return versions, nil
	}

	r, err := h.NewReader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for {
		v, err := r.NextVersion()
		if errors.Is(err, io.EOF) {
			return versions, nil
		}
		if err != nil {
			return nil, err
		}

		version, err := codec.DecodeVersion(s.codec, v)
		if err != nil {
			return nil, fmt.Errorf("error decoding version of %s/%s: %w", v.Model, v.GUID, err)
		}
		versions = append(versions, version)
	}
}
