// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-entity-sync/models"
)

// nopJournal drops every record. Reads report ErrJournalDisabled.
type nopJournal struct{}

// NopJournal returns a [Journal] that records nothing.
func NopJournal() Journal {
	return nopJournal{}
}

func (nopJournal) Create(context.Context, models.SyncAttempt) error { return nil }

func (nopJournal) Update(context.Context, models.SyncAttempt) error { return nil }

func (nopJournal) Get(context.Context, string) (models.SyncAttempt, error) {
	return models.SyncAttempt{}, ErrJournalDisabled
}

func (nopJournal) List(context.Context, models.AttemptFilter) ([]models.SyncAttempt, error) {
	return nil, ErrJournalDisabled
}

func (nopJournal) Transitions(context.Context, string) ([]models.AttemptTransition, error) {
	return nil, ErrJournalDisabled
}

func (nopJournal) MarkStaleAbandoned(context.Context) (int64, error) { return 0, nil }

func (nopJournal) Close() error { return nil }
