// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/models"
)

type attemptJournal struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewAttemptJournal returns a [Journal] backed by db. The schema must have
// been migrated.
func NewAttemptJournal(db *DB, logger *logger.Logger) Journal {
	return &attemptJournal{
		DB:     db,
		now:    time.Now,
		logger: logger,
	}
}

func (j *attemptJournal) Create(ctx context.Context, a models.SyncAttempt) error {
	err := j.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertAttempt,
			a.ID,
			string(a.Mode),
			a.Ticket.String(),
			string(a.State),
			a.ErrorKind,
			a.ErrorMessage,
			a.EntitiesOut,
			a.FilesOut,
			a.EntitiesIn,
			a.FilesIn,
			a.DeletedFilesIn,
			a.StartedAt,
			a.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrAttemptExists, a.ID)
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return j.appendTransition(ctx, tx, a)
	})
	if err != nil {
		j.logger.Err(err).
			Str("func", "attemptJournal.Create").
			Str("attempt_id", a.ID).
			Msg("failed to journal sync attempt")
		return err
	}
	return nil
}

func (j *attemptJournal) Update(ctx context.Context, a models.SyncAttempt) error {
	err := j.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateAttempt,
			a.Ticket.String(),
			string(a.State),
			a.ErrorKind,
			a.ErrorMessage,
			a.EntitiesOut,
			a.FilesOut,
			a.EntitiesIn,
			a.FilesIn,
			a.DeletedFilesIn,
			a.UpdatedAt,
			a.ID,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrAttemptNotFound, a.ID)
		}

		return j.appendTransition(ctx, tx, a)
	})
	if err != nil {
		j.logger.Err(err).
			Str("func", "attemptJournal.Update").
			Str("attempt_id", a.ID).
			Str("state", string(a.State)).
			Msg("failed to journal sync attempt transition")
		return err
	}
	return nil
}

func (j *attemptJournal) Get(ctx context.Context, id string) (models.SyncAttempt, error) {
	query, args, err := buildSelectAttemptQuery(id)
	if err != nil {
		return models.SyncAttempt{}, err
	}

	attempts, err := j.query(ctx, query, args)
	if err != nil {
		return models.SyncAttempt{}, err
	}
	if len(attempts) == 0 {
		return models.SyncAttempt{}, fmt.Errorf("%w: %s", ErrAttemptNotFound, id)
	}
	return attempts[0], nil
}

func (j *attemptJournal) List(ctx context.Context, filter models.AttemptFilter) ([]models.SyncAttempt, error) {
	query, args, err := buildSelectAttemptsQuery(filter)
	if err != nil {
		return nil, err
	}
	return j.query(ctx, query, args)
}

func (j *attemptJournal) Transitions(ctx context.Context, id string) ([]models.AttemptTransition, error) {
	rows, err := j.DB.QueryContext(ctx, selectTransitions, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	transitions := make([]models.AttemptTransition, 0)
	for rows.Next() {
		var (
			t     models.AttemptTransition
			state string
		)
		if err = rows.Scan(&t.AttemptID, &state, &t.At); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		t.State = models.AttemptState(state)
		transitions = append(transitions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return transitions, nil
}

func (j *attemptJournal) MarkStaleAbandoned(ctx context.Context) (int64, error) {
	var marked int64
	err := j.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := buildSelectStaleIDsQuery()
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err = rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err = rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if len(ids) == 0 {
			return nil
		}

		now := j.now()
		query, args, err = buildAbandonQuery(ids, now)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if marked, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		for _, id := range ids {
			if _, err = tx.ExecContext(ctx, insertTransition, id, string(models.StateAbandoned), now); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
	if err != nil {
		j.logger.Err(err).Str("func", "attemptJournal.MarkStaleAbandoned").Msg("failed to abandon stale attempts")
		return 0, err
	}

	if marked > 0 {
		j.logger.Info().Str("func", "attemptJournal.MarkStaleAbandoned").
			Int64("attempts", marked).
			Msg("abandoned attempts left over by a previous run")
	}
	return marked, nil
}

func (j *attemptJournal) Close() error {
	return j.DB.Close()
}

func (j *attemptJournal) appendTransition(ctx context.Context, tx *sql.Tx, a models.SyncAttempt) error {
	at := a.UpdatedAt
	if at.IsZero() {
		at = j.now()
	}
	if _, err := tx.ExecContext(ctx, insertTransition, a.ID, string(a.State), at); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (j *attemptJournal) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return j.withRetry(ctx, func(ctx context.Context) error {
		tx, err := j.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}

		if err = fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				j.logger.Err(rbErr).Str("func", "attemptJournal.inTx").Msg("rollback failed")
			}
			return err
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
}

func (j *attemptJournal) query(ctx context.Context, query string, args []any) ([]models.SyncAttempt, error) {
	rows, err := j.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	attempts := make([]models.SyncAttempt, 0)
	for rows.Next() {
		var (
			a                   models.SyncAttempt
			mode, ticket, state string
		)
		err = rows.Scan(
			&a.ID,
			&mode,
			&ticket,
			&state,
			&a.ErrorKind,
			&a.ErrorMessage,
			&a.EntitiesOut,
			&a.FilesOut,
			&a.EntitiesIn,
			&a.FilesIn,
			&a.DeletedFilesIn,
			&a.StartedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		a.Mode = models.SyncMode(mode)
		a.Ticket = models.Ticket(ticket)
		a.State = models.AttemptState(state)
		attempts = append(attempts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return attempts, nil
}
