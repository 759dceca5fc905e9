// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-entity-sync/models"
)

const (
	insertAttempt = `
		INSERT INTO sync_attempts (
			id,
			mode,
			ticket,
			state,
			error_kind,
			error_message,
			entities_out,
			files_out,
			entities_in,
			files_in,
			deleted_files_in,
			started_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	updateAttempt = `
		UPDATE sync_attempts SET
			ticket           = ?,
			state            = ?,
			error_kind       = ?,
			error_message    = ?,
			entities_out     = ?,
			files_out        = ?,
			entities_in      = ?,
			files_in         = ?,
			deleted_files_in = ?,
			updated_at       = ?
		WHERE id = ?;`

	insertTransition = `
		INSERT INTO sync_attempt_transitions (attempt_id, state, at)
		VALUES (?, ?, ?);`

	selectTransitions = `
		SELECT attempt_id, state, at
		FROM sync_attempt_transitions
		WHERE attempt_id = ?
		ORDER BY id;`
)

// staleMessage is stored on attempts abandoned by MarkStaleAbandoned.
const staleMessage = "interrupted before completion"

var attemptColumns = []string{
	"id",
	"mode",
	"ticket",
	"state",
	"error_kind",
	"error_message",
	"entities_out",
	"files_out",
	"entities_in",
	"files_in",
	"deleted_files_in",
	"started_at",
	"updated_at",
}

var terminalStates = []string{
	string(models.StateConfirmed),
	string(models.StateAbandoned),
	string(models.StateFailed),
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// buildSelectAttemptsQuery builds the listing query for filter. Empty
// filter fields do not restrict the result.
func buildSelectAttemptsQuery(filter models.AttemptFilter) (string, []any, error) {
	q := psql().
		Select(attemptColumns...).
		From("sync_attempts").
		OrderBy("started_at DESC", "id DESC")

	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, s := range filter.States {
			states = append(states, string(s))
		}
		q = q.Where(sq.Eq{"state": states})
	}
	if filter.Mode != "" {
		q = q.Where(sq.Eq{"mode": string(filter.Mode)})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectAttemptQuery(id string) (string, []any, error) {
	query, args, err := psql().
		Select(attemptColumns...).
		From("sync_attempts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectStaleIDsQuery() (string, []any, error) {
	query, args, err := psql().
		Select("id").
		From("sync_attempts").
		Where(sq.NotEq{"state": terminalStates}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildAbandonQuery(ids []string, now time.Time) (string, []any, error) {
	query, args, err := psql().
		Update("sync_attempts").
		Set("state", string(models.StateAbandoned)).
		Set("error_message", staleMessage).
		Set("updated_at", now).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
