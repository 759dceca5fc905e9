// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by journal methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAttemptNotFound is returned when a query or update targets an
	// attempt id that does not exist in the journal.
	ErrAttemptNotFound = errors.New("sync attempt was not found")

	// ErrAttemptExists is returned when an attempt with the same id has
	// already been journaled.
	ErrAttemptExists = errors.New("sync attempt already exists")

	// ErrJournalDisabled is returned by read operations of the no-op
	// journal used when no database is configured.
	ErrJournalDisabled = errors.New("sync journal is disabled")
)

// Low-level database operation errors. These are returned (or wrapped) by
// journal methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT or UPDATE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values of a result
	// row fails.
	ErrScanningRows = errors.New("failed to scan sync attempt rows")
)
