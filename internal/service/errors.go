// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSyncInProgress is returned when an attempt is started while another
	// one is running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrAttemptPanicked wraps a panic raised while an attempt ran, usually
	// by a user supplied mapper.
	ErrAttemptPanicked = errors.New("sync attempt panicked")

	ErrResultSettled  = errors.New("sync result already confirmed or abandoned")
	ErrInvalidFile    = errors.New("invalid file")
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	// KindTransport covers network, backend and local storage failures.
	KindTransport ErrorKind = iota
	// KindValidation means the caller's input was rejected before anything
	// was sent.
	KindValidation
	// KindAuthorization means the backend rejected the credentials.
	KindAuthorization
	// KindProgrammer means the client is misconfigured or misused.
	KindProgrammer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindProgrammer:
		return "programmer"
	default:
		return "unknown"
	}
}

// OperationError is the failure outcome of a sync attempt, a confirmation
// or a history read.
type OperationError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the operation may succeed.
func (e *OperationError) Retryable() bool {
	return e.Kind == KindTransport
}

// IsKind reports whether err carries an OperationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var opErr *OperationError
	return errors.As(err, &opErr) && opErr.Kind == kind
}
