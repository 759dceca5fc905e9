// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
)

// Classify wraps err into an OperationError for op. Errors that do not
// match a known sentinel are reported as transport failures, local
// filesystem errors included.
func Classify(op string, err error) *OperationError {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}

	var (
		validationErrs *codec.ValidationErrors
		entityErr      *codec.EntityError
	)

	kind := KindTransport
	switch {
	case errors.As(err, &validationErrs),
		errors.As(err, &entityErr),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidRequest):
		kind = KindValidation
	case errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrForbidden),
		errors.Is(err, adapter.ErrNoRole),
		errors.Is(err, adapter.ErrNotAuthenticated):
		kind = KindAuthorization
	case errors.Is(err, codec.ErrModelNotRegistered),
		errors.Is(err, codec.ErrReservedField),
		errors.Is(err, ErrSyncInProgress),
		errors.Is(err, ErrResultSettled),
		errors.Is(err, ErrAttemptPanicked):
		kind = KindProgrammer
	}

	return &OperationError{Kind: kind, Op: op, Err: err}
}
