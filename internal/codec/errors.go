// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-entity-sync/internal/validators"
)

var (
	// ErrModelNotRegistered is returned when an entity of a model without a
	// registered mapper is decoded. It indicates a misconfigured client.
	ErrModelNotRegistered = errors.New("model not registered")

	ErrTypeNotRegistered = errors.New("type not registered")
	ErrNotAnObject       = errors.New("object does not implement codec.Object")
	ErrNotAFieldMap      = errors.New("object is not a map[string]string")
	ErrTypeMismatch      = errors.New("object type does not match mapper")
	ErrInvalidEntity     = errors.New("invalid entity")
	// ErrReservedField is returned by the untyped codec for a wire entity
	// carrying a real field named like one of its pseudo-fields.
	ErrReservedField = errors.New("field name is reserved")

	ErrUnknownModel    = errors.New("mapper references an unknown model")
	ErrDuplicateMapper = errors.New("duplicate mapper")
)

// EntityError reports why one object of a batch could not be encoded.
type EntityError struct {
	// Index is the position of the object in the encoded batch.
	Index int
	Model string
	GUID  string
	// Fields lists the rejected fields, if any.
	Fields validators.FieldErrors
	Err    error
}

func (e *EntityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entity #%d", e.Index)
	if e.Model != "" || e.GUID != "" {
		fmt.Fprintf(&b, " (%s/%s)", e.Model, e.GUID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Fields.Error())
	}
	return b.String()
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// ValidationErrors aggregates the per-entity failures of one batch.
type ValidationErrors struct {
	Entities []*EntityError
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, len(e.Entities))
	for i, ee := range e.Entities {
		parts[i] = ee.Error()
	}
	return fmt.Sprintf("validation failed for %d entities: %s", len(e.Entities), strings.Join(parts, "; "))
}

func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Entities))
	for i, ee := range e.Entities {
		errs[i] = ee
	}
	return errs
}

// Indexes returns the batch positions of the invalid entities.
func (e *ValidationErrors) Indexes() []int {
	idx := make([]int, len(e.Entities))
	for i, ee := range e.Entities {
		idx[i] = ee.Index
	}
	return idx
}

func newEntityError(err error, model, guid string) *EntityError {
	ee := &EntityError{Model: model, GUID: guid, Err: err}

	var fe validators.FieldErrors
	if errors.As(err, &fe) {
		ee.Fields = fe
		ee.Err = ErrInvalidEntity
	}
	return ee
}
