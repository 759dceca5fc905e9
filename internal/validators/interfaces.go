// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of model schemas on wire entities.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - FieldErrors: the per-field outcome of validating one entity; every
//     failing field is reported, not only the first.
//
// Usage patterns:
//  1. Build an EntityValidator from the models visible to the current role.
//  2. Inject it into the entity codec.
//  3. Call Validate with context, entity, and optional field names.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
