// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownModel    = errors.New("unknown model for validation")
)

// Validation codes reported in FieldError.Code.
const (
	CodeRequired      = "required"
	CodeTooLong       = "too_long"
	CodeNotInteger    = "not_integer"
	CodeNotDecimal    = "not_decimal"
	CodeNotBoolean    = "not_boolean"
	CodeNotDate       = "not_date"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooManyDigits = "too_many_decimal_places"
	CodeUnknownField  = "unknown_field"
	CodeDuplicateGUID = "duplicate_guid"
)

// FieldError describes why one field value was rejected.
type FieldError struct {
	Field string `json:"field" yaml:"field"`
	Code  string `json:"code" yaml:"code"`
	// Limit is the violated bound for too_long, too_small, too_big and
	// too_many_decimal_places.
	Limit string `json:"limit,omitempty" yaml:"limit,omitempty"`
}

func (e FieldError) String() string {
	if e.Limit != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Code, e.Limit)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// FieldErrors is the list of failing fields of one entity.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.String()
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Has reports whether field failed with code.
func (e FieldErrors) Has(field, code string) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Code == code {
			return true
		}
	}
	return false
}
