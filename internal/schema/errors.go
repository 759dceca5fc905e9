// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported definition format")
	ErrMalformedDefinition = errors.New("malformed definition")

	ErrNoModels             = errors.New("definition declares no models")
	ErrEmptyModelName       = errors.New("model name is required")
	ErrDuplicateModel       = errors.New("duplicate model name")
	ErrDuplicateMappingType = errors.New("duplicate mapping type")
	ErrEmptyFieldName       = errors.New("field name is required")
	ErrDuplicateField       = errors.New("duplicate field name")
	ErrReservedField        = errors.New("field name is reserved")
	ErrUnknownFieldType     = errors.New("unknown field type")
	ErrInvalidBounds        = errors.New("min is greater than max")
	ErrUnknownReference     = errors.New("belongs_to references an unknown model")
)
