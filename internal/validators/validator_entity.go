// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-entity-sync/models"
)

// Pseudo-field names validated outside of the field map.
const (
	FieldModel = "model"
	FieldGUID  = "guid"
)

// EntityValidator checks wire entities against the field schema of their
// model.
type EntityValidator struct {
	models map[string]models.Model
}

// NewEntityValidator constructs an EntityValidator for the given models
// and returns it as the Validator interface.
func NewEntityValidator(ms []models.Model) Validator {
	byName := make(map[string]models.Model, len(ms))
	for _, m := range ms {
		byName[m.Name] = m
	}
	return &EntityValidator{models: byName}
}

// Validate checks a models.JSONEntity (value or pointer). When fields are
// given only those fields are checked; otherwise the guid, every declared
// field and every undeclared field in the map are checked.
//
// It returns FieldErrors when values are rejected, ErrUnknownModel when the
// entity names a model the validator does not know, and ErrUnsupportedType
// for any other input.
func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.JSONEntity:
		return v.validateEntity(ctx, value, fields...)
	case *models.JSONEntity:
		return v.validateEntity(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntity(_ context.Context, entity models.JSONEntity, fields ...string) error {
	model, ok := v.models[entity.Model]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, entity.Model)
	}

	if len(fields) == 0 {
		fields = append(fields, FieldGUID)
		for _, f := range model.Fields {
			fields = append(fields, f.Name)
		}
		for name := range entity.Fields {
			if _, declared := model.Field(name); !declared {
				fields = append(fields, name)
			}
		}
		slices.Sort(fields[1+len(model.Fields):])
	}

	var errs FieldErrors
	for _, name := range fields {
		if name == FieldGUID {
			if entity.GUID == "" {
				errs = append(errs, FieldError{Field: FieldGUID, Code: CodeRequired})
			}
			continue
		}

		def, declared := model.Field(name)
		if !declared {
			errs = append(errs, FieldError{Field: name, Code: CodeUnknownField})
			continue
		}

		if fe, bad := validateValue(def, entity.Fields[name]); bad {
			errs = append(errs, fe)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateValue(def models.FieldDefinition, value string) (FieldError, bool) {
	fail := func(code, limit string) (FieldError, bool) {
		return FieldError{Field: def.Name, Code: code, Limit: limit}, true
	}

	if value == "" {
		if def.Required {
			return fail(CodeRequired, "")
		}
		return FieldError{}, false
	}

	switch def.Type {
	case models.FieldText, models.FieldBelongsTo, models.FieldFile:
		if def.MaxLength > 0 && utf8.RuneCountInString(value) > def.MaxLength {
			return fail(CodeTooLong, strconv.Itoa(def.MaxLength))
		}

	case models.FieldInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fail(CodeNotInteger, "")
		}
		return checkBounds(def, float64(n))

	case models.FieldDecimal:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fail(CodeNotDecimal, "")
		}
		if def.Scale > 0 {
			if _, frac, found := strings.Cut(value, "."); found && len(frac) > def.Scale {
				return fail(CodeTooManyDigits, strconv.Itoa(def.Scale))
			}
		}
		return checkBounds(def, f)

	case models.FieldBoolean:
		if value != "true" && value != "false" {
			return fail(CodeNotBoolean, "")
		}

	case models.FieldDate:
		if !isDate(value) {
			return fail(CodeNotDate, "")
		}
	}

	return FieldError{}, false
}

func checkBounds(def models.FieldDefinition, n float64) (FieldError, bool) {
	if def.Min != nil && n < *def.Min {
		return FieldError{Field: def.Name, Code: CodeTooSmall, Limit: formatBound(*def.Min)}, true
	}
	if def.Max != nil && n > *def.Max {
		return FieldError{Field: def.Name, Code: CodeTooBig, Limit: formatBound(*def.Max)}, true
	}
	return FieldError{}, false
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// isDate accepts milliseconds since the Unix epoch or an RFC 3339 timestamp.
func isDate(value string) bool {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}
