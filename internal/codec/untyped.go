// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-entity-sync/internal/validators"
	"github.com/MKhiriev/go-entity-sync/models"
)

type untypedCodec struct {
	validator validators.Validator
}

// NewUntyped returns a codec working on map[string]string field maps. When
// models are given, encoded entities are validated against their schemas;
// without models only the model and guid pseudo-fields are required.
func NewUntyped(ms ...models.Model) EntityCodec {
	c := &untypedCodec{}
	if len(ms) > 0 {
		c.validator = validators.NewEntityValidator(ms)
	}
	return c
}

func (c *untypedCodec) Typed() bool { return false }

func (c *untypedCodec) Encode(obj any) (models.JSONEntity, error) {
	fields, ok := obj.(map[string]string)
	if !ok {
		return models.JSONEntity{}, newEntityError(fmt.Errorf("%w: %T", ErrNotAFieldMap, obj), "", "")
	}

	entity := models.JSONEntity{
		Model:         fields[KeyModel],
		GUID:          fields[KeyGUID],
		Owner:         fields[KeyOwner],
		ConflictState: models.ConflictNone,
		Fields:        make(map[string]string, len(fields)),
	}
	for k, v := range fields {
		switch k {
		case KeyModel, KeyGUID, KeyOwner, KeyConflicted:
		default:
			entity.Fields[k] = v
		}
	}

	var errs validators.FieldErrors
	if entity.Model == "" {
		errs = append(errs, validators.FieldError{Field: KeyModel, Code: validators.CodeRequired})
	}
	if entity.GUID == "" {
		errs = append(errs, validators.FieldError{Field: KeyGUID, Code: validators.CodeRequired})
	}
	switch fields[KeyConflicted] {
	case "", "false":
	case "true":
		entity.ConflictState = models.ConflictInConflict
	default:
		errs = append(errs, validators.FieldError{Field: KeyConflicted, Code: validators.CodeNotBoolean})
	}
	if len(errs) > 0 {
		return models.JSONEntity{}, newEntityError(errs, entity.Model, entity.GUID)
	}

	if c.validator != nil {
		if err := c.validator.Validate(context.Background(), entity); err != nil {
			if errors.Is(err, validators.ErrUnknownModel) {
				err = fmt.Errorf("%w: %q", ErrModelNotRegistered, entity.Model)
			}
			return models.JSONEntity{}, newEntityError(err, entity.Model, entity.GUID)
		}
	}

	return entity, nil
}

func (c *untypedCodec) Decode(e models.JSONEntity) (any, error) {
	for _, k := range []string{KeyModel, KeyGUID, KeyOwner, KeyConflicted} {
		if _, ok := e.Fields[k]; ok {
			return nil, fmt.Errorf("%w: %s/%s has a field %q", ErrReservedField, e.Model, e.GUID, k)
		}
	}

	out := make(map[string]string, len(e.Fields)+4)
	maps.Copy(out, e.Fields)

	out[KeyModel] = e.Model
	out[KeyGUID] = e.GUID
	out[KeyOwner] = e.Owner
	if e.Conflicted() {
		out[KeyConflicted] = "true"
	} else {
		out[KeyConflicted] = "false"
	}

	return out, nil
}
