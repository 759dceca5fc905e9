// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-entity-sync/internal/validators"
	"github.com/MKhiriev/go-entity-sync/models"
)

type typedCodec struct {
	registry  *Registry
	validator validators.Validator
}

// NewTyped returns a codec that converts registered domain objects. Encoded
// entities are validated against the field schema of their model.
func NewTyped(registry *Registry) EntityCodec {
	return &typedCodec{
		registry:  registry,
		validator: validators.NewEntityValidator(registry.Models()),
	}
}

func (c *typedCodec) Typed() bool { return true }

func (c *typedCodec) Encode(obj any) (models.JSONEntity, error) {
	object, ok := obj.(Object)
	if !ok {
		return models.JSONEntity{}, newEntityError(fmt.Errorf("%w: %T", ErrNotAnObject, obj), "", "")
	}

	mapper, ok := c.registry.ByType(object.TypeID())
	if !ok {
		return models.JSONEntity{}, newEntityError(fmt.Errorf("%w: %s", ErrTypeNotRegistered, object.TypeID()), "", "")
	}

	entity, err := mapper.ToEntity(object)
	if err != nil {
		return models.JSONEntity{}, newEntityError(err, mapper.Model(), "")
	}
	entity.Model = mapper.Model()
	if entity.ConflictState == "" {
		entity.ConflictState = models.ConflictNone
	}
	if entity.Fields == nil {
		entity.Fields = map[string]string{}
	}

	if err = c.validator.Validate(context.Background(), entity); err != nil {
		return models.JSONEntity{}, newEntityError(err, entity.Model, entity.GUID)
	}

	return entity, nil
}

func (c *typedCodec) Decode(e models.JSONEntity) (any, error) {
	mapper, ok := c.registry.ByModel(e.Model)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotRegistered, e.Model)
	}

	obj, err := mapper.FromEntity(e)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s/%s: %w", e.Model, e.GUID, err)
	}
	return obj, nil
}
