// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"

	"github.com/MKhiriev/go-entity-sync/models"
)

// Mapper converts one domain type to and from wire entities of one model.
type Mapper interface {
	// TypeID is the mapping type identifier the mapper handles.
	TypeID() string
	// Model is the name of the model the mapper produces.
	Model() string
	// ToEntity converts obj. The codec fills in the model name.
	ToEntity(obj Object) (models.JSONEntity, error)
	// FromEntity builds a domain object from e.
	FromEntity(e models.JSONEntity) (Object, error)
}

type funcMapper[T Object] struct {
	typeID string
	model  string
	to     func(T) models.JSONEntity
	from   func(models.JSONEntity) (T, error)
}

// MapperOf builds a Mapper for the concrete type T from a pair of
// conversion functions.
func MapperOf[T Object](typeID, model string, to func(T) models.JSONEntity, from func(models.JSONEntity) (T, error)) Mapper {
	return &funcMapper[T]{typeID: typeID, model: model, to: to, from: from}
}

func (m *funcMapper[T]) TypeID() string { return m.typeID }

func (m *funcMapper[T]) Model() string { return m.model }

func (m *funcMapper[T]) ToEntity(obj Object) (models.JSONEntity, error) {
	value, ok := obj.(T)
	if !ok {
		return models.JSONEntity{}, fmt.Errorf("%w: %T for %s", ErrTypeMismatch, obj, m.typeID)
	}
	return m.to(value), nil
}

func (m *funcMapper[T]) FromEntity(e models.JSONEntity) (Object, error) {
	return m.from(e)
}

// Registry resolves mappers by type identifier and by model name. It is
// immutable after NewRegistry returns.
type Registry struct {
	models  []models.Model
	byName  map[string]models.Model
	byType  map[string]Mapper
	byModel map[string]Mapper
}

// NewRegistry builds a registry for ms. Every mapper must name one of ms and
// use the mapping type declared for that model.
func NewRegistry(ms []models.Model, mappers ...Mapper) (*Registry, error) {
	r := &Registry{
		models:  ms,
		byName:  make(map[string]models.Model, len(ms)),
		byType:  make(map[string]Mapper, len(mappers)),
		byModel: make(map[string]Mapper, len(mappers)),
	}
	for _, m := range ms {
		r.byName[m.Name] = m
	}

	for _, mapper := range mappers {
		model, ok := r.byName[mapper.Model()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, mapper.Model())
		}
		if model.MappingType != "" && model.MappingType != mapper.TypeID() {
			return nil, fmt.Errorf("%w: model %s declares type %s, mapper handles %s",
				ErrTypeMismatch, model.Name, model.MappingType, mapper.TypeID())
		}
		if _, dup := r.byType[mapper.TypeID()]; dup {
			return nil, fmt.Errorf("%w: type %s", ErrDuplicateMapper, mapper.TypeID())
		}
		if _, dup := r.byModel[mapper.Model()]; dup {
			return nil, fmt.Errorf("%w: model %s", ErrDuplicateMapper, mapper.Model())
		}

		r.byType[mapper.TypeID()] = mapper
		r.byModel[mapper.Model()] = mapper
	}

	return r, nil
}

// Models returns the models known to the registry.
func (r *Registry) Models() []models.Model {
	return r.models
}

// Model returns the named model.
func (r *Registry) Model(name string) (models.Model, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// ByType returns the mapper registered for typeID.
func (r *Registry) ByType(typeID string) (Mapper, bool) {
	m, ok := r.byType[typeID]
	return m, ok
}

// ByModel returns the mapper registered for the named model.
func (r *Registry) ByModel(name string) (Mapper, bool) {
	m, ok := r.byModel[name]
	return m, ok
}
