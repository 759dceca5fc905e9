// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec maps domain objects to wire entities and back.
//
// Two implementations exist and one is chosen once, when the client is
// assembled:
//   - typed: objects implement [Object] and are converted by a [Mapper]
//     registered for their type identifier in a [Registry];
//   - untyped: objects are map[string]string field maps carrying the
//     "model", "guid", "owner" and "conflicted" pseudo-fields.
package codec

import (
	"github.com/MKhiriev/go-entity-sync/models"
)

// Pseudo-field keys used by the untyped codec. Models synchronized in
// untyped mode cannot declare fields with these names.
const (
	KeyModel      = "model"
	KeyGUID       = "guid"
	KeyOwner      = "owner"
	KeyConflicted = "conflicted"
)

// Object is a domain object that can be synchronized in typed mode.
// TypeID returns the stable mapping type identifier declared for its model.
type Object interface {
	TypeID() string
}

// EntityCodec converts between domain objects and wire entities.
type EntityCodec interface {
	// Encode converts obj into a wire entity. An invalid object yields an
	// *EntityError.
	Encode(obj any) (models.JSONEntity, error)
	// Decode converts a wire entity into a domain object. An entity whose
	// model has no registered mapping yields ErrModelNotRegistered.
	Decode(e models.JSONEntity) (any, error)
	// Typed reports whether the codec works with registered mappers.
	Typed() bool
}

// New returns a typed codec when registry is not nil and an untyped codec
// otherwise.
func New(registry *Registry) EntityCodec {
	if registry == nil {
		return NewUntyped()
	}
	return NewTyped(registry)
}

// DecodeVersion decodes one wire history entry.
func DecodeVersion(c EntityCodec, v models.ConflictVersion) (models.EntityVersion, error) {
	entity, err := c.Decode(v.JSONEntity)
	if err != nil {
		return models.EntityVersion{}, err
	}

	return models.EntityVersion{
		Entity:    entity,
		User:      v.User,
		Device:    v.Device,
		Timestamp: v.Timestamp,
	}, nil
}
