// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"errors"

	"github.com/MKhiriev/go-entity-sync/internal/validators"
	"github.com/MKhiriev/go-entity-sync/models"
)

// EncodeAll encodes objs in order and hands every entity to emit as long as
// no object has failed. Encoding continues past invalid objects so that all
// of them are reported in one *ValidationErrors. A guid repeated within the
// batch is reported as duplicate_guid. An error returned by emit aborts the
// batch and is returned unchanged.
func EncodeAll(c EntityCodec, objs []any, emit func(models.JSONEntity) error) error {
	var invalid []*EntityError
	seen := make(map[string]int, len(objs))

	for i, obj := range objs {
		entity, err := c.Encode(obj)
		if err != nil {
			var ee *EntityError
			if !errors.As(err, &ee) {
				ee = newEntityError(err, "", "")
			}
			ee.Index = i
			invalid = append(invalid, ee)
			continue
		}

		if _, dup := seen[entity.GUID]; dup {
			invalid = append(invalid, &EntityError{
				Index:  i,
				Model:  entity.Model,
				GUID:   entity.GUID,
				Fields: validators.FieldErrors{{Field: KeyGUID, Code: validators.CodeDuplicateGUID}},
				Err:    ErrInvalidEntity,
			})
			continue
		}
		seen[entity.GUID] = i

		if len(invalid) > 0 {
			continue
		}
		if err = emit(entity); err != nil {
			return err
		}
	}

	if len(invalid) > 0 {
		return &ValidationErrors{Entities: invalid}
	}
	return nil
}
