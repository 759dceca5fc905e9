// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ConflictState marks whether the backend detected concurrent edits of an
// entity.
type ConflictState string

const (
	ConflictNone       ConflictState = "NONE"
	ConflictInConflict ConflictState = "IN_CONFLICT"
)

// UnmarshalJSON accepts the legacy "NO_IN_CONFLICT" spelling and treats an
// empty value as [ConflictNone].
func (c *ConflictState) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	switch s {
	case "", string(ConflictNone), "NO_IN_CONFLICT":
		*c = ConflictNone
	case string(ConflictInConflict):
		*c = ConflictInConflict
	default:
		return fmt.Errorf("unknown conflict state %q", s)
	}
	return nil
}

// JSONEntity is the wire record exchanged with the backend.
type JSONEntity struct {
	// Model is the name of the [Model] the record belongs to.
	Model string `json:"model"`
	// GUID identifies the record; unique within one sync batch.
	GUID string `json:"guid"`
	// Owner is the login of the user that owns the record.
	Owner string `json:"owner,omitempty"`
	// ConflictState is NONE unless the backend found concurrent edits.
	ConflictState ConflictState `json:"conflictState"`
	// Fields holds the record values keyed by field name.
	Fields map[string]string `json:"fields"`
}

// Conflicted reports whether the entity is marked as conflicting.
func (e JSONEntity) Conflicted() bool {
	return e.ConflictState == ConflictInConflict
}

// ConflictVersion is one wire entry of a conflict history payload.
type ConflictVersion struct {
	JSONEntity
	User      string    `json:"user"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}

// EntityVersion is a decoded historical snapshot of one entity.
type EntityVersion struct {
	// Entity is the decoded object: a mapped domain object in typed mode or
	// a map[string]string in untyped mode.
	Entity    any
	User      string
	Device    string
	Timestamp time.Time
}

// File is an attachment referenced from entity fields by GUID.
type File struct {
	GUID string
	// Name is optional and informational only.
	Name    string
	Content io.Reader
}
