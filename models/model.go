// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FieldType names the value type of a model field.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldInteger   FieldType = "integer"
	FieldDecimal   FieldType = "decimal"
	FieldBoolean   FieldType = "boolean"
	FieldDate      FieldType = "date"
	FieldBelongsTo FieldType = "belongs_to"
	FieldFile      FieldType = "file"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldInteger, FieldDecimal, FieldBoolean, FieldDate, FieldBelongsTo, FieldFile:
		return true
	}
	return false
}

// FieldDefinition describes one field of a [Model].
type FieldDefinition struct {
	Name     string    `json:"name" yaml:"name" toml:"name"`
	Type     FieldType `json:"type" yaml:"type" toml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`

	// MaxLength bounds text values in characters. Zero means unbounded.
	MaxLength int `json:"max_length,omitempty" yaml:"max_length,omitempty" toml:"max_length,omitempty"`
	// Min and Max bound integer and decimal values.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	// Scale is the maximum number of decimal places of a decimal value.
	// Zero means unbounded.
	Scale int `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
	// References names the target model of a belongs_to field.
	References string `json:"references,omitempty" yaml:"references,omitempty" toml:"references,omitempty"`
}

// Model identifies an entity type: its name, the stable mapping type
// identifier used by typed codecs, and its field schema. A model is
// immutable once the registry holding it has been built.
type Model struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	MappingType string            `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Roles       []string          `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields" toml:"fields"`
}

// Field returns the definition of the named field.
func (m Model) Field(name string) (FieldDefinition, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}
