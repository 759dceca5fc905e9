// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package schema loads the declared application definition: the list of
// models the client synchronizes, their field schemas and the roles allowed
// to see them.
//
// A definition is declared in YAML, TOML or JSON. The format is selected by
// file extension:
//
//	vendor: acme
//	application: tasks
//	models:
//	  - name: Task
//	    type: task
//	    roles: [owner]
//	    fields:
//	      - {name: title, type: text, required: true, max_length: 120}
//	      - {name: done, type: boolean}
//
// The SHA-256 digest of the source bytes identifies the definition version
// towards the backend.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Definition is a parsed application definition.
type Definition struct {
	Vendor      string         `json:"vendor" yaml:"vendor" toml:"vendor"`
	Application string         `json:"application" yaml:"application" toml:"application"`
	Version     string         `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Models      []models.Model `json:"models" yaml:"models" toml:"models"`

	// Digest is the hex SHA-256 of the source document.
	Digest string `json:"-" yaml:"-" toml:"-"`
}

// FormatFromPath derives the definition format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses the definition file at path.
func Load(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading definition file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes data in the given format and checks the definition for
// consistency. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Definition, error) {
	var def Definition

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDefinition, err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &def)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDefinition, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrMalformedDefinition, undecoded[0])
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDefinition, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := def.check(); err != nil {
		return nil, err
	}

	def.Digest = utils.HashString(data)
	return &def, nil
}

// Model returns the model with the given name.
func (d *Definition) Model(name string) (models.Model, bool) {
	for _, m := range d.Models {
		if m.Name == name {
			return m, true
		}
	}
	return models.Model{}, false
}

func (d *Definition) check() error {
	var errs []error

	if len(d.Models) == 0 {
		errs = append(errs, ErrNoModels)
	}

	names := make(map[string]struct{}, len(d.Models))
	types := make(map[string]struct{}, len(d.Models))
	for i := range d.Models {
		m := &d.Models[i]
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("model #%d: %w", i, ErrEmptyModelName))
			continue
		}
		if _, dup := names[m.Name]; dup {
			errs = append(errs, fmt.Errorf("model %s: %w", m.Name, ErrDuplicateModel))
		}
		names[m.Name] = struct{}{}

		if m.MappingType == "" {
			m.MappingType = m.Name
		}
		if _, dup := types[m.MappingType]; dup {
			errs = append(errs, fmt.Errorf("model %s: %w: %s", m.Name, ErrDuplicateMappingType, m.MappingType))
		}
		types[m.MappingType] = struct{}{}

		errs = append(errs, checkFields(*m)...)
	}

	for _, m := range d.Models {
		for _, f := range m.Fields {
			if f.Type != models.FieldBelongsTo {
				continue
			}
			if _, ok := names[f.References]; !ok {
				errs = append(errs, fmt.Errorf("model %s field %s: %w: %q", m.Name, f.Name, ErrUnknownReference, f.References))
			}
		}
	}

	return errors.Join(errs...)
}

func checkFields(m models.Model) []error {
	var errs []error
	seen := make(map[string]struct{}, len(m.Fields))

	for _, f := range m.Fields {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("model %s: %w", m.Name, ErrEmptyFieldName))
			continue
		case isReservedField(f.Name):
			errs = append(errs, fmt.Errorf("model %s field %s: %w", m.Name, f.Name, ErrReservedField))
		case !f.Type.Valid():
			errs = append(errs, fmt.Errorf("model %s field %s: %w: %q", m.Name, f.Name, ErrUnknownFieldType, f.Type))
		case f.Min != nil && f.Max != nil && *f.Min > *f.Max:
			errs = append(errs, fmt.Errorf("model %s field %s: %w", m.Name, f.Name, ErrInvalidBounds))
		}

		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("model %s field %s: %w", m.Name, f.Name, ErrDuplicateField))
		}
		seen[f.Name] = struct{}{}
	}

	return errs
}

// ReservedFields are the pseudo-fields every entity carries outside of its
// field map.
var ReservedFields = []string{"model", "guid", "owner", "conflicted"}

func isReservedField(name string) bool {
	for _, r := range ReservedFields {
		if r == name {
			return true
		}
	}
	return false
}
