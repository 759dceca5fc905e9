// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDefinition = `
vendor: acme
application: tasks
version: "3"
models:
  - name: Project
    fields:
      - {name: name, type: text, required: true}
  - name: Task
    type: task
    roles: [owner, admin]
    fields:
      - {name: title, type: text, required: true, max_length: 120}
      - {name: estimate, type: decimal, min: 0, scale: 2}
      - {name: project, type: belongs_to, references: Project}
`

const tomlDefinition = `
vendor = "acme"
application = "tasks"

[[models]]
name = "Task"
type = "task"

  [[models.fields]]
  name = "title"
  type = "text"
  required = true
  max_length = 120

  [[models.fields]]
  name = "priority"
  type = "integer"
  min = 1.0
  max = 5.0
`

const jsonDefinition = `{
  "vendor": "acme",
  "application": "tasks",
  "models": [
    {"name": "Task", "fields": [{"name": "done", "type": "boolean"}]}
  ]
}`

// ── Parse ─────────────────────────────────────────────────────────────────────

func TestParse_YAML(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "acme", def.Vendor)
	assert.Equal(t, "3", def.Version)
	require.Len(t, def.Models, 2)

	project, ok := def.Model("Project")
	require.True(t, ok)
	assert.Equal(t, "Project", project.MappingType, "mapping type defaults to the model name")

	task, ok := def.Model("Task")
	require.True(t, ok)
	assert.Equal(t, "task", task.MappingType)
	assert.Equal(t, []string{"owner", "admin"}, task.Roles)

	estimate, ok := task.Field("estimate")
	require.True(t, ok)
	assert.Equal(t, models.FieldDecimal, estimate.Type)
	require.NotNil(t, estimate.Min)
	assert.Equal(t, 0.0, *estimate.Min)
	assert.Nil(t, estimate.Max)
	assert.Equal(t, 2, estimate.Scale)

	assert.Equal(t, utils.HashString([]byte(yamlDefinition)), def.Digest)
}

func TestParse_TOML(t *testing.T) {
	def, err := Parse([]byte(tomlDefinition), FormatTOML)
	require.NoError(t, err)

	task, ok := def.Model("Task")
	require.True(t, ok)
	require.Len(t, task.Fields, 2)

	title := task.Fields[0]
	assert.True(t, title.Required)
	assert.Equal(t, 120, title.MaxLength)

	priority := task.Fields[1]
	require.NotNil(t, priority.Max)
	assert.Equal(t, 5.0, *priority.Max)
}

func TestParse_JSON(t *testing.T) {
	def, err := Parse([]byte(jsonDefinition), FormatJSON)
	require.NoError(t, err)
	require.Len(t, def.Models, 1)
	assert.Equal(t, models.FieldBoolean, def.Models[0].Fields[0].Type)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "yaml", data: "vendor: a\ncolour: red\nmodels: []\n", format: FormatYAML},
		{name: "toml", data: "vendor = \"a\"\ncolour = \"red\"\n", format: FormatTOML},
		{name: "json", data: `{"vendor":"a","colour":"red"}`, format: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDefinition)
		})
	}
}

func TestParse_ConsistencyErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "no models",
			doc:  `{"vendor":"a","models":[]}`,
			want: ErrNoModels,
		},
		{
			name: "duplicate model",
			doc:  `{"models":[{"name":"A","fields":[]},{"name":"A","type":"a2","fields":[]}]}`,
			want: ErrDuplicateModel,
		},
		{
			name: "duplicate mapping type",
			doc:  `{"models":[{"name":"A","type":"x","fields":[]},{"name":"B","type":"x","fields":[]}]}`,
			want: ErrDuplicateMappingType,
		},
		{
			name: "unknown field type",
			doc:  `{"models":[{"name":"A","fields":[{"name":"f","type":"blob"}]}]}`,
			want: ErrUnknownFieldType,
		},
		{
			name: "reserved field",
			doc:  `{"models":[{"name":"A","fields":[{"name":"guid","type":"text"}]}]}`,
			want: ErrReservedField,
		},
		{
			name: "duplicate field",
			doc:  `{"models":[{"name":"A","fields":[{"name":"f","type":"text"},{"name":"f","type":"text"}]}]}`,
			want: ErrDuplicateField,
		},
		{
			name: "inverted bounds",
			doc:  `{"models":[{"name":"A","fields":[{"name":"f","type":"integer","min":5,"max":1}]}]}`,
			want: ErrInvalidBounds,
		},
		{
			name: "unknown reference",
			doc:  `{"models":[{"name":"A","fields":[{"name":"f","type":"belongs_to","references":"B"}]}]}`,
			want: ErrUnknownReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ── Load ──────────────────────────────────────────────────────────────────────

func TestLoad_DetectsFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "models.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDefinition), 0o600))
	tomlPath := filepath.Join(dir, "models.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlDefinition), 0o600))

	yamlDef, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, yamlDef.Models, 2)

	tomlDef, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Len(t, tomlDef.Models, 1)

	assert.NotEqual(t, yamlDef.Digest, tomlDef.Digest)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("models.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading definition file")
}

// ── ForRole ───────────────────────────────────────────────────────────────────

func TestForRole(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition), FormatYAML)
	require.NoError(t, err)

	names := func(ms []models.Model) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Project", "Task"}, names(def.ForRole("owner")))
	assert.Equal(t, []string{"Project"}, names(def.ForRole("guest")))
}
