package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadEntities reads a JSON or YAML list of flat objects and returns them as
// untyped field maps. Scalar values are rendered with their default format.
func loadEntities(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	entities := make([]any, 0, len(raw))
	for i, obj := range raw {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			switch v.(type) {
			case nil:
				continue
			case map[string]any, []any:
				return nil, fmt.Errorf("entity #%d: field %q is not a scalar", i, k)
			}
			fields[k] = fmt.Sprint(v)
		}
		entities = append(entities, fields)
	}
	return entities, nil
}
