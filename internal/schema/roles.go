// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import (
	"slices"

	"github.com/MKhiriev/go-entity-sync/models"
)

// ForRole returns the models visible to role. A model without a role list
// is visible to every role.
func (d *Definition) ForRole(role string) []models.Model {
	visible := make([]models.Model, 0, len(d.Models))
	for _, m := range d.Models {
		if len(m.Roles) == 0 || slices.Contains(m.Roles, role) {
			visible = append(visible, m)
		}
	}
	return visible
}
