// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package gatewaytest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/models"
)

// Payload is the decoded content of a sync payload.
type Payload struct {
	Entities     []models.JSONEntity
	Files        map[string][]byte
	DeletedFiles []string
}

// BuildPayload encodes p the way the backend sends it.
func BuildPayload(p Payload) ([]byte, error) {
	return build(func(w *staging.PayloadWriter) error {
		for _, e := range p.Entities {
			if err := w.WriteEntity(e); err != nil {
				return err
			}
		}
		for _, guid := range slices.Sorted(maps.Keys(p.Files)) {
			if err := w.WriteFile(guid, bytes.NewReader(p.Files[guid])); err != nil {
				return err
			}
		}
		if p.DeletedFiles != nil {
			return w.WriteDeletedFiles(p.DeletedFiles)
		}
		return nil
	})
}

// BuildHistory encodes a conflict history payload.
func BuildHistory(versions ...models.ConflictVersion) ([]byte, error) {
	return build(func(w *staging.PayloadWriter) error {
		for _, v := range versions {
			if err := w.WriteVersion(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadPayload decodes a payload uploaded by the client.
func ReadPayload(data []byte) (Payload, error) {
	store := staging.NewMemoryStore(logger.Nop())
	h, err := store.Create(staging.KindIncoming)
	if err != nil {
		return Payload{}, err
	}
	defer h.Release()

	if err = writeFile(h, data); err != nil {
		return Payload{}, err
	}

	r, err := h.NewReader()
	if err != nil {
		return Payload{}, err
	}
	defer r.Close()

	p := Payload{Files: make(map[string][]byte)}
	for {
		e, err := r.NextEntity()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Payload{}, err
		}
		p.Entities = append(p.Entities, e)
	}

	for _, guid := range r.FileGUIDs() {
		f, err := r.File(guid)
		if err != nil {
			return Payload{}, err
		}
		if p.Files[guid], err = io.ReadAll(f); err != nil {
			return Payload{}, fmt.Errorf("error reading file %s: %w", guid, err)
		}
	}

	if p.DeletedFiles, err = r.DeletedFiles(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func build(fill func(w *staging.PayloadWriter) error) ([]byte, error) {
	store := staging.NewMemoryStore(logger.Nop())
	h, err := store.Create(staging.KindOutgoing)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	w, err := h.NewWriter()
	if err != nil {
		return nil, err
	}
	if err = fill(w); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	rc, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeFile(h *staging.Handle, data []byte) error {
	out, err := h.OpenWrite()
	if err != nil {
		return err
	}
	if _, err = out.Write(data); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
