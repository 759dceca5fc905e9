// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrReleased is returned when a released handle is used.
var ErrReleased = errors.New("staging file already released")

// Handle owns one staging file.
type Handle struct {
	store *Store
	name  string
	kind  Kind

	mu       sync.Mutex
	released bool
	closers  []io.Closer
}

// Name returns the file name within the store.
func (h *Handle) Name() string { return h.name }

// Kind returns the purpose of the file.
func (h *Handle) Kind() Kind { return h.kind }

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// OpenWrite truncates the file and opens it for writing.
func (h *Handle) OpenWrite() (io.WriteCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, ErrReleased
	}

	f, err := h.store.fs.OpenFile(h.name, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("error opening staging file %s for writing: %w", h.name, err)
	}
	h.closers = append(h.closers, f)
	return f, nil
}

// Open opens the file for reading.
func (h *Handle) Open() (io.ReadCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, ErrReleased
	}

	f, err := h.store.fs.Open(h.name)
	if err != nil {
		return nil, fmt.Errorf("error opening staging file %s: %w", h.name, err)
	}
	h.closers = append(h.closers, f)
	return f, nil
}

// Size returns the current size of the file in bytes.
func (h *Handle) Size() (int64, error) {
	info, err := h.store.fs.Stat(h.name)
	if err != nil {
		return 0, fmt.Errorf("error reading staging file size: %w", err)
	}
	return info.Size(), nil
}

// Release closes every stream opened through the handle and deletes the
// file. Only the first call has an effect. Failures are logged.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	closers := h.closers
	h.closers = nil
	h.mu.Unlock()

	for _, c := range closers {
		_ = c.Close() // streams closed by their users report os.ErrClosed
	}

	if err := h.store.fs.Remove(h.name); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.store.logger.Warn().Err(err).Str("func", "Handle.Release").Str("file", h.name).Msg("failed to remove staging file")
		return
	}
	h.store.logger.Debug().Str("func", "Handle.Release").Str("file", h.name).Msg("staging file removed")
}
