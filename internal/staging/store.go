// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package staging manages the temporary files that hold sync payloads.
//
// Every file is created through [Store.Create] and owned by the returned
// [Handle]. Releasing a handle deletes its file exactly once; deletion
// failures are logged and never returned, so that they cannot mask the
// outcome of the operation that owned the file.
package staging

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// payloadDir is the directory holding staging files inside the store
// filesystem.
const payloadDir = "payloads"

// Kind is the purpose of a staging file.
type Kind int

const (
	// KindOutgoing holds the payload of a diff sync before submission.
	KindOutgoing Kind = iota
	// KindIncoming holds the sync result fetched from the backend.
	KindIncoming
	// KindConflictHistory holds a fetched conflict history.
	KindConflictHistory
)

var kindPrefixes = map[Kind]string{
	KindOutgoing:        "sync-out",
	KindIncoming:        "sync-in",
	KindConflictHistory: "sync-history",
}

// Prefix returns the file name prefix used for the kind.
func (k Kind) Prefix() string {
	if p, ok := kindPrefixes[k]; ok {
		return p
	}
	return "sync-unknown"
}

func (k Kind) String() string {
	return k.Prefix()
}

// IDGenerator produces unique file name suffixes.
type IDGenerator interface {
	Generate() string
}

// Store creates staging files on a billy filesystem.
type Store struct {
	fs     billy.Filesystem
	ids    IDGenerator
	logger *logger.Logger
}

// NewStore returns a Store backed by fs.
func NewStore(fs billy.Filesystem, log *logger.Logger) *Store {
	return &Store{
		fs:     fs,
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

// NewOSStore returns a Store rooted at dir on the local disk. An empty dir
// selects a directory below the system temp directory.
func NewOSStore(dir string, log *logger.Logger) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "entity-sync")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("error creating staging dir: %w", err)
	}

	return NewStore(osfs.New(dir), log), nil
}

// NewMemoryStore returns a Store keeping its files in memory.
func NewMemoryStore(log *logger.Logger) *Store {
	return NewStore(memfs.New(), log)
}

// Create allocates a new, empty, uniquely named staging file.
func (s *Store) Create(kind Kind) (*Handle, error) {
	name := path.Join(payloadDir, kind.Prefix()+"-"+s.ids.Generate())

	f, err := s.fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("error creating staging file %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return nil, fmt.Errorf("error closing staging file %s: %w", name, err)
	}

	s.logger.Debug().Str("func", "Store.Create").Str("file", name).Msg("staging file created")
	return &Handle{store: s, name: name, kind: kind}, nil
}

// Exists reports whether the named staging file is present.
func (s *Store) Exists(name string) bool {
	_, err := s.fs.Stat(name)
	return err == nil
}

// List returns the names of all staging files currently present.
func (s *Store) List() ([]string, error) {
	infos, err := s.readDir()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() && isStagingName(info.Name()) {
			names = append(names, path.Join(payloadDir, info.Name()))
		}
	}
	return names, nil
}

func (s *Store) readDir() ([]os.FileInfo, error) {
	infos, err := s.fs.ReadDir(payloadDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error listing staging files: %w", err)
	}
	return infos, nil
}

// Sweep removes staging files left behind by an earlier process that were
// last modified more than olderThan ago; a non-positive olderThan removes
// every staging file. It returns the number of removed files.
func (s *Store) Sweep(olderThan time.Duration) (int, error) {
	infos, err := s.readDir()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, info := range infos {
		if info.IsDir() || !isStagingName(info.Name()) {
			continue
		}
		if olderThan > 0 && info.ModTime().After(cutoff) {
			continue
		}
		if err = s.fs.Remove(path.Join(payloadDir, info.Name())); err != nil {
			s.logger.Warn().Err(err).Str("func", "Store.Sweep").Str("file", info.Name()).Msg("failed to remove stale staging file")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Str("func", "Store.Sweep").Int("removed", removed).Msg("stale staging files removed")
	}
	return removed, nil
}

func isStagingName(name string) bool {
	for _, prefix := range kindPrefixes {
		if strings.HasPrefix(name, prefix+"-") {
			return true
		}
	}
	return false
}
