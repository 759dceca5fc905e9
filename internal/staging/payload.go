// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package staging

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-entity-sync/models"
)

// Entry names of the payload container.
const (
	EntryData         = "data"
	EntryDeletedFiles = "deletedFiles"
	EntryFilesPrefix  = "files/"
)

var (
	ErrDataSectionClosed = errors.New("entity stream already closed")
	ErrWriterClosed      = errors.New("payload writer closed")
	ErrFileNotFound      = errors.New("file not found in payload")
	ErrMissingData       = errors.New("payload has no data entry")
)

type writerPhase int

const (
	phaseData writerPhase = iota
	phaseFiles
	phaseClosed
)

// PayloadWriter writes a payload sequentially: entity records first, then
// file blobs, then the list of deleted files.
type PayloadWriter struct {
	out   io.WriteCloser
	zw    *zip.Writer
	data  *json.Encoder
	phase writerPhase

	entities int
	files    int
}

// NewWriter truncates the handle's file and starts a payload.
func (h *Handle) NewWriter() (*PayloadWriter, error) {
	out, err := h.OpenWrite()
	if err != nil {
		return nil, err
	}

	zw := zip.NewWriter(out)
	data, err := zw.Create(EntryData)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("error creating data entry: %w", err)
	}

	return &PayloadWriter{out: out, zw: zw, data: json.NewEncoder(data)}, nil
}

// WriteEntity appends one entity record. It fails once a file or the
// deleted-file list has been written.
func (w *PayloadWriter) WriteEntity(e models.JSONEntity) error {
	if w.phase != phaseData {
		return ErrDataSectionClosed
	}
	if err := w.data.Encode(e); err != nil {
		return fmt.Errorf("error writing entity %s: %w", e.GUID, err)
	}
	w.entities++
	return nil
}

// WriteVersion appends one conflict history record.
func (w *PayloadWriter) WriteVersion(v models.ConflictVersion) error {
	if w.phase != phaseData {
		return ErrDataSectionClosed
	}
	if err := w.data.Encode(v); err != nil {
		return fmt.Errorf("error writing version of %s: %w", v.GUID, err)
	}
	w.entities++
	return nil
}

// WriteFile appends the content of one attachment.
func (w *PayloadWriter) WriteFile(guid string, content io.Reader) error {
	if w.phase == phaseClosed {
		return ErrWriterClosed
	}
	if guid == "" || strings.Contains(guid, "/") {
		return fmt.Errorf("invalid file guid %q", guid)
	}
	w.phase = phaseFiles

	entry, err := w.zw.Create(EntryFilesPrefix + guid)
	if err != nil {
		return fmt.Errorf("error creating file entry %s: %w", guid, err)
	}
	if content != nil {
		if _, err = io.Copy(entry, content); err != nil {
			return fmt.Errorf("error writing file %s: %w", guid, err)
		}
	}
	w.files++
	return nil
}

// WriteDeletedFiles writes the list of deleted file guids, one per line.
func (w *PayloadWriter) WriteDeletedFiles(guids []string) error {
	if w.phase == phaseClosed {
		return ErrWriterClosed
	}
	w.phase = phaseFiles

	entry, err := w.zw.Create(EntryDeletedFiles)
	if err != nil {
		return fmt.Errorf("error creating deleted files entry: %w", err)
	}
	bw := bufio.NewWriter(entry)
	for _, guid := range guids {
		if _, err = bw.WriteString(guid + "\n"); err != nil {
			return fmt.Errorf("error writing deleted files: %w", err)
		}
	}
	return bw.Flush()
}

// Counts returns the number of entity and file records written so far.
func (w *PayloadWriter) Counts() (entities, files int) {
	return w.entities, w.files
}

// Close finishes the container and closes the file.
func (w *PayloadWriter) Close() error {
	if w.phase == phaseClosed {
		return nil
	}
	w.phase = phaseClosed

	zipErr := w.zw.Close()
	closeErr := w.out.Close()
	if zipErr != nil {
		return fmt.Errorf("error finishing payload: %w", zipErr)
	}
	if closeErr != nil {
		return fmt.Errorf("error closing payload: %w", closeErr)
	}
	return nil
}

// PayloadReader reads a payload written by PayloadWriter or received from
// the backend.
type PayloadReader struct {
	in    io.ReadCloser
	zr    *zip.Reader
	files map[string]*zip.File

	data      io.ReadCloser
	dec       *json.Decoder
	closeOnce sync.Once
}

// NewReader opens the handle's file as a payload.
func (h *Handle) NewReader() (*PayloadReader, error) {
	size, err := h.Size()
	if err != nil {
		return nil, err
	}

	in, err := h.Open()
	if err != nil {
		return nil, err
	}
	readerAt, ok := in.(io.ReaderAt)
	if !ok {
		_ = in.Close()
		return nil, fmt.Errorf("staging file %s does not support random access", h.name)
	}

	zr, err := zip.NewReader(readerAt, size)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("error opening payload %s: %w", h.name, err)
	}

	r := &PayloadReader{in: in, zr: zr, files: make(map[string]*zip.File)}
	var dataEntry *zip.File
	for _, f := range zr.File {
		switch {
		case f.Name == EntryData:
			dataEntry = f
		case strings.HasPrefix(f.Name, EntryFilesPrefix):
			r.files[strings.TrimPrefix(f.Name, EntryFilesPrefix)] = f
		}
	}

	if dataEntry == nil {
		_ = in.Close()
		return nil, ErrMissingData
	}
	if r.data, err = dataEntry.Open(); err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("error opening data entry: %w", err)
	}
	r.dec = json.NewDecoder(r.data)

	return r, nil
}

// NextEntity returns the next entity record, or io.EOF after the last one.
func (r *PayloadReader) NextEntity() (models.JSONEntity, error) {
	var e models.JSONEntity
	if err := r.next(&e); err != nil {
		return models.JSONEntity{}, err
	}
	return e, nil
}

// NextVersion returns the next conflict history record, or io.EOF after
// the last one.
func (r *PayloadReader) NextVersion() (models.ConflictVersion, error) {
	var v models.ConflictVersion
	if err := r.next(&v); err != nil {
		return models.ConflictVersion{}, err
	}
	return v, nil
}

func (r *PayloadReader) next(v any) error {
	err := r.dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("error decoding payload record: %w", err)
	}
	return nil
}

// FileGUIDs returns the guids of the attachments in the payload, sorted.
func (r *PayloadReader) FileGUIDs() []string {
	guids := make([]string, 0, len(r.files))
	for guid := range r.files {
		guids = append(guids, guid)
	}
	slices.Sort(guids)
	return guids
}

// File returns a lazily opened reader for an attachment. The reader stays
// valid until the payload reader or its handle is closed.
func (r *PayloadReader) File(guid string) (io.Reader, error) {
	f, ok := r.files[guid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, guid)
	}
	return &entryReader{file: f}, nil
}

// DeletedFiles returns the deleted file guids. A payload without the
// entry has none.
func (r *PayloadReader) DeletedFiles() ([]string, error) {
	var entry *zip.File
	for _, f := range r.zr.File {
		if f.Name == EntryDeletedFiles {
			entry = f
			break
		}
	}
	if entry == nil {
		return []string{}, nil
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening deleted files entry: %w", err)
	}
	defer rc.Close()

	guids := make([]string, 0)
	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			guids = append(guids, line)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading deleted files: %w", err)
	}
	return guids, nil
}

// Close closes the data stream and the underlying file.
func (r *PayloadReader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		_ = r.data.Close()
		err = r.in.Close()
	})
	return err
}

type entryReader struct {
	file *zip.File
	rc   io.ReadCloser
	err  error
}

func (r *entryReader) Read(p []byte) (int, error) {
	if r.rc == nil && r.err == nil {
		r.rc, r.err = r.file.Open()
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.rc.Read(p)
}
