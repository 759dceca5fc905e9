package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/gatewaytest"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *gatewaytest.Backend {
	t.Helper()
	b := gatewaytest.New(
		gatewaytest.WithUser("alice", "secret", "owner"),
		gatewaytest.WithTickets("T1", "T2"),
	)
	t.Cleanup(b.Close)
	return b
}

func baseArgs(t *testing.T, url string) []string {
	t.Helper()
	return []string{
		"-u", url,
		"--user", "alice",
		"--password", "secret",
		"--device", "desktop",
		"--device-id", "d1",
		"--vendor", "acme",
		"--application", "tasks",
		"--staging-dir", t.TempDir(),
		"--poll-interval", "5ms",
		"--poll-max-interval", "20ms",
		"--poll-timeout", "2s",
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(newApp(models.NewAppBuildInfo("1.2.3", "2026-10-01", "abc123"), &out))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, map[string]string{"version": "1.2.3", "date": "2026-10-01", "commit": "abc123"}, info)
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "version", "-o", "xml")
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestAuth(t *testing.T) {
	b := newBackend(t)

	out, err := execute(t, append([]string{"auth"}, baseArgs(t, b.URL())...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated")
	assert.Contains(t, out, "owner")
}

func TestAuth_WrongPassword(t *testing.T) {
	b := newBackend(t)
	args := append([]string{"auth"}, baseArgs(t, b.URL())...)
	args = append(args, "--password", "nope")

	out, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, out, "authorization")
}

func TestAuth_MissingConfig(t *testing.T) {
	_, err := execute(t, "auth", "--user", "alice")
	require.Error(t, err)
}

func setSyncData(t *testing.T, b *gatewaytest.Backend) {
	t.Helper()
	payload, err := gatewaytest.BuildPayload(gatewaytest.Payload{
		Entities: []models.JSONEntity{{
			Model:         "Task",
			GUID:          "g1",
			ConflictState: models.ConflictNone,
			Fields:        map[string]string{"title": "buy milk"},
		}},
		Files:        map[string][]byte{"f1": []byte("attachment")},
		DeletedFiles: []string{"f0"},
	})
	require.NoError(t, err)
	b.SetSyncData(payload)
}

func TestSyncAll(t *testing.T) {
	b := newBackend(t)
	setSyncData(t, b)
	filesDir := filepath.Join(t.TempDir(), "files")

	args := append([]string{"sync", "all", "-o", "json", "--files-dir", filesDir}, baseArgs(t, b.URL())...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var report syncReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "T1", report.Ticket)
	assert.True(t, report.Confirmed)
	assert.Equal(t, []string{"f1"}, report.Files)
	assert.Equal(t, []string{"f0"}, report.DeletedFiles)
	require.Len(t, report.Entities, 1)
	assert.Equal(t, "buy milk", report.Entities[0].(map[string]any)["title"])

	assert.Equal(t, 1, b.Confirms("T1"))
	assert.Equal(t, models.SyncModeAll, b.Mode("T1"))

	saved, err := os.ReadFile(filepath.Join(filesDir, "f1"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", string(saved))
}

func TestSyncAll_NoConfirm(t *testing.T) {
	b := newBackend(t)
	setSyncData(t, b)

	args := append([]string{"sync", "all", "--no-confirm"}, baseArgs(t, b.URL())...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Sync T1")
	assert.NotContains(t, out, "Confirmed T1")
	assert.Equal(t, 0, b.Confirms("T1"))
}

func TestSyncDiff(t *testing.T) {
	b := newBackend(t)
	setSyncData(t, b)

	dir := t.TempDir()
	entities := filepath.Join(dir, "changes.yaml")
	require.NoError(t, os.WriteFile(entities, []byte(`
- model: Task
  guid: g2
  title: walk the dog
  priority: 2
`), 0o600))
	attachment := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(attachment, []byte("jpeg"), 0o600))

	args := append([]string{"sync", "diff", entities, "--file", "f9=" + attachment, "-o", "yaml"}, baseArgs(t, b.URL())...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "ticket: T1")

	uploads := b.Uploads()
	require.Len(t, uploads, 1)
	payload, err := gatewaytest.ReadPayload(uploads[0])
	require.NoError(t, err)
	require.Len(t, payload.Entities, 1)
	assert.Equal(t, "g2", payload.Entities[0].GUID)
	assert.Equal(t, map[string]string{"title": "walk the dog", "priority": "2"}, payload.Entities[0].Fields)
	assert.Equal(t, []byte("jpeg"), payload.Files["f9"])

	assert.Equal(t, models.SyncModeDiff, b.Mode("T1"))
	assert.Equal(t, 1, b.Confirms("T1"))
}

func TestSyncDiff_Invalid(t *testing.T) {
	b := newBackend(t)

	entities := filepath.Join(t.TempDir(), "changes.json")
	require.NoError(t, os.WriteFile(entities, []byte(`[{"model": "Task", "guid": "g1"}, {"model": "Task"}]`), 0o600))

	args := append([]string{"sync", "diff", entities}, baseArgs(t, b.URL())...)
	out, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, out, "validation")
	assert.Contains(t, out, "entity #1")
	assert.Empty(t, b.Uploads())
}

func TestSyncDiff_BadFileFlag(t *testing.T) {
	b := newBackend(t)
	entities := filepath.Join(t.TempDir(), "changes.json")
	require.NoError(t, os.WriteFile(entities, []byte(`[]`), 0o600))

	args := append([]string{"sync", "diff", entities, "--file", "no-separator"}, baseArgs(t, b.URL())...)
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Zero(t, b.Count(models.PathSyncDiff))
}

func TestHistory(t *testing.T) {
	b := newBackend(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	entity := func(title string) models.JSONEntity {
		return models.JSONEntity{Model: "Task", GUID: "g1", ConflictState: models.ConflictInConflict,
			Fields: map[string]string{"title": title}}
	}
	history, err := gatewaytest.BuildHistory(
		models.ConflictVersion{JSONEntity: entity("late"), User: "bob", Device: "d2", Timestamp: base.Add(time.Minute)},
		models.ConflictVersion{JSONEntity: entity("early"), User: "alice", Device: "d1", Timestamp: base},
	)
	require.NoError(t, err)
	b.SetHistory("Task", "g1", history)

	args := append([]string{"history", "Task", "g1", "-o", "json"}, baseArgs(t, b.URL())...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var versions []models.EntityVersion
	require.NoError(t, json.Unmarshal([]byte(out), &versions))
	require.Len(t, versions, 2)
	assert.Equal(t, "alice", versions[0].User)
	assert.Equal(t, "bob", versions[1].User)
}

func TestJournalList(t *testing.T) {
	b := newBackend(t)
	setSyncData(t, b)
	base := baseArgs(t, b.URL())
	base = append(base, "--journal", filepath.Join(t.TempDir(), "journal.db"))

	_, err := execute(t, append([]string{"sync", "all"}, base...)...)
	require.NoError(t, err)
	_, err = execute(t, append([]string{"sync", "all", "--no-confirm"}, base...)...)
	require.NoError(t, err)

	out, err := execute(t, append([]string{"journal", "list", "-o", "json"}, base...)...)
	require.NoError(t, err)
	var attempts []models.SyncAttempt
	require.NoError(t, json.Unmarshal([]byte(out), &attempts))
	require.Len(t, attempts, 2)

	out, err = execute(t, append([]string{"journal", "list", "--state", "confirmed", "-o", "json"}, base...)...)
	require.NoError(t, err)
	attempts = nil
	require.NoError(t, json.Unmarshal([]byte(out), &attempts))
	require.Len(t, attempts, 1)
	assert.Equal(t, models.StateConfirmed, attempts[0].State)
	assert.Equal(t, models.Ticket("T1"), attempts[0].Ticket)
}
