// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/gatewaytest"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

var testIdentity = Identity{
	Vendor:           "acme",
	Application:      "orders",
	Instance:         "test",
	Device:           "desktop",
	DeviceIdentifier: "dev-1",
	DefinitionDigest: "abc123",
	SDKVersion:       "1.0.0",
}

func newTestGateway(t *testing.T, b *gatewaytest.Backend) Gateway {
	t.Helper()

	g, err := NewHTTPGateway(config.Gateway{
		URL:             b.URL(),
		RequestTimeout:  5 * time.Second,
		PollInterval:    time.Millisecond,
		PollMaxInterval: 5 * time.Millisecond,
		PollTimeout:     2 * time.Second,
	}, testIdentity, logger.Nop())
	require.NoError(t, err)
	return g
}

func newAuthenticatedGateway(t *testing.T, opts ...gatewaytest.Option) (Gateway, *gatewaytest.Backend) {
	t.Helper()

	opts = append([]gatewaytest.Option{gatewaytest.WithUser("alice", "secret", "owner")}, opts...)
	b := gatewaytest.New(opts...)
	t.Cleanup(b.Close)

	g := newTestGateway(t, b)
	_, err := g.Authenticate(context.Background(), "alice", "secret", nil)
	require.NoError(t, err)
	return g, b
}

// ─────────────────────────────────────────────
// constructor
// ─────────────────────────────────────────────

func TestNewHTTPGateway_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "http://"} {
		_, err := NewHTTPGateway(config.Gateway{URL: raw}, Identity{}, logger.Nop())
		assert.Error(t, err, "url %q", raw)
	}
}

func TestNewHTTPGateway_AddsScheme(t *testing.T) {
	g, err := NewHTTPGateway(config.Gateway{URL: "sync.example.com/"}, Identity{}, logger.Nop())
	require.NoError(t, err)

	hg := g.(*httpGateway)
	assert.Equal(t, "http://sync.example.com", hg.client.BaseURL)
	assert.Equal(t, defaultPollInterval, hg.pollInterval)
	assert.Equal(t, defaultPollMaxInterval, hg.pollMaxInterval)
}

// ─────────────────────────────────────────────
// Authenticate
// ─────────────────────────────────────────────

func TestAuthenticate_RoleFromBody(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "owner"))
	defer b.Close()

	g := newTestGateway(t, b)
	res, err := g.Authenticate(context.Background(), "alice", "secret", nil)
	require.NoError(t, err)

	assert.Equal(t, "owner", res.Role)
	assert.Equal(t, "instance-alice", res.InstanceGUID)
	assert.Empty(t, res.Token)
}

func TestAuthenticate_RoleFromBearerToken(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "viewer"), gatewaytest.WithBearerTokens())
	defer b.Close()

	g := newTestGateway(t, b)
	res, err := g.Authenticate(context.Background(), "alice", "secret", nil)
	require.NoError(t, err)
	assert.Equal(t, "viewer", res.Role)
	assert.NotEmpty(t, res.Token)

	_, err = g.SendSyncAllRequest(context.Background())
	require.NoError(t, err)

	reqs := b.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, models.PathSyncAll, last.Path)
	assert.Equal(t, "Bearer "+res.Token, last.Header.Get("Authorization"))
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "owner"))
	defer b.Close()

	g := newTestGateway(t, b)
	_, err := g.Authenticate(context.Background(), "alice", "wrong", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid login/password")

	_, err = g.SendSyncAllRequest(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthenticate_NoRole(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", ""))
	defer b.Close()

	g := newTestGateway(t, b)
	_, err := g.Authenticate(context.Background(), "alice", "secret", nil)
	assert.ErrorIs(t, err, ErrNoRole)
}

func TestAuthenticate_ForwardsPushRegistration(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "owner"))
	defer b.Close()

	g := newTestGateway(t, b)
	push := &models.PushRegistration{Channel: "fcm", Token: "device-token"}
	_, err := g.Authenticate(context.Background(), "alice", "secret", push)
	require.NoError(t, err)

	pushes := b.Pushes()
	require.Len(t, pushes, 1)
	assert.Equal(t, push, pushes[0])
}

func TestAuthenticate_TransportError(t *testing.T) {
	b := gatewaytest.New()
	g := newTestGateway(t, b)
	b.Close()

	_, err := g.Authenticate(context.Background(), "alice", "secret", nil)
	assert.ErrorIs(t, err, ErrTransport)
}

// ─────────────────────────────────────────────
// requests
// ─────────────────────────────────────────────

func TestRequests_CarryIdentityHeaders(t *testing.T) {
	g, b := newAuthenticatedGateway(t)

	_, err := g.SendSyncAllRequest(context.Background())
	require.NoError(t, err)

	for _, r := range b.Requests() {
		assert.Equal(t, "acme", r.Header.Get(models.HeaderVendor))
		assert.Equal(t, "orders", r.Header.Get(models.HeaderApplication))
		assert.Equal(t, "test", r.Header.Get(models.HeaderInstance))
		assert.Equal(t, "desktop", r.Header.Get(models.HeaderDevice))
		assert.Equal(t, "dev-1", r.Header.Get(models.HeaderDeviceIdentifier))
		assert.Equal(t, "abc123", r.Header.Get(models.HeaderDefinitionDigest))
		assert.Equal(t, "1.0.0", r.Header.Get(models.HeaderSDKVersion))
	}
}

func TestIdentity_OmitsEmptyHeaders(t *testing.T) {
	h := Identity{Vendor: "acme"}.headers()
	assert.Equal(t, map[string]string{models.HeaderVendor: "acme"}, h)
}

func TestSendSyncAllRequest_ReturnsTicket(t *testing.T) {
	g, b := newAuthenticatedGateway(t, gatewaytest.WithTickets("T1"))

	ticket, err := g.SendSyncAllRequest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Ticket("T1"), ticket)
	assert.Equal(t, models.SyncModeAll, b.Mode(ticket))
}

func TestSendSyncDiffRequest_StreamsPayload(t *testing.T) {
	g, b := newAuthenticatedGateway(t)

	payload, err := gatewaytest.BuildPayload(gatewaytest.Payload{
		Entities: []models.JSONEntity{{Model: "order", GUID: "g1", Fields: map[string]string{"title": "x"}}},
	})
	require.NoError(t, err)

	ticket, err := g.SendSyncDiffRequest(context.Background(), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, models.SyncModeDiff, b.Mode(ticket))

	uploads := b.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, payload, uploads[0])
}

func TestCheckStatus_TriState(t *testing.T) {
	g, b := newAuthenticatedGateway(t, gatewaytest.WithPendingPolls(1))
	ctx := context.Background()

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	status, err := g.CheckStatus(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, models.JobPending, status)

	status, err = g.CheckStatus(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, models.JobReady, status)

	b.FailJobs("quota exceeded")
	status, err = g.CheckStatus(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, models.JobFailed, status)
}

func TestCheckStatus_UnknownTicket(t *testing.T) {
	g, _ := newAuthenticatedGateway(t)

	_, err := g.CheckStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ─────────────────────────────────────────────
// WaitUntilSyncRequestComplete
// ─────────────────────────────────────────────

func TestWait_PollsUntilReady(t *testing.T) {
	g, b := newAuthenticatedGateway(t, gatewaytest.WithPendingPolls(3))
	ctx := context.Background()

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	require.NoError(t, g.WaitUntilSyncRequestComplete(ctx, ticket))
	assert.Equal(t, 4, b.Polls(ticket))
}

func TestWait_JobRejected(t *testing.T) {
	g, b := newAuthenticatedGateway(t, gatewaytest.WithPendingPolls(1))
	b.FailJobs("definition digest mismatch")
	ctx := context.Background()

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	err = g.WaitUntilSyncRequestComplete(ctx, ticket)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJobRejected)
	assert.Contains(t, err.Error(), "definition digest mismatch")
	assert.Equal(t, 2, b.Polls(ticket))
}

func TestWait_PollTimeout(t *testing.T) {
	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "owner"), gatewaytest.WithPendingPolls(1_000_000))
	defer b.Close()

	g, err := NewHTTPGateway(config.Gateway{
		URL:             b.URL(),
		PollInterval:    time.Millisecond,
		PollMaxInterval: 2 * time.Millisecond,
		PollTimeout:     30 * time.Millisecond,
	}, testIdentity, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = g.Authenticate(ctx, "alice", "secret", nil)
	require.NoError(t, err)
	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	err = g.WaitUntilSyncRequestComplete(ctx, ticket)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Greater(t, b.Polls(ticket), 1)
}

func TestWait_ContextCancelled(t *testing.T) {
	g, _ := newAuthenticatedGateway(t, gatewaytest.WithPendingPolls(1_000_000))

	ticket, err := g.SendSyncAllRequest(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = g.WaitUntilSyncRequestComplete(ctx, ticket)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestWait_TransportErrorIsNotRetried(t *testing.T) {
	g, b := newAuthenticatedGateway(t)

	ticket, err := g.SendSyncAllRequest(context.Background())
	require.NoError(t, err)

	b.FailPath(models.PathSyncStatus, http.StatusBadGateway)
	err = g.WaitUntilSyncRequestComplete(context.Background(), ticket)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, 1, b.Count(models.PathSyncStatus))
}

// ─────────────────────────────────────────────
// downloads and confirm
// ─────────────────────────────────────────────

func TestGetSyncData_StreamsPayload(t *testing.T) {
	g, b := newAuthenticatedGateway(t)
	ctx := context.Background()

	payload, err := gatewaytest.BuildPayload(gatewaytest.Payload{
		Entities:     []models.JSONEntity{{Model: "order", GUID: "g1"}},
		Files:        map[string][]byte{"f1": []byte("content")},
		DeletedFiles: []string{"f0"},
	})
	require.NoError(t, err)
	b.SetSyncData(payload)

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.GetSyncData(ctx, ticket, &buf))
	assert.Equal(t, payload, buf.Bytes())
}

func TestGetSyncData_Errors(t *testing.T) {
	g, b := newAuthenticatedGateway(t)
	ctx := context.Background()

	var buf bytes.Buffer
	err := g.GetSyncData(ctx, "missing", &buf)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "unknown ticket")

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	b.FailPath(models.PathSyncData, http.StatusInternalServerError)
	err = g.GetSyncData(ctx, ticket, &buf)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Zero(t, buf.Len())
}

func TestConfirmTask(t *testing.T) {
	g, b := newAuthenticatedGateway(t)
	ctx := context.Background()

	ticket, err := g.SendSyncAllRequest(ctx)
	require.NoError(t, err)

	require.NoError(t, g.ConfirmTask(ctx, ticket))
	assert.Equal(t, 1, b.Confirms(ticket))

	assert.ErrorIs(t, g.ConfirmTask(ctx, "missing"), ErrNotFound)
}

func TestConfirmTask_Forbidden(t *testing.T) {
	g, b := newAuthenticatedGateway(t)
	b.FailPath(models.PathSyncConfirm, http.StatusForbidden)

	err := g.ConfirmTask(context.Background(), "T1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetConflictHistory(t *testing.T) {
	g, b := newAuthenticatedGateway(t)

	history, err := gatewaytest.BuildHistory(models.ConflictVersion{
		JSONEntity: models.JSONEntity{Model: "order", GUID: "g1"},
		User:       "bob",
		Device:     "phone",
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	b.SetHistory("order", "g1", history)

	var buf bytes.Buffer
	require.NoError(t, g.GetConflictHistory(context.Background(), "order", "g1", &buf))
	assert.Equal(t, history, buf.Bytes())

	reqs := b.Requests()
	assert.Equal(t, "guid=g1&model=order", reqs[len(reqs)-1].Query)
}

// ─────────────────────────────────────────────
// error mapping
// ─────────────────────────────────────────────

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "400", code: 400, body: `{"message":"bad field"}`, wantErr: ErrBadRequest, wantMsg: "bad field"},
		{name: "401", code: 401, body: "nope", wantErr: ErrUnauthorized, wantMsg: "nope"},
		{name: "403", code: 403, wantErr: ErrForbidden},
		{name: "404", code: 404, wantErr: ErrNotFound},
		{name: "500 empty body", code: 500, wantErr: ErrBackend, wantMsg: "Internal Server Error"},
		{name: "503", code: 503, body: `{"code":"x","message":"maintenance"}`, wantErr: ErrBackend, wantMsg: "maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.code, []byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStatusError_Unmapped(t *testing.T) {
	err := statusError(http.StatusConflict, nil)
	require.Error(t, err)
	for _, sentinel := range []error{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrBackend} {
		assert.NotErrorIs(t, err, sentinel)
	}
	assert.Contains(t, err.Error(), "409")
}
