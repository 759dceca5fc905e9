// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/gatewaytest"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/mock"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newHistoryFixture(t *testing.T, c codec.EntityCodec) (*mock.MockGateway, *staging.Store, ConflictHistoryService) {
	t.Helper()
	gw := mock.NewMockGateway(gomock.NewController(t))
	st := staging.NewMemoryStore(logger.Nop())
	return gw, st, NewConflictHistoryService(gw, c, st, logger.Nop())
}

func version(title, user string, ts time.Time) models.ConflictVersion {
	e := taskEntity("g1", title)
	e.ConflictState = models.ConflictInConflict
	return models.ConflictVersion{JSONEntity: e, User: user, Device: "dev", Timestamp: ts}
}

func serveHistory(t *testing.T, versions ...models.ConflictVersion) func(context.Context, string, string, io.Writer) error {
	t.Helper()
	data, err := gatewaytest.BuildHistory(versions...)
	require.NoError(t, err)
	return func(_ context.Context, _, _ string, dst io.Writer) error {
		_, err := dst.Write(data)
		return err
	}
}

func TestGetHistory_SortedByTimestamp(t *testing.T) {
	gw, st, svc := newHistoryFixture(t, codec.NewUntyped())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	gw.EXPECT().GetConflictHistory(gomock.Any(), "Task", "g1", gomock.Any()).
		DoAndReturn(serveHistory(t,
			version("c", "carol", base.Add(2*time.Hour)),
			version("a", "alice", base),
			version("b1", "bob", base.Add(time.Hour)),
			version("b2", "ben", base.Add(time.Hour)),
		))

	versions, err := svc.GetHistory(context.Background(), "Task", "g1")
	require.NoError(t, err)
	require.Len(t, versions, 4)

	var users []string
	for i, v := range versions {
		users = append(users, v.User)
		if i > 0 {
			assert.False(t, v.Timestamp.Before(versions[i-1].Timestamp))
		}
	}
	assert.Equal(t, []string{"alice", "bob", "ben", "carol"}, users, "equal timestamps keep backend order")

	fields, ok := versions[0].Entity.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "a", fields["title"])
	assert.Equal(t, "true", fields[codec.KeyConflicted])
	assert.Equal(t, "dev", versions[0].Device)

	names, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestGetHistory_NoConflicts(t *testing.T) {
	gw, _, svc := newHistoryFixture(t, codec.NewUntyped())
	gw.EXPECT().GetConflictHistory(gomock.Any(), "Task", "g1", gomock.Any()).DoAndReturn(serveHistory(t))

	versions, err := svc.GetHistory(context.Background(), "Task", "g1")
	require.NoError(t, err)
	assert.NotNil(t, versions)
	assert.Empty(t, versions)
}

func TestGetHistory_EmptyBody(t *testing.T) {
	gw, _, svc := newHistoryFixture(t, codec.NewUntyped())
	gw.EXPECT().GetConflictHistory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	versions, err := svc.GetHistory(context.Background(), "Task", "g1")
	require.NoError(t, err)
	assert.NotNil(t, versions)
	assert.Empty(t, versions)
}

func TestGetHistory_MissingArguments(t *testing.T) {
	_, _, svc := newHistoryFixture(t, codec.NewUntyped())

	_, err := svc.GetHistory(context.Background(), "", "g1")
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.GetHistory(context.Background(), "Task", "")
	assert.True(t, IsKind(err, KindValidation))
}

func TestGetHistory_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{name: "forbidden", err: adapter.ErrForbidden, kind: KindAuthorization},
		{name: "not found", err: adapter.ErrNotFound, kind: KindTransport},
		{name: "transport", err: adapter.ErrTransport, kind: KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, st, svc := newHistoryFixture(t, codec.NewUntyped())
			gw.EXPECT().GetConflictHistory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.err)

			versions, err := svc.GetHistory(context.Background(), "Task", "g1")
			require.Error(t, err)
			assert.Nil(t, versions)
			assert.True(t, IsKind(err, tt.kind))
			assert.ErrorIs(t, err, tt.err)

			names, err := st.List()
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestGetHistory_UnregisteredModel(t *testing.T) {
	registry, err := codec.NewRegistry([]models.Model{taskModel})
	require.NoError(t, err)
	gw, _, svc := newHistoryFixture(t, codec.NewTyped(registry))

	gw.EXPECT().GetConflictHistory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(serveHistory(t, version("a", "alice", time.Now())))

	_, err = svc.GetHistory(context.Background(), "Task", "g1")
	assert.True(t, IsKind(err, KindProgrammer))
	assert.ErrorIs(t, err, codec.ErrModelNotRegistered)
}
