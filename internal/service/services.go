// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/internal/store"
)

// Services groups the engine's services sharing one gateway, codec and
// staging store.
type Services struct {
	SyncService            SyncService
	AsyncSyncService       AsyncSyncService
	ConflictHistoryService ConflictHistoryService
	SyncJob                SyncJob
}

// Deps are the collaborators the services are built from.
type Deps struct {
	Gateway adapter.Gateway
	Codec   codec.EntityCodec
	Staging *staging.Store
	Journal store.Journal
	Workers config.Workers
	// Handler receives the results of the periodic sync job.
	Handler ResultHandler
	Logger  *logger.Logger
}

func NewServices(deps Deps) *Services {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	syncService := NewSyncService(deps.Gateway, deps.Codec, deps.Staging, deps.Journal, deps.Workers.ConfirmTimeout, log.WithStr("service", "sync"))

	return &Services{
		SyncService:            syncService,
		AsyncSyncService:       NewAsyncSyncService(syncService, 0, log.WithStr("service", "async")),
		ConflictHistoryService: NewConflictHistoryService(deps.Gateway, deps.Codec, deps.Staging, log.WithStr("service", "history")),
		SyncJob:                NewSyncJob(syncService, deps.Workers.SyncInterval, deps.Handler, log.WithStr("service", "job")),
	}
}

// Close stops the periodic job, drains the async worker and abandons every
// pending result.
func (s *Services) Close() {
	s.SyncJob.Stop()
	s.AsyncSyncService.Close()
	s.SyncService.Close()
}
