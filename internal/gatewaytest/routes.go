// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package gatewaytest

import (
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (b *Backend) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(b.withTraceID, b.withLogging, b.withRecording, b.withInjectedFailures)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post(models.PathAuthenticate, b.authenticate)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(b.auth)

		r.Post(models.PathSyncAll, b.syncAll)
		r.Post(models.PathSyncDiff, b.syncDiff)
		r.Get(models.PathSyncStatus, b.status)
		r.Get(models.PathSyncData, b.data)
		r.Post(models.PathSyncConfirm, b.confirm)
		r.Get(models.PathConflictHistory, b.conflictHistory)
	})

	return router
}
