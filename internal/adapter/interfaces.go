// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstraction for communicating
// with the sync backend.
//
// The primary abstraction is [Gateway], which decouples the sync services
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPGateway]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrBackend] for 5xx).
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/go-entity-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// Gateway defines transport-agnostic communication with the sync backend.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type Gateway interface {
	// Authenticate checks the credentials and returns the role of the user.
	// The credentials are used for every subsequent request. A rejected
	// login yields ErrUnauthorized.
	Authenticate(ctx context.Context, user, password string, push *models.PushRegistration) (models.AuthResult, error)

	// SendSyncAllRequest asks the backend to prepare the complete dataset
	// and returns the ticket of the job.
	SendSyncAllRequest(ctx context.Context) (models.Ticket, error)

	// SendSyncDiffRequest streams the outgoing payload to the backend and
	// returns the ticket of the job.
	SendSyncDiffRequest(ctx context.Context, payload io.Reader) (models.Ticket, error)

	// CheckStatus polls the job once.
	CheckStatus(ctx context.Context, ticket models.Ticket) (models.JobStatus, error)

	// WaitUntilSyncRequestComplete polls the job until it is ready. It
	// returns ErrJobRejected when the backend fails the job and
	// ErrPollTimeout when the job stays pending for too long.
	WaitUntilSyncRequestComplete(ctx context.Context, ticket models.Ticket) error

	// GetSyncData streams the result payload of a ready job into dst.
	GetSyncData(ctx context.Context, ticket models.Ticket, dst io.Writer) error

	// ConfirmTask tells the backend the result has been applied locally.
	ConfirmTask(ctx context.Context, ticket models.Ticket) error

	// GetConflictHistory streams the conflict history of one entity into
	// dst.
	GetConflictHistory(ctx context.Context, model, guid string, dst io.Writer) error
}
