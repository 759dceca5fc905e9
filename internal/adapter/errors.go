// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrBackend      = errors.New("backend error")
	ErrTransport    = errors.New("transport error")

	ErrJobRejected      = errors.New("sync job rejected by backend")
	ErrPollTimeout      = errors.New("sync job still pending after poll timeout")
	ErrNoRole           = errors.New("backend returned no role")
	ErrMalformedReply   = errors.New("malformed backend response")
	ErrNotAuthenticated = errors.New("gateway not authenticated")
)
