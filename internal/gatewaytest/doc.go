// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package gatewaytest provides an in-process sync backend for tests.
//
// The backend serves the same REST endpoints as the real one on an
// [httptest.Server]: authentication with basic credentials (optionally
// answered with a signed bearer token), ticket submission, status polling,
// payload download, confirmation and conflict history. Every interaction
// is recorded so tests can assert on what the client sent.
//
//	b := gatewaytest.New(gatewaytest.WithUser("alice", "secret", "owner"))
//	defer b.Close()
//	b.SetSyncData(payload)
package gatewaytest
