// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TicketResponse is returned by the sync submission endpoints.
type TicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

// Wire values of StatusResponse.Status.
const (
	StatusPending = "PENDING"
	StatusReady   = "READY"
	StatusFailed  = "FAILED"
)

// StatusResponse reports the state of a sync job.
type StatusResponse struct {
	Status string `json:"status"`
	// Message explains a FAILED status.
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body of a non-2xx backend response.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
