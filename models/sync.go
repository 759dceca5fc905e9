// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Ticket names one in-flight sync job issued by the backend. It is valid for
// exactly one submit, poll, fetch, confirm cycle.
type Ticket string

func (t Ticket) String() string {
	return string(t)
}

// JobStatus is the result of a single poll of a ticket.
type JobStatus int

const (
	JobPending JobStatus = iota
	JobReady
	JobFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobReady:
		return "ready"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SyncMode selects full or differential synchronization.
type SyncMode string

const (
	SyncModeAll  SyncMode = "all"
	SyncModeDiff SyncMode = "diff"
)

// AttemptState is a step of the per-attempt state machine.
type AttemptState string

const (
	StateIdle            AttemptState = "IDLE"
	StateEncoding        AttemptState = "ENCODING"
	StateSubmitted       AttemptState = "SUBMITTED"
	StatePolling         AttemptState = "POLLING"
	StateFetching        AttemptState = "FETCHING"
	StateDecoded         AttemptState = "DECODED"
	StateAwaitingConfirm AttemptState = "AWAITING_CONFIRM"
	StateConfirmed       AttemptState = "CONFIRMED"
	StateAbandoned       AttemptState = "ABANDONED"
	StateFailed          AttemptState = "FAILED"
)

// Terminal reports whether no further transition can follow s.
func (s AttemptState) Terminal() bool {
	switch s {
	case StateConfirmed, StateAbandoned, StateFailed:
		return true
	default:
		return false
	}
}

// SyncAttempt is the journal record of one sync attempt.
type SyncAttempt struct {
	ID     string       `json:"id"`
	Mode   SyncMode     `json:"mode"`
	Ticket Ticket       `json:"ticket,omitempty"`
	State  AttemptState `json:"state"`

	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	EntitiesOut    int `json:"entities_out"`
	FilesOut       int `json:"files_out"`
	EntitiesIn     int `json:"entities_in"`
	FilesIn        int `json:"files_in"`
	DeletedFilesIn int `json:"deleted_files_in"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttemptFilter narrows journal listings. Zero values mean "any".
type AttemptFilter struct {
	States []AttemptState
	Mode   SyncMode
	Limit  uint64
}

// AttemptTransition is one journaled state change of an attempt.
type AttemptTransition struct {
	AttemptID string       `json:"attempt_id"`
	State     AttemptState `json:"state"`
	At        time.Time    `json:"at"`
}
