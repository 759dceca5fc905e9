// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PushRegistration carries the optional push channel and device token sent
// along with authentication.
type PushRegistration struct {
	Channel string `json:"channel"`
	Token   string `json:"token"`
}

// AuthResult is returned by a successful authentication.
type AuthResult struct {
	Role         string `json:"role"`
	InstanceGUID string `json:"instanceGuid,omitempty"`
	// Token is the bearer token issued by the backend, if any.
	Token string `json:"-"`
}

// Mode is the backend environment the client talks to.
type Mode string

const (
	ModeTest       Mode = "test"
	ModeProduction Mode = "production"
)
