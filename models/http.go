// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Backend endpoints.
const (
	PathAuthenticate    = "/api/authenticate"
	PathSyncAll         = "/api/sync/all"
	PathSyncDiff        = "/api/sync/diff"
	PathSyncStatus      = "/api/sync/status"
	PathSyncData        = "/api/sync/data"
	PathSyncConfirm     = "/api/sync/confirm"
	PathConflictHistory = "/api/history"
)

// Query parameters.
const (
	ParamTicket = "ticket"
	ParamModel  = "model"
	ParamGUID   = "guid"
)

// Identity headers attached to every backend request.
const (
	HeaderVendor           = "X-Sync-Vendor"
	HeaderApplication      = "X-Sync-Application"
	HeaderInstance         = "X-Sync-Instance"
	HeaderDevice           = "X-Sync-Device"
	HeaderDeviceIdentifier = "X-Sync-Device-Id"
	HeaderDefinitionDigest = "X-Sync-Definition-Digest"
	HeaderSDKVersion       = "X-Sync-Sdk-Version"
)

// ContentTypePayload is the media type of sync payloads.
const ContentTypePayload = "application/zip"

// AuthRequest is the body of an authentication request. Credentials travel
// in the Authorization header.
type AuthRequest struct {
	Push *PushRegistration `json:"push,omitempty"`
}
