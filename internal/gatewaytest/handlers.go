// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package gatewaytest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
)

func (b *Backend) authenticate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, password, ok := r.BasicAuth()
	if !ok || !b.checkPassword(user, password) {
		log.Warn().Str("user", user).Msg("authentication rejected")
		writeError(w, http.StatusUnauthorized, "invalid login/password")
		return
	}

	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	b.mu.Lock()
	role := b.users[user].role
	issueTokens := b.issueTokens
	b.pushes = append(b.pushes, req.Push)
	b.mu.Unlock()

	result := models.AuthResult{Role: role, InstanceGUID: "instance-" + user}
	if issueTokens {
		token, err := utils.GenerateJWTToken(tokenIssuer, user, role, time.Hour, signKey)
		if err != nil {
			log.Err(err).Msg("creation of token failed")
			writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
		result.Role = ""
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

func (b *Backend) syncAll(w http.ResponseWriter, r *http.Request) {
	ticket := b.newJob(models.SyncModeAll)
	_, _ = utils.WriteJSON(w, models.TicketResponse{Ticket: ticket}, http.StatusOK)
}

func (b *Backend) syncDiff(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if ct := r.Header.Get("Content-Type"); ct != models.ContentTypePayload {
		log.Warn().Str("content_type", ct).Msg("unexpected content type")
		writeError(w, http.StatusBadRequest, "unexpected content type")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg("error reading payload")
		writeError(w, http.StatusBadRequest, "error reading payload")
		return
	}

	b.mu.Lock()
	b.uploads = append(b.uploads, body)
	b.mu.Unlock()

	ticket := b.newJob(models.SyncModeDiff)
	_, _ = utils.WriteJSON(w, models.TicketResponse{Ticket: ticket}, http.StatusOK)
}

func (b *Backend) status(w http.ResponseWriter, r *http.Request) {
	ticket := models.Ticket(r.URL.Query().Get(models.ParamTicket))

	b.mu.Lock()
	j, ok := b.jobs[ticket]
	var resp models.StatusResponse
	if ok {
		j.polls++
		switch {
		case j.polls <= b.pendingPolls:
			resp.Status = models.StatusPending
		case b.failMessage != "":
			resp = models.StatusResponse{Status: models.StatusFailed, Message: b.failMessage}
		default:
			resp.Status = models.StatusReady
		}
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown ticket")
		return
	}
	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (b *Backend) data(w http.ResponseWriter, r *http.Request) {
	ticket := models.Ticket(r.URL.Query().Get(models.ParamTicket))

	b.mu.Lock()
	_, ok := b.jobs[ticket]
	payload := b.syncData
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown ticket")
		return
	}
	b.writePayload(w, r, payload)
}

func (b *Backend) confirm(w http.ResponseWriter, r *http.Request) {
	ticket := models.Ticket(r.URL.Query().Get(models.ParamTicket))

	b.mu.Lock()
	j, ok := b.jobs[ticket]
	if ok {
		j.confirmed++
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown ticket")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (b *Backend) conflictHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	model, guid := query.Get(models.ParamModel), query.Get(models.ParamGUID)
	if model == "" || guid == "" {
		writeError(w, http.StatusBadRequest, "model and guid are required")
		return
	}

	b.mu.Lock()
	payload := b.history[historyKey(model, guid)]
	b.mu.Unlock()

	b.writePayload(w, r, payload)
}

func (b *Backend) writePayload(w http.ResponseWriter, r *http.Request, payload []byte) {
	if payload == nil {
		empty, err := BuildPayload(Payload{})
		if err != nil {
			logger.FromRequest(r).Err(err).Msg("error building empty payload")
			writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		payload = empty
	}

	w.Header().Set("Content-Type", models.ContentTypePayload)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
