// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	defaultPollInterval    = time.Second
	defaultPollMaxInterval = 10 * time.Second
)

var errStillPending = errors.New("sync job pending")

// Identity is sent with every request so the backend can route it to the
// right application instance and device.
type Identity struct {
	Vendor           string
	Application      string
	Instance         string
	Device           string
	DeviceIdentifier string
	// DefinitionDigest is the hash of the model definition file, empty in
	// untyped mode.
	DefinitionDigest string
	SDKVersion       string
}

func (i Identity) headers() map[string]string {
	h := map[string]string{
		models.HeaderVendor:           i.Vendor,
		models.HeaderApplication:      i.Application,
		models.HeaderInstance:         i.Instance,
		models.HeaderDevice:           i.Device,
		models.HeaderDeviceIdentifier: i.DeviceIdentifier,
		models.HeaderDefinitionDigest: i.DefinitionDigest,
		models.HeaderSDKVersion:       i.SDKVersion,
	}
	for k, v := range h {
		if v == "" {
			delete(h, k)
		}
	}
	return h
}

type httpGateway struct {
	client *utils.HTTPClient

	pollInterval    time.Duration
	pollMaxInterval time.Duration
	pollTimeout     time.Duration

	mu       sync.RWMutex
	user     string
	password string
	token    string

	logger *logger.Logger
}

// NewHTTPGateway constructs an HTTP/REST implementation of [Gateway].
// It normalises and validates the base URL from cfg.URL, configures the
// underlying HTTP client with the resolved base URL and request timeout,
// and attaches the identity headers to every request.
//
// Returns an error if cfg.URL is empty or cannot be parsed as a valid URL.
func NewHTTPGateway(cfg config.Gateway, identity Identity, log *logger.Logger) (Gateway, error) {
	baseURL, err := config.NormalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)
	client.
		SetHeaders(identity.headers()).
		SetLogger(restyLogger{log: log})

	g := &httpGateway{
		client:          client,
		pollInterval:    cfg.PollInterval,
		pollMaxInterval: cfg.PollMaxInterval,
		pollTimeout:     cfg.PollTimeout,
		logger:          log,
	}
	if g.pollInterval <= 0 {
		g.pollInterval = defaultPollInterval
	}
	if g.pollMaxInterval <= 0 {
		g.pollMaxInterval = defaultPollMaxInterval
	}

	return g, nil
}

// Authenticate implements [Gateway]. It POSTs the optional push registration
// to POST /api/authenticate using basic auth. A bearer token returned in the
// Authorization response header replaces basic auth for later requests.
// The role is taken from the response body, falling back to the "role"
// claim of the bearer token.
func (h *httpGateway) Authenticate(ctx context.Context, user, password string, push *models.PushRegistration) (models.AuthResult, error) {
	var result models.AuthResult

	resp, err := h.client.R().
		SetContext(ctx).
		SetBasicAuth(user, password).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AuthRequest{Push: push}).
		SetResult(&result).
		Post(models.PathAuthenticate)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("%w: authenticate request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResult{}, err
	}

	if header := resp.Header().Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return models.AuthResult{}, fmt.Errorf("%w: authenticate parse bearer token: %w", ErrMalformedReply, err)
		}
		result.Token = token
	}

	if result.Role == "" && result.Token != "" {
		role, err := utils.ParseRoleFromJWT(result.Token)
		if err != nil {
			return models.AuthResult{}, fmt.Errorf("%w: %w", ErrMalformedReply, err)
		}
		result.Role = role
	}
	if result.Role == "" {
		return models.AuthResult{}, ErrNoRole
	}

	h.mu.Lock()
	h.user, h.password, h.token = user, password, result.Token
	h.mu.Unlock()

	h.logger.Debug().Str("func", "httpGateway.Authenticate").
		Str("user", user).
		Str("role", result.Role).
		Bool("bearer", result.Token != "").
		Msg("authenticated")

	return result, nil
}

// SendSyncAllRequest implements [Gateway]. It POSTs to POST /api/sync/all.
func (h *httpGateway) SendSyncAllRequest(ctx context.Context) (models.Ticket, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return "", err
	}

	var tr models.TicketResponse
	resp, err := req.SetResult(&tr).Post(models.PathSyncAll)
	if err != nil {
		return "", fmt.Errorf("%w: sync all request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return ticketOf(tr)
}

// SendSyncDiffRequest implements [Gateway]. It streams payload to
// POST /api/sync/diff.
func (h *httpGateway) SendSyncDiffRequest(ctx context.Context, payload io.Reader) (models.Ticket, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return "", err
	}

	var tr models.TicketResponse
	resp, err := req.
		SetHeader("Content-Type", models.ContentTypePayload).
		SetBody(payload).
		SetResult(&tr).
		Post(models.PathSyncDiff)
	if err != nil {
		return "", fmt.Errorf("%w: sync diff request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return ticketOf(tr)
}

// CheckStatus implements [Gateway]. It GETs /api/sync/status once.
func (h *httpGateway) CheckStatus(ctx context.Context, ticket models.Ticket) (models.JobStatus, error) {
	status, _, err := h.checkStatus(ctx, ticket)
	return status, err
}

func (h *httpGateway) checkStatus(ctx context.Context, ticket models.Ticket) (models.JobStatus, string, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.JobPending, "", err
	}

	var sr models.StatusResponse
	resp, err := req.
		SetQueryParam(models.ParamTicket, ticket.String()).
		SetResult(&sr).
		Get(models.PathSyncStatus)
	if err != nil {
		return models.JobPending, "", fmt.Errorf("%w: status request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.JobPending, "", err
	}

	switch strings.ToUpper(sr.Status) {
	case models.StatusPending:
		return models.JobPending, sr.Message, nil
	case models.StatusReady:
		return models.JobReady, sr.Message, nil
	case models.StatusFailed:
		return models.JobFailed, sr.Message, nil
	default:
		return models.JobPending, "", fmt.Errorf("%w: unknown job status %q", ErrMalformedReply, sr.Status)
	}
}

// WaitUntilSyncRequestComplete implements [Gateway]. The ticket is polled
// with exponential backoff starting at the poll interval and capped at the
// max poll interval. A non-positive poll timeout waits until ctx is done.
func (h *httpGateway) WaitUntilSyncRequestComplete(ctx context.Context, ticket models.Ticket) error {
	l := h.contextLogger(ctx)
	if _, ok := utils.GetTicketFromContext(ctx); !ok {
		l = l.WithStr("ticket", ticket.String())
	}

	b := retry.WithCappedDuration(h.pollMaxInterval, retry.NewExponential(h.pollInterval))
	if h.pollTimeout > 0 {
		b = retry.WithMaxDuration(h.pollTimeout, b)
	}

	polls := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		polls++
		status, message, err := h.checkStatus(ctx, ticket)
		if err != nil {
			return err
		}

		l.Debug().Str("func", "httpGateway.WaitUntilSyncRequestComplete").
			Int("poll", polls).
			Str("status", status.String()).
			Msg("polled sync job")

		switch status {
		case models.JobReady:
			return nil
		case models.JobFailed:
			return fmt.Errorf("%w: %s", ErrJobRejected, message)
		default:
			return retry.RetryableError(errStillPending)
		}
	})
	if errors.Is(err, errStillPending) {
		return fmt.Errorf("%w: ticket %s after %d polls", ErrPollTimeout, ticket, polls)
	}
	return err
}

// GetSyncData implements [Gateway]. It streams the body of
// GET /api/sync/data into dst.
func (h *httpGateway) GetSyncData(ctx context.Context, ticket models.Ticket, dst io.Writer) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	req.SetQueryParam(models.ParamTicket, ticket.String())
	return h.download(req, models.PathSyncData, dst)
}

// ConfirmTask implements [Gateway]. It POSTs to /api/sync/confirm.
func (h *httpGateway) ConfirmTask(ctx context.Context, ticket models.Ticket) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetQueryParam(models.ParamTicket, ticket.String()).
		Post(models.PathSyncConfirm)
	if err != nil {
		return fmt.Errorf("%w: confirm request: %w", ErrTransport, err)
	}

	return mapHTTPError(resp)
}

// GetConflictHistory implements [Gateway]. It streams the body of
// GET /api/history into dst.
func (h *httpGateway) GetConflictHistory(ctx context.Context, model, guid string, dst io.Writer) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	req.SetQueryParams(map[string]string{
		models.ParamModel: model,
		models.ParamGUID:  guid,
	})
	return h.download(req, models.PathConflictHistory, dst)
}

func (h *httpGateway) download(req *resty.Request, path string, dst io.Writer) error {
	resp, err := req.SetDoNotParseResponse(true).Get(path)
	if err != nil {
		return fmt.Errorf("%w: download %s: %w", ErrTransport, path, err)
	}

	body := resp.RawBody()
	if body != nil {
		defer body.Close()
	}

	if err = mapRawHTTPError(resp); err != nil {
		return err
	}
	if body == nil {
		return nil
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return fmt.Errorf("%w: download %s: %w", ErrTransport, path, err)
	}

	h.contextLogger(req.Context()).Debug().Str("func", "httpGateway.download").
		Str("path", path).
		Int64("bytes", n).
		Msg("payload downloaded")
	return nil
}

// contextLogger returns the gateway logger enriched with the attempt id and
// ticket carried by ctx, if any.
func (h *httpGateway) contextLogger(ctx context.Context) *logger.Logger {
	l := h.logger
	if id, ok := utils.GetAttemptIDFromContext(ctx); ok {
		l = l.WithStr("attempt_id", id)
	}
	if ticket, ok := utils.GetTicketFromContext(ctx); ok {
		l = l.WithStr("ticket", ticket.String())
	}
	return l
}

func (h *httpGateway) authedRequest(ctx context.Context) (*resty.Request, error) {
	h.mu.RLock()
	user, password, token := h.user, h.password, h.token
	h.mu.RUnlock()

	req := h.client.R().SetContext(ctx)
	switch {
	case token != "":
		req.SetAuthToken(token)
	case user != "":
		req.SetBasicAuth(user, password)
	default:
		return nil, ErrNotAuthenticated
	}
	return req, nil
}

func ticketOf(tr models.TicketResponse) (models.Ticket, error) {
	if strings.TrimSpace(tr.Ticket.String()) == "" {
		return "", fmt.Errorf("%w: empty ticket", ErrMalformedReply)
	}
	return tr.Ticket, nil
}
