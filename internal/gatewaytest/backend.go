// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package gatewaytest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/models"
)

const (
	tokenIssuer = "gatewaytest"
	signKey     = "gatewaytest-sign-key"
)

type account struct {
	password string
	role     string
}

type job struct {
	mode      models.SyncMode
	polls     int
	confirmed int
}

// RecordedRequest is a request received by the backend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
}

// Backend is a scripted sync backend.
type Backend struct {
	server *httptest.Server
	logger *logger.Logger

	mu           sync.Mutex
	users        map[string]account
	issueTokens  bool
	tickets      []models.Ticket
	issued       int
	jobs         map[models.Ticket]*job
	pendingPolls int
	failMessage  string
	syncData     []byte
	history      map[string][]byte
	failures     map[string]int
	uploads      [][]byte
	pushes       []*models.PushRegistration
	requests     []RecordedRequest
}

// Option configures a Backend.
type Option func(*Backend)

// WithUser registers an account.
func WithUser(user, password, role string) Option {
	return func(b *Backend) {
		b.users[user] = account{password: password, role: role}
	}
}

// WithBearerTokens makes authentication answer with a signed bearer token
// carrying the role claim instead of a role in the response body.
func WithBearerTokens() Option {
	return func(b *Backend) {
		b.issueTokens = true
	}
}

// WithTickets sets the tickets handed out by the submission endpoints, in
// order. Once exhausted, tickets are generated as T<n>.
func WithTickets(tickets ...models.Ticket) Option {
	return func(b *Backend) {
		b.tickets = append(b.tickets, tickets...)
	}
}

// WithPendingPolls makes every job answer PENDING n times before it
// settles.
func WithPendingPolls(n int) Option {
	return func(b *Backend) {
		b.pendingPolls = n
	}
}

// WithLogger sets the logger of the backend. Logs are discarded by default.
func WithLogger(log *logger.Logger) Option {
	return func(b *Backend) {
		b.logger = log
	}
}

// New starts a backend. Close must be called when done.
func New(opts ...Option) *Backend {
	b := &Backend{
		logger:   logger.Nop(),
		users:    make(map[string]account),
		jobs:     make(map[models.Ticket]*job),
		history:  make(map[string][]byte),
		failures: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.server = httptest.NewServer(b.routes())
	return b
}

// URL is the base URL of the backend.
func (b *Backend) URL() string {
	return b.server.URL
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.server.Close()
}

// SetSyncData sets the payload served for every ready ticket.
func (b *Backend) SetSyncData(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncData = payload
}

// SetHistory sets the conflict history payload of one entity.
func (b *Backend) SetHistory(model, guid string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history[historyKey(model, guid)] = payload
}

// FailJobs makes every job end in FAILED with message.
func (b *Backend) FailJobs(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failMessage = message
}

// FailPath makes every request to path answer with status.
func (b *Backend) FailPath(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = status
}

// Confirms returns how many times ticket was confirmed.
func (b *Backend) Confirms(ticket models.Ticket) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j, ok := b.jobs[ticket]; ok {
		return j.confirmed
	}
	return 0
}

// Polls returns how many times the status of ticket was checked.
func (b *Backend) Polls(ticket models.Ticket) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j, ok := b.jobs[ticket]; ok {
		return j.polls
	}
	return 0
}

// Mode returns the mode ticket was submitted with.
func (b *Backend) Mode(ticket models.Ticket) models.SyncMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j, ok := b.jobs[ticket]; ok {
		return j.mode
	}
	return ""
}

// Uploads returns the bodies received by the diff endpoint.
func (b *Backend) Uploads() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.uploads...)
}

// Pushes returns the push registrations received on authentication.
func (b *Backend) Pushes() []*models.PushRegistration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*models.PushRegistration(nil), b.pushes...)
}

// Requests returns every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Count returns how many requests were received for path.
func (b *Backend) Count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) newJob(mode models.SyncMode) models.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ticket models.Ticket
	if b.issued < len(b.tickets) {
		ticket = b.tickets[b.issued]
	} else {
		ticket = models.Ticket(fmt.Sprintf("T%d", b.issued+1))
	}
	b.issued++
	b.jobs[ticket] = &job{mode: mode}
	return ticket
}

func historyKey(model, guid string) string {
	return model + "/" + guid
}
