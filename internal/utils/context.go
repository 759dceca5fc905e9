// Package utils provides general-purpose helper utilities
// used across different parts of the client.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP response writing, HTTP client initialization, JWT token generation
// and parsing, and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-entity-sync/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AttemptIDCtxKey is the key used to store the sync attempt identifier in
// the context. Every gateway call made on behalf of an attempt carries it so
// that log entries can be correlated.
var AttemptIDCtxKey = contextKey("attemptID")

// TicketCtxKey is the key used to store the current backend ticket.
var TicketCtxKey = contextKey("ticket")

// WithAttemptID returns a copy of ctx carrying the attempt identifier.
func WithAttemptID(ctx context.Context, attemptID string) context.Context {
	return context.WithValue(ctx, AttemptIDCtxKey, attemptID)
}

// GetAttemptIDFromContext retrieves the attempt identifier from the context.
//
// Returns the identifier and an ok flag:
//   - ok == true  : value is found and has the correct string type
//   - ok == false : value is missing or has an unexpected type
func GetAttemptIDFromContext(ctx context.Context) (string, bool) {
	attemptID, ok := ctx.Value(AttemptIDCtxKey).(string)
	return attemptID, ok
}

// WithTicket returns a copy of ctx carrying the ticket.
func WithTicket(ctx context.Context, ticket models.Ticket) context.Context {
	return context.WithValue(ctx, TicketCtxKey, ticket)
}

// GetTicketFromContext retrieves the ticket stored by WithTicket.
func GetTicketFromContext(ctx context.Context) (models.Ticket, bool) {
	ticket, ok := ctx.Value(TicketCtxKey).(models.Ticket)
	return ticket, ok
}
