// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package gatewaytest

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/utils"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const traceIDHeader = "X-Trace-ID"

type userCtxKey struct{}

func (b *Backend) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := b.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

func (b *Backend) withRecording(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) withInjectedFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		status, ok := b.failures[r.URL.Path]
		b.mu.Unlock()

		if ok {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// auth accepts either a bearer token issued by authenticate or basic
// credentials of a registered account.
func (b *Backend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		var user string
		if token, err := utils.ParseBearerToken(r.Header.Get("Authorization")); err == nil {
			claims, err := utils.ValidateAndParseJWTToken(token, signKey, tokenIssuer)
			if err != nil {
				log.Err(err).Msg("invalid token")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			user = claims.Subject
		} else {
			name, password, ok := r.BasicAuth()
			if !ok || !b.checkPassword(name, password) {
				log.Warn().Msg("invalid credentials")
				writeError(w, http.StatusUnauthorized, "invalid login/password")
				return
			}
			user = name
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user)))
	})
}

func (b *Backend) checkPassword(user, password string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.users[user]
	return ok && acc.password == password
}

func writeError(w http.ResponseWriter, status int, message string) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Code: http.StatusText(status), Message: message}, status)
}

// responseWriter records the status code and body size of a response.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
