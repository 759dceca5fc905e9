// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/go-resty/resty/v2"
)

// maxErrorBody bounds how much of an error body is read from a streamed
// response.
const maxErrorBody = 4 << 10

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return statusError(resp.StatusCode(), resp.Body())
}

// mapRawHTTPError is mapHTTPError for responses read with
// SetDoNotParseResponse. It consumes the raw body on failure.
func mapRawHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body []byte
	if raw := resp.RawBody(); raw != nil {
		body, _ = io.ReadAll(io.LimitReader(raw, maxErrorBody))
	}
	return statusError(resp.StatusCode(), body)
}

func statusError(code int, rawBody []byte) error {
	body := errorMessage(rawBody)

	switch {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code >= http.StatusInternalServerError:
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("%w: http %d: %s", ErrBackend, code, body)
	default:
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("http %d: %s", code, body)
	}
}

// errorMessage extracts the message of a JSON error body and falls back to
// the trimmed body text.
func errorMessage(body []byte) string {
	var er models.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return strings.TrimSpace(string(body))
}
