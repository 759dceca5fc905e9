// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"strings"

	"github.com/MKhiriev/go-entity-sync/internal/logger"
)

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct {
	log *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.log.Error().Str("func", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.log.Warn().Str("func", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.log.Debug().Str("func", "resty").Msgf(strings.TrimSpace(format), v...)
}
