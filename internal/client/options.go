// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/schema"
	"github.com/MKhiriev/go-entity-sync/internal/service"
	"github.com/MKhiriev/go-entity-sync/models"
)

type options struct {
	mappers    []codec.Mapper
	definition *schema.Definition
	gateway    adapter.Gateway
	handler    service.ResultHandler
	buildInfo  models.AppBuildInfo
	logger     *logger.Logger
}

// Option customizes a Client.
type Option func(*options)

// WithMappers selects typed mode. Every mapper must belong to a model of
// the definition.
func WithMappers(mappers ...codec.Mapper) Option {
	return func(o *options) {
		o.mappers = append(o.mappers, mappers...)
	}
}

// WithDefinition uses def instead of loading the configured definition file.
func WithDefinition(def *schema.Definition) Option {
	return func(o *options) {
		o.definition = def
	}
}

// WithGateway replaces the HTTP gateway.
func WithGateway(gw adapter.Gateway) Option {
	return func(o *options) {
		o.gateway = gw
	}
}

// WithResultHandler sets the consumer of periodic sync results. The
// periodic job only runs when a handler is set and a sync interval is
// configured.
func WithResultHandler(h service.ResultHandler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithBuildInfo reports the build version to the backend.
func WithBuildInfo(info models.AppBuildInfo) Option {
	return func(o *options) {
		o.buildInfo = info
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}
