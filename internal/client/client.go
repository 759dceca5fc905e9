// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-entity-sync/internal/adapter"
	"github.com/MKhiriev/go-entity-sync/internal/codec"
	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/internal/schema"
	"github.com/MKhiriev/go-entity-sync/internal/service"
	"github.com/MKhiriev/go-entity-sync/internal/staging"
	"github.com/MKhiriev/go-entity-sync/internal/store"
	"github.com/MKhiriev/go-entity-sync/models"
)

var (
	ErrNilConfig                = errors.New("client config is nil")
	ErrNotAuthenticated         = errors.New("client is not authenticated")
	ErrMappersWithoutDefinition = errors.New("typed mode requires a model definition")
	ErrClosed                   = errors.New("client closed")
)

// Client is the sync facade.
type Client struct {
	cfg        *config.ClientConfig
	definition *schema.Definition
	mappers    []codec.Mapper
	handler    service.ResultHandler

	gateway adapter.Gateway
	staging *staging.Store
	journal store.Journal
	logger  *logger.Logger

	mu       sync.RWMutex
	auth     *models.AuthResult
	services *service.Services
	closed   bool
}

var _ SyncClient = (*Client)(nil)

// New builds a Client from cfg. It loads the definition, removes staging
// files left behind by an earlier process and marks its unfinished attempts
// as abandoned. No request is sent before Authenticate.
func New(ctx context.Context, cfg *config.ClientConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	if log == nil {
		log = logger.Nop()
	}

	def := o.definition
	if def == nil && cfg.App.DefinitionPath != "" {
		loaded, err := schema.Load(cfg.App.DefinitionPath)
		if err != nil {
			return nil, fmt.Errorf("error loading definition: %w", err)
		}
		def = loaded
	}
	if def == nil && len(o.mappers) > 0 {
		return nil, ErrMappersWithoutDefinition
	}

	gw := o.gateway
	if gw == nil {
		var err error
		gw, err = adapter.NewHTTPGateway(cfg.Gateway, identity(cfg, def, o.buildInfo), log.WithStr("component", "gateway"))
		if err != nil {
			return nil, fmt.Errorf("error creating gateway: %w", err)
		}
	}

	st, err := staging.NewOSStore(cfg.Storage.StagingDir, log.WithStr("component", "staging"))
	if err != nil {
		return nil, err
	}
	if _, err = st.Sweep(cfg.Workers.ConfirmTimeout); err != nil {
		log.Warn().Err(err).Str("func", "client.New").Msg("failed to sweep staging files")
	}

	journal, err := store.NewJournal(ctx, cfg.Storage, log.WithStr("component", "journal"))
	if err != nil {
		return nil, fmt.Errorf("error opening journal: %w", err)
	}
	if n, err := journal.MarkStaleAbandoned(ctx); err != nil {
		log.Warn().Err(err).Str("func", "client.New").Msg("failed to abandon stale attempts")
	} else if n > 0 {
		log.Info().Str("func", "client.New").Int64("attempts", n).Msg("stale attempts abandoned")
	}

	return &Client{
		cfg:        cfg,
		definition: def,
		mappers:    o.mappers,
		handler:    o.handler,
		gateway:    gw,
		staging:    st,
		journal:    journal,
		logger:     log,
	}, nil
}

func identity(cfg *config.ClientConfig, def *schema.Definition, info models.AppBuildInfo) adapter.Identity {
	id := adapter.Identity{
		Vendor:           cfg.App.Vendor,
		Application:      cfg.App.Application,
		Instance:         cfg.App.Instance,
		Device:           cfg.Device.Name,
		DeviceIdentifier: cfg.Device.Identifier,
		SDKVersion:       info.BuildVersion(),
	}
	if def != nil {
		id.DefinitionDigest = def.Digest
	}
	return id
}

// Authenticate logs in with the configured credentials and builds the
// codec for the models visible to the returned role. Calling it again
// replaces the services; a result awaiting confirmation is abandoned.
func (c *Client) Authenticate(ctx context.Context) (models.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.AuthResult{}, &service.OperationError{Kind: service.KindProgrammer, Op: "authenticate", Err: ErrClosed}
	}

	var push *models.PushRegistration
	if c.cfg.Auth.PushChannel != "" {
		push = &models.PushRegistration{Channel: c.cfg.Auth.PushChannel, Token: c.cfg.Auth.PushToken}
	}

	result, err := c.gateway.Authenticate(ctx, c.cfg.Auth.User, c.cfg.Auth.Password, push)
	if err != nil {
		c.logger.Error().Err(err).Str("func", "Client.Authenticate").Msg("authentication failed")
		return models.AuthResult{}, service.Classify("authenticate", err)
	}

	entityCodec, err := c.buildCodec(result.Role)
	if err != nil {
		return models.AuthResult{}, &service.OperationError{Kind: service.KindProgrammer, Op: "authenticate", Err: err}
	}

	if c.services != nil {
		c.services.Close()
	}
	c.services = service.NewServices(service.Deps{
		Gateway: c.gateway,
		Codec:   entityCodec,
		Staging: c.staging,
		Journal: c.journal,
		Workers: c.cfg.Workers,
		Handler: c.handler,
		Logger:  c.logger,
	})
	c.auth = &result

	if c.handler != nil && c.cfg.Workers.SyncInterval > 0 {
		c.services.SyncJob.Start(context.WithoutCancel(ctx))
	}

	c.logger.Info().Str("func", "Client.Authenticate").
		Str("role", result.Role).
		Bool("typed", entityCodec.Typed()).
		Msg("authenticated")
	return result, nil
}

func (c *Client) buildCodec(role string) (codec.EntityCodec, error) {
	if c.definition == nil {
		return codec.NewUntyped(), nil
	}

	visible := c.definition.ForRole(role)
	if len(c.mappers) == 0 {
		return codec.NewUntyped(visible...), nil
	}

	registry, err := codec.NewRegistry(visible, c.mappers...)
	if err != nil {
		return nil, fmt.Errorf("error building registry for role %q: %w", role, err)
	}
	return codec.NewTyped(registry), nil
}

func (c *Client) current(op string) (*service.Services, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.closed:
		return nil, &service.OperationError{Kind: service.KindProgrammer, Op: op, Err: ErrClosed}
	case c.services == nil:
		return nil, &service.OperationError{Kind: service.KindProgrammer, Op: op, Err: ErrNotAuthenticated}
	}
	return c.services, nil
}

func (c *Client) SyncAll(ctx context.Context) (*service.SyncResult, error) {
	svc, err := c.current("sync all")
	if err != nil {
		return nil, err
	}
	return svc.SyncService.SyncAll(ctx)
}

func (c *Client) SyncDiff(ctx context.Context, entities []any, files []models.File) (*service.SyncResult, error) {
	svc, err := c.current("sync diff")
	if err != nil {
		return nil, err
	}
	return svc.SyncService.SyncDiff(ctx, entities, files)
}

func (c *Client) SyncAllAsync(ctx context.Context) (<-chan service.Outcome, error) {
	svc, err := c.current("sync all")
	if err != nil {
		return nil, err
	}
	return svc.AsyncSyncService.SyncAllAsync(ctx)
}

func (c *Client) SyncDiffAsync(ctx context.Context, entities []any, files []models.File) (<-chan service.Outcome, error) {
	svc, err := c.current("sync diff")
	if err != nil {
		return nil, err
	}
	return svc.AsyncSyncService.SyncDiffAsync(ctx, entities, files)
}

func (c *Client) GetConflictHistory(ctx context.Context, model, guid string) ([]models.EntityVersion, error) {
	svc, err := c.current("conflict history")
	if err != nil {
		return nil, err
	}
	return svc.ConflictHistoryService.GetHistory(ctx, model, guid)
}

func (c *Client) Attempts(ctx context.Context, filter models.AttemptFilter) ([]models.SyncAttempt, error) {
	return c.journal.List(ctx, filter)
}

func (c *Client) Definition() *schema.Definition {
	return c.definition
}

// Role returns the role of the last successful authentication.
func (c *Client) Role() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.auth == nil {
		return "", false
	}
	return c.auth.Role, true
}

// Close stops background work, abandons pending results and closes the
// journal. Only the first call has an effect.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	svc := c.services
	c.services = nil
	c.mu.Unlock()

	if svc != nil {
		svc.Close()
	}
	return c.journal.Close()
}
