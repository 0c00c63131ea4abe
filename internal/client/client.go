// Package client wires configuration, storage, transport, and
// services into one application instance.
package client

import (
	"fmt"

	"github.com/joelwehr/ppclog/internal/config"
	"github.com/joelwehr/ppclog/internal/creds"
	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/services/auth"
	"github.com/joelwehr/ppclog/internal/services/checklists"
	"github.com/joelwehr/ppclog/internal/services/flights"
	syncsvc "github.com/joelwehr/ppclog/internal/services/sync"
	"github.com/joelwehr/ppclog/internal/store"
	"github.com/joelwehr/ppclog/internal/transport"
)

// Client is the assembled application.
type Client struct {
	Config    *config.Config
	Logger    *events.Logger
	Store     *store.Store
	Creds     creds.Store
	Transport transport.Client

	Auth       *auth.Service
	Sync       *syncsvc.Engine
	Scheduler  *syncsvc.Scheduler
	Flights    *flights.Service
	Checklists *checklists.Service
}

// New builds a client from config. The authorizer supplies the
// interactive part of the sign-in flow.
func New(cfg *config.Config, authorizer auth.Authorizer) (*Client, error) {
	logger := events.New(&events.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Storage.DatabaseFile, logger)
	if err != nil {
		return nil, err
	}

	clientID, err := st.ClientID()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load client id: %w", err)
	}

	httpClient := transport.NewHTTPClient(&cfg.API, clientID, logger)
	credStore := creds.NewFileStore(cfg.Storage.CredsFile)

	authSvc := auth.NewService(httpClient, credStore, authorizer, logger)
	engine := syncsvc.NewEngine(st, httpClient, authSvc, logger)
	scheduler := syncsvc.NewScheduler(engine, cfg.Sync.InitialDelay, cfg.Sync.Interval, logger)
	authSvc.SetRunner(scheduler)

	return &Client{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Creds:      credStore,
		Transport:  httpClient,
		Auth:       authSvc,
		Sync:       engine,
		Scheduler:  scheduler,
		Flights:    flights.NewService(st, logger),
		Checklists: checklists.NewService(st, logger),
	}, nil
}

// Close stops background work and releases the database.
func (c *Client) Close() error {
	c.Scheduler.Stop()
	return c.Store.Close()
}
