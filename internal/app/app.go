// Package app assembles the rentalctl runtime from configuration.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hongminglow/rentalctl/internal/client"
	"github.com/hongminglow/rentalctl/internal/config"
	"github.com/hongminglow/rentalctl/internal/history"
	"github.com/hongminglow/rentalctl/internal/library"
	"github.com/hongminglow/rentalctl/internal/session"
	"github.com/hongminglow/rentalctl/internal/storage"
	"github.com/hongminglow/rentalctl/internal/storage/file"
	"github.com/hongminglow/rentalctl/internal/storage/memory"
	"github.com/hongminglow/rentalctl/internal/storage/postgres"
	"github.com/hongminglow/rentalctl/internal/storage/redis"
	"github.com/hongminglow/rentalctl/internal/storage/sqlstore"
)

// App is everything a command needs.
type App struct {
	Config  config.Client
	Store   storage.Store
	API     *client.Client
	Session *session.Manager
	Library *library.Library
}

// New opens the configured state backend and wires the API client to the
// session. redirect is called whenever the session ends involuntarily.
func New(ctx context.Context, cfg config.Client, redirect func(ctx context.Context)) (*App, error) {
	store, err := OpenStore(ctx, cfg.State)
	if err != nil {
		return nil, err
	}
	return Assemble(cfg, store, redirect), nil
}

// Assemble wires an App around an already open store.
func Assemble(cfg config.Client, store storage.Store, redirect func(ctx context.Context)) *App {
	api := client.New(cfg.APIURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	manager := session.NewManager(store, api, redirect)
	api.SetTokenSource(manager.Tokens())
	api.SetUnauthorizedHook(manager.HandleUnauthorized)

	return &App{
		Config:  cfg,
		Store:   store,
		API:     api,
		Session: manager,
		Library: library.New(api, history.NewTracker(store)),
	}
}

// Close releases the state backend.
func (a *App) Close() error {
	return a.Store.Close()
}

// OpenStore opens the backend selected by cfg.Backend.
func OpenStore(ctx context.Context, cfg config.State) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Printf("state: memory backend, nothing will persist")
		return memory.New(), nil
	case config.BackendFile:
		return file.Open(cfg.Path)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		return sqlstore.OpenSQLite(cfg.Path)
	case config.BackendMySQL:
		return sqlstore.OpenMySQL(cfg.DSN)
	case config.BackendRedis:
		return redis.Open(ctx, redis.Options{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisPrefix,
		})
	case config.BackendPostgres:
		return postgres.NewStateStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
