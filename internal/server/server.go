package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/config"
	"github.com/hongminglow/rentalctl/internal/http/handlers"
	"github.com/hongminglow/rentalctl/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Server, store *catalog.Store) *Server {
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, tokenManager),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler on its own, for tests and embedding.
func NewHandler(cfg config.Server, store *catalog.Store, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	requireAuth := middleware.RequireBearer(tokens)

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(store, tokens, cfg.LoginRate, cfg.LoginBurst).Register(r, requireAuth)
	handlers.NewGamesHandler(store).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		handlers.NewRentalsHandler(store).Register(r)
	})

	return r
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
