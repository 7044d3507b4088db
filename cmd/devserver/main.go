package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/config"
	"github.com/hongminglow/rentalctl/internal/server"
	"github.com/hongminglow/rentalctl/internal/session"
)

func main() {
	config.LoadEnvFile()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store := catalog.New()
	catalog.Seed(store, 3)
	if cfg.AdminPassword != "" {
		// Clients send the SHA-512 digest, so that is what gets bcrypted.
		if err := catalog.SeedAdmin(ctx, store, cfg.AdminEmail, session.HashPassword(cfg.AdminPassword)); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		log.Printf("seeded admin account %s", cfg.AdminEmail)
	}

	srv := server.New(cfg, store)

	go func() {
		log.Printf("rental devserver listening on %s", srv.Addr())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
