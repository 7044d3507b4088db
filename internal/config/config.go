package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends selectable through RENTAL_STATE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Client holds rentalctl configuration sourced from env vars.
type Client struct {
	APIURL         string        `envconfig:"API_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	RateLimit      float64       `envconfig:"RATE_LIMIT" default:"10"`
	RateBurst      int           `envconfig:"RATE_BURST" default:"5"`

	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"60s"`
	WatchRelogin  bool          `envconfig:"WATCH_RELOGIN" default:"false"`

	// Verbose sends library logging to stderr instead of discarding it.
	Verbose bool `envconfig:"VERBOSE" default:"false"`

	// State is read from RENTAL_STATE_*.
	State State `envconfig:"STATE"`
}

// State selects and configures the persisted client state backend.
type State struct {
	Backend       string `envconfig:"BACKEND" default:"file"`
	Path          string `envconfig:"FILE"`
	DSN           string `envconfig:"DSN"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"rentalctl:state:"`
}

// Server holds devserver configuration sourced from env vars.
type Server struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	JWTIssuer   string        `envconfig:"JWT_ISSUER" default:"rental-devserver"`
	JWTTTL      time.Duration `envconfig:"JWT_TTL" default:"60m"`
	CORSOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LoginRate   float64       `envconfig:"LOGIN_RATE" default:"1"`
	LoginBurst  int           `envconfig:"LOGIN_BURST" default:"5"`
	AdminEmail  string        `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	// AdminPassword seeds the admin account; empty disables seeding.
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// LoadEnvFile reads a local .env when present.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadClient reads RENTAL_* variables and performs minimal validation.
func LoadClient() (Client, error) {
	var cfg Client
	if err := envconfig.Process("rental", &cfg); err != nil {
		return Client{}, fmt.Errorf("load client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return Client{}, errors.New("RENTAL_API_URL is required")
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 60 * time.Second
	}

	cfg.State.Backend = strings.ToLower(fallback(cfg.State.Backend, BackendFile))
	switch cfg.State.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile:
		cfg.State.Path = fallback(cfg.State.Path, defaultStatePath("state.json"))
	case BackendSQLite:
		cfg.State.Path = fallback(cfg.State.Path, defaultStatePath("state.db"))
	case BackendMySQL, BackendPostgres:
		if strings.TrimSpace(cfg.State.DSN) == "" {
			return Client{}, fmt.Errorf("RENTAL_STATE_DSN is required for the %s backend", cfg.State.Backend)
		}
	default:
		return Client{}, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}

	return cfg, nil
}

// LoadServer reads DEVSERVER_* variables and performs minimal validation.
func LoadServer() (Server, error) {
	var cfg Server
	if err := envconfig.Process("devserver", &cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return Server{}, errors.New("DEVSERVER_JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 60 * time.Minute
	}
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Server) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// AllowedOrigins splits the CORS origin list.
func (c Server) AllowedOrigins() []string {
	return parseCSV(c.CORSOrigins)
}

func defaultStatePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "rentalctl", name)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
