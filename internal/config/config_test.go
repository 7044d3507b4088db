package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("RENTAL_API_URL", "http://api.local/")
	t.Setenv("RENTAL_STATE_BACKEND", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "http://api.local", cfg.APIURL)
	require.Equal(t, 60*time.Second, cfg.WatchInterval)
	require.Equal(t, BackendFile, cfg.State.Backend)
	require.Equal(t, "state.json", filepath.Base(cfg.State.Path))
}

func TestLoadClientSQLitePath(t *testing.T) {
	t.Setenv("RENTAL_STATE_BACKEND", "SQLite")
	t.Setenv("RENTAL_STATE_FILE", "/tmp/x.db")
	t.Setenv("RENTAL_WATCH_INTERVAL", "5s")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.State.Backend)
	require.Equal(t, "/tmp/x.db", cfg.State.Path)
	require.Equal(t, 5*time.Second, cfg.WatchInterval)
}

func TestLoadClientRequiresDSN(t *testing.T) {
	t.Setenv("RENTAL_STATE_BACKEND", "postgres")
	t.Setenv("RENTAL_STATE_DSN", "")

	_, err := LoadClient()
	require.Error(t, err)
}

func TestLoadClientUnknownBackend(t *testing.T) {
	t.Setenv("RENTAL_STATE_BACKEND", "etcd")

	_, err := LoadClient()
	require.Error(t, err)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("DEVSERVER_JWT_SECRET", "")
	_, err := LoadServer()
	require.Error(t, err)

	t.Setenv("DEVSERVER_JWT_SECRET", "s3cret")
	t.Setenv("DEVSERVER_PORT", "9090")
	t.Setenv("DEVSERVER_CORS_ALLOWED_ORIGINS", "http://a, ,http://b")
	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins())
	require.Equal(t, time.Hour, cfg.JWTTTL)
}
