package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/hongminglow/rentalctl/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Dialect selects driver name, DDL and upsert syntax.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	MySQL  Dialect = "mysql"
)

// Store keeps client state in a single client_state table.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open(string(SQLite), dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return newStore(db, SQLite)
}

// OpenMySQL connects to MySQL using a go-sql-driver DSN.
func OpenMySQL(dsn string) (*Store, error) {
	db, err := sql.Open(string(MySQL), dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return newStore(db, MySQL)
}

func newStore(db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("client state store ready (%s)", dialect)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var stmt string
	switch s.dialect {
	case MySQL:
		stmt = `CREATE TABLE IF NOT EXISTS client_state (
			state_key VARCHAR(191) PRIMARY KEY,
			state_value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`
	default:
		stmt = `CREATE TABLE IF NOT EXISTS client_state (
			state_key TEXT PRIMARY KEY,
			state_value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Get returns the value for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT state_value FROM client_state WHERE state_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	var query string
	switch s.dialect {
	case MySQL:
		query = `INSERT INTO client_state (state_key, state_value, updated_at)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE state_value = VALUES(state_value), updated_at = VALUES(updated_at)`
	default:
		query = `INSERT INTO client_state (state_key, state_value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(state_key) DO UPDATE SET
				state_value = excluded.state_value,
				updated_at = excluded.updated_at`
	}
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE state_key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
