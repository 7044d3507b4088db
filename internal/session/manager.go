// Package session owns the client-side session lifecycle: the persisted token,
// saved credentials, live validation, silent re-login and the watchdog.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/storage"
)

// Backend is the part of the catalog API the session lifecycle talks to.
type Backend interface {
	Prober
	Authenticator
}

// Manager is the session-state object shared by every command.
type Manager struct {
	tokens    *Tokens
	vault     *Vault
	validator *Validator
	relogin   *Relogin
	backend   Backend
	redirect  func(ctx context.Context)
	now       func() time.Time
}

// NewManager builds a Manager over store. redirect is called whenever the
// session ends involuntarily and the user has to log in again; it may be nil.
func NewManager(store storage.Store, backend Backend, redirect func(ctx context.Context)) *Manager {
	tokens := NewTokens(store)
	vault := NewVault(store)
	return &Manager{
		tokens:    tokens,
		vault:     vault,
		validator: NewValidator(tokens, backend),
		relogin:   NewRelogin(vault, tokens, backend),
		backend:   backend,
		redirect:  redirect,
		now:       time.Now,
	}
}

// Tokens exposes the token store. It satisfies client.TokenSource.
func (m *Manager) Tokens() *Tokens { return m.tokens }

// Vault exposes the credential vault.
func (m *Manager) Vault() *Vault { return m.vault }

// LoggedIn reports whether a token is stored. It does not check it.
func (m *Manager) LoggedIn(ctx context.Context) bool {
	_, ok := m.tokens.Get(ctx)
	return ok
}

// Role returns the cached role flag.
func (m *Manager) Role(ctx context.Context) (models.Role, bool) {
	return m.tokens.Role(ctx)
}

// Login performs an interactive login. On success the token and role flag are
// stored and the credentials are saved for silent re-login.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	resp, err := m.backend.Login(ctx, email, HashPassword(password))
	if err != nil {
		return models.User{}, err
	}
	if resp.Token == "" {
		return models.User{}, errors.New("login response carried no token")
	}
	if err := m.tokens.Apply(ctx, resp.Token, resp.User); err != nil {
		return models.User{}, fmt.Errorf("store token: %w", err)
	}
	if err := m.vault.Save(ctx, email, password); err != nil {
		return resp.User, fmt.Errorf("save credentials: %w", err)
	}
	return resp.User, nil
}

// Logout clears the token and role flag. Saved credentials survive unless
// forget is set.
func (m *Manager) Logout(ctx context.Context, forget bool) error {
	err := m.tokens.Clear(ctx)
	if forget {
		err = errors.Join(err, m.vault.Forget(ctx))
	}
	return err
}

// Validate asks the backend whether the stored token is accepted.
func (m *Manager) Validate(ctx context.Context) bool {
	return m.validator.Validate(ctx)
}

// AutoReLogin replays saved credentials.
func (m *Manager) AutoReLogin(ctx context.Context) bool {
	return m.relogin.Run(ctx)
}

// RequireAuth validates the session and redirects when it is not accepted.
func (m *Manager) RequireAuth(ctx context.Context) bool {
	if m.Validate(ctx) {
		return true
	}
	m.redirectTo(ctx)
	return false
}

// CheckExpiration inspects the local expiry claim only. An expired token is
// cleared and the user redirected; the result is false in that case alone.
func (m *Manager) CheckExpiration(ctx context.Context) bool {
	token, ok := m.tokens.Get(ctx)
	if !ok {
		return true
	}
	if !auth.IsExpiredAt(token, m.now()) {
		return true
	}
	log.Printf("session: token expired locally")
	if err := m.tokens.Clear(ctx); err != nil {
		log.Printf("session: clear expired token: %v", err)
	}
	m.redirectTo(ctx)
	return false
}

// HandleUnauthorized is the client's 401 hook: the session is over.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		log.Printf("session: clear after 401: %v", err)
	}
	m.redirectTo(ctx)
}

// Watchdog builds a watchdog bound to this session. With relogin set, a failed
// pass tries saved credentials before redirecting.
func (m *Manager) Watchdog(interval time.Duration, relogin bool) *Watchdog {
	opts := WatchdogOptions{Interval: interval, OnFailure: m.redirectTo}
	if relogin {
		opts.Relogin = m.relogin
	}
	return NewWatchdog(m.tokens, m.validator, opts)
}

// Watch runs the watchdog until ctx is cancelled.
func (m *Manager) Watch(ctx context.Context, interval time.Duration, relogin bool) {
	m.Watchdog(interval, relogin).Run(ctx)
}

func (m *Manager) redirectTo(ctx context.Context) {
	if m.redirect != nil {
		m.redirect(ctx)
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying m.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext returns the Manager carried by ctx.
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(contextKey{}).(*Manager)
	return m, ok && m != nil
}
