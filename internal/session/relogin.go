package session

import (
	"context"
	"log"

	"github.com/hongminglow/rentalctl/internal/models/dto"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (dto.LoginResponse, error)
}

// Relogin replays saved credentials to obtain a fresh token without user input.
type Relogin struct {
	vault  *Vault
	tokens *Tokens
	auth   Authenticator
}

// NewRelogin builds a Relogin.
func NewRelogin(vault *Vault, tokens *Tokens, auth Authenticator) *Relogin {
	return &Relogin{vault: vault, tokens: tokens, auth: auth}
}

// Run returns true when a new token was stored. Without saved credentials it
// returns false and makes no request. Failures never clear the saved
// credentials, so a later attempt can still succeed.
func (r *Relogin) Run(ctx context.Context) bool {
	creds, ok := r.vault.Load(ctx)
	if !ok {
		return false
	}

	resp, err := r.auth.Login(ctx, creds.Email, HashPassword(creds.Password))
	if err != nil {
		log.Printf("session: silent re-login for %s failed: %v", creds.Email, err)
		return false
	}
	if resp.Token == "" {
		log.Printf("session: silent re-login for %s returned no token", creds.Email)
		return false
	}

	if err := r.tokens.Apply(ctx, resp.Token, resp.User); err != nil {
		log.Printf("session: store re-login token: %v", err)
		return false
	}
	return true
}
