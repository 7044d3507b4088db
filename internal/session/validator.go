package session

import (
	"context"
	"log"

	"github.com/hongminglow/rentalctl/internal/client"
)

// Prober asks the backend whether token is accepted. Only the status counts.
type Prober interface {
	ProbeToken(ctx context.Context, token string) error
}

// Validator checks with the backend whether the stored token is still accepted.
type Validator struct {
	tokens *Tokens
	prober Prober
}

// NewValidator builds a Validator.
func NewValidator(tokens *Tokens, prober Prober) *Validator {
	return &Validator{tokens: tokens, prober: prober}
}

// Validate returns true when the backend accepts the stored token.
//
// An explicit rejection clears the token and role flag. A transport failure
// leaves them in place: a connectivity blip must not end the session.
func (v *Validator) Validate(ctx context.Context) bool {
	token, ok := v.tokens.Get(ctx)
	if !ok {
		return false
	}

	err := v.prober.ProbeToken(ctx, token)
	if err == nil {
		return true
	}

	if client.IsRejection(err) {
		log.Printf("session: token rejected by backend: %v", err)
		if err := v.tokens.Clear(ctx); err != nil {
			log.Printf("session: clear rejected token: %v", err)
		}
		return false
	}

	log.Printf("session: token validation error: %v", err)
	return false
}
