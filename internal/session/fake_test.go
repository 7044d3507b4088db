package session

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"

	"github.com/hongminglow/rentalctl/internal/client"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

var errNetwork = errors.New("dial tcp: connection refused")

type fakeBackend struct {
	mu sync.Mutex

	meErr    error
	loginErr error
	login    dto.LoginResponse

	meTokens    []string
	loginEmails []string
	loginHashes []string
}

func (f *fakeBackend) ProbeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meTokens = append(f.meTokens, token)
	return f.meErr
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (dto.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginEmails = append(f.loginEmails, email)
	f.loginHashes = append(f.loginHashes, password)
	if f.loginErr != nil {
		return dto.LoginResponse{}, f.loginErr
	}
	return f.login, nil
}

func (f *fakeBackend) probes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.meTokens)
}

func (f *fakeBackend) logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loginEmails)
}

func (f *fakeBackend) setMeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meErr = err
}

func unauthorized() error {
	return &client.StatusError{StatusCode: http.StatusUnauthorized, Message: "invalid token"}
}

func boolPtr(b bool) *bool { return &b }

func futureToken() string {
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"exp":4102444800}`)) + ".s"
}
