package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/middleware"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

func newTestServer(t *testing.T, loginRate float64, loginBurst int) (*httptest.Server, *catalog.Store) {
	t.Helper()
	store := catalog.New()
	catalog.Seed(store, 1)
	tokens := auth.NewTokenManager("test-secret", "test-issuer", time.Hour)
	requireAuth := middleware.RequireBearer(tokens)

	r := chi.NewRouter()
	NewHealthHandler(time.Now()).Register(r)
	NewAuthHandler(store, tokens, loginRate, loginBurst).Register(r, requireAuth)
	NewGamesHandler(store).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		NewRentalsHandler(store).Register(r)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, store
}

// TestAuthIntegration exercises register, login and profile change end to end.
func TestAuthIntegration(t *testing.T) {
	ts, _ := newTestServer(t, 0, 0)

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	password := strings.Repeat("ab", 64)

	status, body := postJSON(t, ts.URL+"/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"address":  "Main Street 1",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d body = %s", status, body)
	}

	status, _ = postJSON(t, ts.URL+"/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"address":  "Main Street 1",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", status)
	}

	loggedIn := requestLogin(t, ts.URL, email, password)
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}
	if loggedIn.User.IsAdmin == nil || *loggedIn.User.IsAdmin {
		t.Fatalf("login returned unexpected role: %+v", loggedIn.User)
	}

	status, body = postJSON(t, ts.URL+"/auth/change", loggedIn.Token, map[string]string{"address": "Second Street 2"})
	if status != http.StatusOK {
		t.Fatalf("change status = %d body = %s", status, body)
	}

	status, _ = postJSON(t, ts.URL+"/auth/change", loggedIn.Token, map[string]string{})
	if status != http.StatusBadRequest {
		t.Fatalf("empty change status = %d", status)
	}

	status, _ = postJSON(t, ts.URL+"/auth/change", "", map[string]string{"address": "x"})
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated change status = %d", status)
	}

	status, body = postJSON(t, ts.URL+"/auth/login", "", map[string]string{"email": email, "password": "wrong-password"})
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", status)
	}
	var errBody dto.ErrorResponse
	if err := json.Unmarshal(body, &errBody); err != nil || errBody.Error != "invalid credentials" {
		t.Fatalf("wrong password body = %s", body)
	}
}

func TestRegisterValidation(t *testing.T) {
	ts, _ := newTestServer(t, 0, 0)

	cases := map[string]map[string]string{
		"missing email":   {"password": "longenough", "address": "a"},
		"missing address": {"email": "a@b.com", "password": "longenough"},
		"short password":  {"email": "a@b.com", "password": "short", "address": "a"},
	}
	for name, payload := range cases {
		status, _ := postJSON(t, ts.URL+"/auth/register", "", payload)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d", name, status)
		}
	}
}

func TestLoginRateLimit(t *testing.T) {
	ts, _ := newTestServer(t, 0.001, 2)

	var last int
	for i := 0; i < 3; i++ {
		last, _ = postJSON(t, ts.URL+"/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("third attempt status = %d", last)
	}
}

type loginResponseBody = dto.LoginResponse

func requestLogin(t *testing.T, baseURL, email, password string) loginResponseBody {
	t.Helper()
	status, body := postJSON(t, baseURL+"/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d body = %s", status, body)
	}

	var out loginResponseBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return out
}

func postJSON(t *testing.T, url, token string, payload any) (int, []byte) {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func getJSON(t *testing.T, url, token string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}
