package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/http/respond"
	"github.com/hongminglow/rentalctl/internal/middleware"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

// AuthHandler owns the register/login/change endpoints.
type AuthHandler struct {
	store   *catalog.Store
	tokens  *auth.TokenManager
	limiter *clientLimiter
}

// NewAuthHandler constructs the handler. Login attempts are limited to
// loginRate per second with loginBurst per client address; a zero rate
// disables limiting.
func NewAuthHandler(store *catalog.Store, tokens *auth.TokenManager, loginRate float64, loginBurst int) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, limiter: newClientLimiter(loginRate, loginBurst)}
}

// Register attaches auth routes. requireAuth guards /auth/change.
func (h *AuthHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.With(requireAuth).Post("/auth/change", h.handleChange)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := catalog.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	_, err = h.store.CreateAccount(r.Context(), catalog.Account{
		Email:        strings.TrimSpace(req.Email),
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: passwordHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "user already exists")
		default:
			log.Printf("create user error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respond.Message(w, http.StatusCreated, "User created successfully")
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.allow(clientAddress(r)) {
		respond.Error(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	acc, err := h.store.AccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("login failed: error fetching user %s: %v", req.Email, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := catalog.CheckPassword(acc.PasswordHash, req.Password); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(auth.Identity{UserID: acc.ID, Email: acc.Email, IsAdmin: acc.IsAdmin})
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: acc.User()})
}

func (h *AuthHandler) handleChange(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req dto.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Empty() {
		respond.Error(w, http.StatusBadRequest, "no changes provided")
		return
	}

	var address, passwordHash *string
	if req.Address != "" {
		trimmed := strings.TrimSpace(req.Address)
		address = &trimmed
	}
	if req.Password != "" {
		if err := validatePassword(req.Password); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := catalog.HashPassword(req.Password)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		passwordHash = &hash
	}

	if _, err := h.store.UpdateAccount(r.Context(), id.UserID, address, passwordHash); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		log.Printf("update user %d error: %v", id.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	respond.Message(w, http.StatusOK, "Profile updated successfully")
}

func validateRegistration(req dto.RegisterRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return errors.New("address is required")
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{limit: rate.Limit(perSecond), burst: burst, clients: make(map[string]*rate.Limiter)}
}

func (l *clientLimiter) allow(addr string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	lim, ok := l.clients[addr]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[addr] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
