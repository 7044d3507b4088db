package server

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/client"
	"github.com/hongminglow/rentalctl/internal/config"
	"github.com/hongminglow/rentalctl/internal/history"
	"github.com/hongminglow/rentalctl/internal/library"
	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
	"github.com/hongminglow/rentalctl/internal/session"
	"github.com/hongminglow/rentalctl/internal/storage/memory"
)

type harness struct {
	api       *client.Client
	manager   *session.Manager
	store     *memory.Store
	catalog   *catalog.Store
	redirects *atomic.Int32
}

func newHarness(t *testing.T, ttl time.Duration) *harness {
	t.Helper()
	cfg := config.Server{JWTSecret: "secret", JWTIssuer: "devserver-test", JWTTTL: ttl, CORSOrigins: "*"}
	store := catalog.New()
	catalog.Seed(store, 2)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	ts := httptest.NewServer(NewHandler(cfg, store, tokens))
	t.Cleanup(ts.Close)

	state := memory.New()
	api := client.New(ts.URL)
	var redirects atomic.Int32
	manager := session.NewManager(state, api, func(context.Context) { redirects.Add(1) })
	api.SetTokenSource(manager.Tokens())
	api.SetUnauthorizedHook(manager.HandleUnauthorized)

	return &harness{api: api, manager: manager, store: state, catalog: store, redirects: &redirects}
}

func (h *harness) register(t *testing.T, email, password string) {
	t.Helper()
	_, err := h.api.Register(context.Background(), dto.RegisterRequest{
		Email:    email,
		Password: session.HashPassword(password),
		Address:  "Main Street 1",
	})
	require.NoError(t, err)
}

func TestSessionLifecycleAgainstDevserver(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)
	h.register(t, "player@example.com", "correct horse")

	user, err := h.manager.Login(ctx, "player@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "player@example.com", user.Email)

	role, ok := h.manager.Role(ctx)
	require.True(t, ok)
	require.Equal(t, models.RoleUser, role)

	require.True(t, h.manager.CheckExpiration(ctx))
	require.True(t, h.manager.Validate(ctx))

	me, err := h.api.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "player@example.com", me.Email)

	game, err := h.api.Game(ctx, 1)
	require.NoError(t, err)
	msg, err := h.api.Rent(ctx, game.Inventory[0].InventoryID)
	require.NoError(t, err)
	require.Equal(t, "Game rented successfully", msg)

	rentals, err := h.api.Rentals(ctx)
	require.NoError(t, err)
	require.Len(t, rentals, 1)

	_, err = h.api.ReturnRental(ctx, rentals[0].ID)
	require.NoError(t, err)

	_, err = h.api.ChangeProfile(ctx, dto.ChangeRequest{Address: "Elm Street 2"})
	require.NoError(t, err)

	require.NoError(t, h.manager.Logout(ctx, false))
	_, err = h.api.Rentals(ctx)
	require.ErrorIs(t, err, client.ErrNoToken)

	require.True(t, h.manager.AutoReLogin(ctx))
	require.True(t, h.manager.Validate(ctx))
	require.Zero(t, h.redirects.Load())
}

func TestRejectedTokenClearsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)

	require.NoError(t, h.manager.Tokens().Set(ctx, "forged.token.value"))
	require.False(t, h.manager.RequireAuth(ctx))
	require.False(t, h.manager.LoggedIn(ctx))
	require.EqualValues(t, 1, h.redirects.Load())

	require.NoError(t, h.manager.Tokens().Set(ctx, "forged.token.value"))
	_, err := h.api.Rentals(ctx)
	require.ErrorIs(t, err, client.ErrSessionExpired)
	require.False(t, h.manager.LoggedIn(ctx))
	require.EqualValues(t, 2, h.redirects.Load())
}

func TestExpiredTokenIsCaughtLocally(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, -time.Minute)
	h.register(t, "late@example.com", "password1")

	_, err := h.manager.Login(ctx, "late@example.com", "password1")
	require.NoError(t, err)

	require.False(t, h.manager.CheckExpiration(ctx))
	require.False(t, h.manager.LoggedIn(ctx))
	require.EqualValues(t, 1, h.redirects.Load())
}

func TestWatchdogReloginAgainstDevserver(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)
	h.register(t, "watch@example.com", "password1")

	_, err := h.manager.Login(ctx, "watch@example.com", "password1")
	require.NoError(t, err)
	require.NoError(t, h.manager.Tokens().Set(ctx, "revoked.by.server"))

	require.True(t, h.manager.Watchdog(time.Minute, true).Pass(ctx))
	token, ok := h.manager.Tokens().Get(ctx)
	require.True(t, ok)
	require.False(t, auth.IsExpired(token))
	require.Zero(t, h.redirects.Load())
}

func TestLibraryAgainstDevserver(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)
	lib := library.New(h.api, history.NewTracker(h.store))

	feed := lib.Feed()
	games, err := feed.Start(ctx)
	require.NoError(t, err)
	require.Len(t, games, 9)
	added, err := feed.More(ctx)
	require.NoError(t, err)
	require.Len(t, added, 3)

	page, err := lib.Filter(ctx, library.Filter{Genres: []string{"Platform"}})
	require.NoError(t, err)
	require.NotEmpty(t, page.Data)

	drawn, err := lib.Draw(ctx)
	require.NoError(t, err)
	details := lib.HistoryDetails(ctx)
	require.Len(t, details, 1)
	require.Equal(t, drawn.ID, details[0].ID)
}
