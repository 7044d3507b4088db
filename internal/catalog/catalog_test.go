package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/models"
)

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := New()

	acc, err := s.CreateAccount(ctx, Account{Email: " Player@Example.com ", Address: "Main St 1"})
	require.NoError(t, err)
	require.NotZero(t, acc.ID)
	require.Equal(t, "Player@Example.com", acc.Email)

	_, err = s.CreateAccount(ctx, Account{Email: "player@example.com"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	found, err := s.AccountByEmail(ctx, "PLAYER@example.com")
	require.NoError(t, err)
	require.Equal(t, acc.ID, found.ID)

	addr := "Side St 2"
	updated, err := s.UpdateAccount(ctx, acc.ID, &addr, nil)
	require.NoError(t, err)
	require.Equal(t, "Side St 2", updated.Address)

	_, err = s.Account(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	user := updated.User()
	require.NotNil(t, user.IsAdmin)
	require.False(t, *user.IsAdmin)
}

func TestFilterAndNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	Seed(s, 2)

	games, total := s.Filter(ctx, Query{}, 1, 5)
	require.Equal(t, len(seedGames), total)
	require.Len(t, games, 5)
	require.Equal(t, "Metroid Prime", games[0].Name)

	games, total = s.Filter(ctx, Query{Genres: []string{"Racing"}}, 1, 15)
	require.Equal(t, 1, total)
	require.Equal(t, "Forza Horizon 5", games[0].Name)

	games, total = s.Filter(ctx, Query{MinRating: 90, Platforms: []string{"Nintendo Switch"}}, 1, 15)
	require.Equal(t, 2, total)
	for _, g := range games {
		require.GreaterOrEqual(t, g.Rating, 90.0)
	}

	games, _ = s.Filter(ctx, Query{}, 100, 15)
	require.Empty(t, games)

	newest, total := s.Newest(ctx, 1, 3)
	require.Equal(t, len(seedGames), total)
	require.Equal(t, "Metroid Prime", newest[0].Name)
	require.Equal(t, "Slay the Spire", newest[1].Name)
}

func TestRentAndReturn(t *testing.T) {
	ctx := context.Background()
	s := New()
	game := s.AddGame(models.GameDetails{Title: "Celeste"}, 1, "PC")
	require.Len(t, game.Inventory, 1)
	invID := game.Inventory[0].InventoryID

	rental, err := s.Rent(ctx, 7, invID)
	require.NoError(t, err)
	require.Equal(t, "Celeste", rental.Title)
	require.Equal(t, "PC", rental.PlatformName)
	require.False(t, rental.IsReturned)

	_, err = s.Rent(ctx, 8, invID)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = s.Rent(ctx, 8, 12345)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Return(ctx, 8, rental.ID), ErrNotFound)
	require.NoError(t, s.Return(ctx, 7, rental.ID))
	require.ErrorIs(t, s.Return(ctx, 7, rental.ID), ErrAlreadyReturned)

	details, err := s.Game(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, 1, details.Inventory[0].Quantity)

	rentals := s.Rentals(ctx, 7)
	require.Len(t, rentals, 1)
	require.True(t, rentals[0].IsReturned)
	require.NotNil(t, rentals[0].ActualReturnDate)
	require.Empty(t, s.Rentals(ctx, 8))
}

func TestRandom(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Random(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	Seed(s, 1)
	g, err := s.Random(ctx)
	require.NoError(t, err)
	require.NotZero(t, g.ID)
	require.NotEmpty(t, g.Inventory)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("digest")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "digest"))
	require.ErrorIs(t, CheckPassword(hash, "other"), ErrPasswordMismatch)

	ctx := context.Background()
	s := New()
	require.NoError(t, SeedAdmin(ctx, s, "admin@example.com", "digest"))
	require.NoError(t, SeedAdmin(ctx, s, "admin@example.com", "digest"))
	acc, err := s.AccountByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.True(t, acc.IsAdmin)
}

func TestPasswordLongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("f", 128)
	hash, err := HashPassword(long)
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, long))
	require.ErrorIs(t, CheckPassword(hash, long[:127]+"e"), ErrPasswordMismatch)
}
