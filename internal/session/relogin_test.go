package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
	"github.com/hongminglow/rentalctl/internal/storage/memory"
)

func TestReloginWithoutCredentials(t *testing.T) {
	store := memory.New()
	backend := &fakeBackend{}
	r := NewRelogin(NewVault(store), NewTokens(store), backend)

	require.False(t, r.Run(context.Background()))
	require.Zero(t, backend.logins())
}

func TestReloginSendsDigestAndStoresToken(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	vault := NewVault(store)
	tokens := NewTokens(store)
	require.NoError(t, vault.Save(ctx, "a@b.com", "test"))

	backend := &fakeBackend{login: dto.LoginResponse{
		Token: "fresh",
		User:  models.User{IsAdmin: boolPtr(true)},
	}}
	r := NewRelogin(vault, tokens, backend)

	require.True(t, r.Run(ctx))
	require.Equal(t, []string{"a@b.com"}, backend.loginEmails)
	require.Equal(t, []string{HashPassword("test")}, backend.loginHashes)

	token, ok := tokens.Get(ctx)
	require.True(t, ok)
	require.Equal(t, "fresh", token)
	role, ok := tokens.Role(ctx)
	require.True(t, ok)
	require.Equal(t, models.RoleAdmin, role)
}

func TestReloginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	vault := NewVault(store)
	tokens := NewTokens(store)
	require.NoError(t, vault.Save(ctx, "a@b.com", "pw"))
	require.NoError(t, tokens.Set(ctx, "old"))

	for _, backend := range []*fakeBackend{
		{loginErr: unauthorized()},
		{loginErr: errNetwork},
		{login: dto.LoginResponse{}},
	} {
		require.False(t, NewRelogin(vault, tokens, backend).Run(ctx))

		_, ok := vault.Load(ctx)
		require.True(t, ok)
		token, _ := tokens.Get(ctx)
		require.Equal(t, "old", token)
	}
}
