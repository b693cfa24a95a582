package server

import (
	"context"
	"testing"

	"github.com/jonathan/interview-prep/internal/db/dbtest"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser_CreatesOnce(t *testing.T) {
	database := dbtest.New(t)
	svc := NewUserService(database, nil)
	ctx := context.Background()
	identity := types.Identity{ClerkUserID: "user_1", Email: "ada@example.com", ImageURL: "https://img"}

	first, err := svc.EnsureUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", first.Name, "name falls back to email")
	assert.Equal(t, types.NotSpecifiedIndustry, first.IndustryName())

	second, err := svc.EnsureUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	placeholder, err := database.GetIndustryInsight(ctx, types.NotSpecifiedIndustry)
	require.NoError(t, err)
	require.NotNil(t, placeholder)
	assert.Equal(t, "Unknown", placeholder.DemandLevel)
	assert.Equal(t, "N/A", placeholder.MarketOutlook)
}

func TestEnsureUser_SharesPlaceholderInsight(t *testing.T) {
	database := dbtest.New(t)
	svc := NewUserService(database, nil)
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, types.Identity{ClerkUserID: "a", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.EnsureUser(ctx, types.Identity{ClerkUserID: "b", Email: "b@example.com"})
	require.NoError(t, err)
}

func TestEnsureUser_RequiresIdentity(t *testing.T) {
	svc := NewUserService(dbtest.New(t), nil)
	_, err := svc.EnsureUser(context.Background(), types.Identity{})
	assert.IsType(t, &types.ErrUnauthorized{}, err)
}
