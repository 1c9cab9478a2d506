package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

func TestPostgresUserRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresUserRepository(db.DB)
	ctx := context.Background()

	user, err := domain.NewUser("user-repo-test-1", "repo@hydroping.app")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("correct horse battery"))
	require.NoError(t, user.SetTimezone("Europe/Rome"))

	t.Run("Create User", func(t *testing.T) {
		err := repo.Create(ctx, user)
		assert.NoError(t, err)
	})

	t.Run("Get By ID", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, "repo@hydroping.app", fetched.Email)
		assert.Equal(t, "Europe/Rome", fetched.Timezone)
		assert.Equal(t, domain.TierFree, fetched.Tier)
		assert.NoError(t, fetched.CheckPassword("correct horse battery"))
	})

	t.Run("Get By Email", func(t *testing.T) {
		fetched, err := repo.GetByEmail(ctx, "repo@hydroping.app")
		require.NoError(t, err)
		assert.Equal(t, user.ID, fetched.ID)
	})

	t.Run("Fail: Duplicate email", func(t *testing.T) {
		dup, err := domain.NewUser("user-repo-test-2", "repo@hydroping.app")
		require.NoError(t, err)
		require.NoError(t, dup.SetPassword("another password"))

		err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("Update persists tier and customer id", func(t *testing.T) {
		user.Upgrade("cus_integration_123")
		require.NoError(t, repo.Update(ctx, user))

		fetched, err := repo.GetByStripeCustomerID(ctx, "cus_integration_123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, fetched.ID)
		assert.Equal(t, domain.TierPro, fetched.Tier)
	})

	t.Run("UpdateStreaks", func(t *testing.T) {
		err := repo.UpdateStreaks(ctx, user.ID, 4, 9)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, fetched.CurrentStreak)
		assert.Equal(t, 9, fetched.BestStreak)
	})

	t.Run("Fail: Unknown lookups", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "ghost@hydroping.app")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		ghost, err := domain.NewUser("ghost", "ghost@hydroping.app")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrUserNotFound)
		assert.ErrorIs(t, repo.UpdateStreaks(ctx, "ghost", 1, 1), domain.ErrUserNotFound)
	})
}
