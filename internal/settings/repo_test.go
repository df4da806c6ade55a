package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
)

func openSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SystemSetting{}))

	t.Cleanup(func() {
		_ = conn.Exec("DELETE FROM system_settings").Error
	})
	return conn
}

func TestRepositoryUpsertAndFind(t *testing.T) {
	repo := NewRepository(openSettingsDB(t))
	ctx := context.Background()

	actor := uuid.New()
	require.NoError(t, repo.Upsert(ctx, &models.SystemSetting{
		Key:       "checkout.free_shipping_threshold",
		Value:     float64(5000),
		UpdatedBy: &actor,
	}))

	found, err := repo.Find(ctx, "checkout.free_shipping_threshold")
	require.NoError(t, err)
	require.Equal(t, float64(5000), found.Value)
	require.NotNil(t, found.UpdatedBy)
	require.Equal(t, actor, *found.UpdatedBy)

	_, err = repo.Find(ctx, "missing.key")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpsertOverwrites(t *testing.T) {
	repo := NewRepository(openSettingsDB(t))
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()

	require.NoError(t, repo.Upsert(ctx, &models.SystemSetting{
		Key:       "maintenance.banner",
		Value:     "down at midnight",
		UpdatedBy: &first,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.SystemSetting{
		Key:       "maintenance.banner",
		Value:     "back online",
		UpdatedBy: &second,
	}))

	found, err := repo.Find(ctx, "maintenance.banner")
	require.NoError(t, err)
	require.Equal(t, "back online", found.Value)
	require.Equal(t, second, *found.UpdatedBy)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepositoryListOrdersByKey(t *testing.T) {
	repo := NewRepository(openSettingsDB(t))
	ctx := context.Background()

	for _, key := range []string{"zeta.flag", "alpha.flag", "cart.ttl_hours"} {
		require.NoError(t, repo.Upsert(ctx, &models.SystemSetting{Key: key, Value: true}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "alpha.flag", list[0].Key)
	require.Equal(t, "cart.ttl_hours", list[1].Key)
	require.Equal(t, "zeta.flag", list[2].Key)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(openSettingsDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.SystemSetting{Key: "social.enabled", Value: true}))

	removed, err := repo.Delete(ctx, "social.enabled")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Delete(ctx, "social.enabled")
	require.NoError(t, err)
	require.False(t, removed)
}
