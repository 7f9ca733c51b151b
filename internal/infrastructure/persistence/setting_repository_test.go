package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saebakery/backend/internal/domain/settings"
	"github.com/saebakery/backend/internal/domain/shared"
)

func setupSettingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&settings.Setting{}))
	return db
}

func TestGormSettingRepository_GetMissing(t *testing.T) {
	repo := NewGormSettingRepository(setupSettingTestDB(t))

	_, err := repo.Get(context.Background(), settings.KeyInventoryMethod)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSettingRepository_SetAndGet(t *testing.T) {
	repo := NewGormSettingRepository(setupSettingTestDB(t))

	require.NoError(t, repo.Set(context.Background(), settings.KeyInventoryMethod, "LIFO", "Active inventory costing method"))

	setting, err := repo.Get(context.Background(), settings.KeyInventoryMethod)
	require.NoError(t, err)
	assert.Equal(t, "LIFO", setting.Value)
	assert.Equal(t, "Active inventory costing method", setting.Description)
}

func TestGormSettingRepository_SetUpserts(t *testing.T) {
	repo := NewGormSettingRepository(setupSettingTestDB(t))

	require.NoError(t, repo.Set(context.Background(), settings.KeyInventoryMethod, "FIFO", ""))
	require.NoError(t, repo.Set(context.Background(), settings.KeyInventoryMethod, "AVERAGE", "changed"))

	setting, err := repo.Get(context.Background(), settings.KeyInventoryMethod)
	require.NoError(t, err)
	assert.Equal(t, "AVERAGE", setting.Value)
	assert.Equal(t, "changed", setting.Description)

	var count int64
	require.NoError(t, repo.db.Model(&settings.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert must not duplicate the key")
}
