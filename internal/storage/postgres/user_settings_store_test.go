package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenbot/internal/domain"
	"tokenbot/internal/storage"
)

func TestUserSettingsStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUserSettingsStore(pool)

	settings := domain.DefaultSettings(42, domain.ChainSolana)
	settings.UpdatedAt = 1700000000000

	err := store.Put(ctx, settings)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, 42, domain.ChainSolana)
	require.NoError(t, err)

	assert.Equal(t, int64(42), retrieved.UserID)
	assert.Equal(t, domain.ChainSolana, retrieved.Chain)
	assert.Equal(t, []float64{0.1, 0.5, 1, 1.5}, retrieved.Buy.Presets)
	assert.Equal(t, []float64{25, 50, 70, 100}, retrieved.Sell.Presets)
	assert.Equal(t, 1.0, retrieved.Buy.SlippagePct)
	assert.Equal(t, int64(1700000000000), retrieved.UpdatedAt)
}

func TestUserSettingsStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewUserSettingsStore(pool)

	_, err := store.Get(context.Background(), 999, domain.ChainTON)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserSettingsStore_PutUpserts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUserSettingsStore(pool)

	settings := domain.DefaultSettings(7, domain.ChainTON)
	settings.UpdatedAt = 1700000000000
	require.NoError(t, store.Put(ctx, settings))

	settings.Buy.Presets = []float64{2, 8}
	settings.Buy.SlippagePct = 3
	settings.UpdatedAt = 1700000001000
	require.NoError(t, store.Put(ctx, settings))

	retrieved, err := store.Get(ctx, 7, domain.ChainTON)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 8}, retrieved.Buy.Presets)
	assert.Equal(t, 3.0, retrieved.Buy.SlippagePct)
	assert.Equal(t, int64(1700000001000), retrieved.UpdatedAt)
}

func TestUserSettingsStore_PutValidation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewUserSettingsStore(pool)

	err := store.Put(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Put(context.Background(), &domain.UserSettings{UserID: 1})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestUserSettingsStore_ListByUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUserSettingsStore(pool)

	require.NoError(t, store.Put(ctx, domain.DefaultSettings(9, domain.ChainTON)))
	require.NoError(t, store.Put(ctx, domain.DefaultSettings(9, domain.ChainSolana)))
	require.NoError(t, store.Put(ctx, domain.DefaultSettings(10, domain.ChainSolana)))

	result, err := store.ListByUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, domain.ChainSolana, result[0].Chain)
	assert.Equal(t, domain.ChainTON, result[1].Chain)
	assert.Equal(t, []float64{1, 4, 5, 10}, result[1].Buy.Presets)
}
