package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/saebakery/backend/internal/application/inventory"
	"github.com/saebakery/backend/internal/domain/inventory"
)

func TestGormTransactionScope_Commit(t *testing.T) {
	db := setupBatchTestDB(t)
	scope := NewGormTransactionScope(db)
	productID := uuid.New()

	batch, err := inventory.NewInventoryBatch(
		productID, "B1", inventory.BatchSourcePurchase,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(100), decimal.NewFromInt(10000),
	)
	require.NoError(t, err)

	err = scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		if err := repos.Batches().Create(context.Background(), batch); err != nil {
			return err
		}
		return repos.Batches().Decrement(context.Background(), batch.ID, decimal.NewFromInt(30))
	})
	require.NoError(t, err)

	found, err := NewGormBatchRepository(db).FindByID(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.True(t, found.QtyRemaining.Equal(decimal.NewFromInt(70)))
}

func TestGormTransactionScope_RollbackOnError(t *testing.T) {
	db := setupBatchTestDB(t)
	scope := NewGormTransactionScope(db)
	repo := NewGormBatchRepository(db)
	batch := createBatch(t, repo, uuid.New(), "B1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100, 10000)

	failure := errors.New("second decrement refused")
	err := scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		if err := repos.Batches().Decrement(context.Background(), batch.ID, decimal.NewFromInt(40)); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	found, err := repo.FindByID(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.True(t, found.QtyRemaining.Equal(decimal.NewFromInt(100)), "partial decrements roll back together")
}
