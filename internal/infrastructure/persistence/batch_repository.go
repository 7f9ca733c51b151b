package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	var batch inventory.InventoryBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct returns every batch for a product, oldest date_in first
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	var batches []inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date_in ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindWithStock returns all batches with remaining stock for the product
func (r *GormBatchRepository) FindWithStock(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	var batches []inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND qty_remaining > 0", productID).
		Order("date_in ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindWithStockForUpdate returns all batches with remaining stock under
// FOR UPDATE row locks. Rows are locked in ascending id order so concurrent
// FIFO and LIFO consumers of the same product acquire locks in the same
// order; strategies re-sort the snapshot in memory afterwards.
func (r *GormBatchRepository) FindWithStockForUpdate(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	var batches []inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND qty_remaining > 0", productID).
		Order("id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindOldestWithStockAtCost returns the oldest batch with remaining stock at
// exactly the given unit cost, used by the restore path
func (r *GormBatchRepository) FindOldestWithStockAtCost(ctx context.Context, productID uuid.UUID, unitCost decimal.Decimal) (*inventory.InventoryBatch, error) {
	var batch inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND unit_cost = ? AND qty_remaining > 0", productID, unitCost).
		Order("date_in ASC, created_at ASC").
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// SumRemaining sums qty_remaining across all batches for the product
func (r *GormBatchRepository) SumRemaining(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryBatch{}).
		Select("COALESCE(SUM(qty_remaining), 0) AS total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Decrement reduces qty_remaining, guarded against drawing below zero.
// Strategies never plan more than a batch holds, so zero affected rows means
// either a missing batch or a broken invariant upstream.
func (r *GormBatchRepository) Decrement(ctx context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.ErrInvalidOperation
	}
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryBatch{}).
		Where("id = ? AND qty_remaining >= ?", batchID, amount).
		Update("qty_remaining", gorm.Expr("qty_remaining - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidOperation
	}
	return nil
}

// AddQuantity increases qty_remaining on an existing batch (restore path).
// qty_initial grows along with it when the batch overflows its original
// intake, keeping the remaining <= initial invariant intact.
func (r *GormBatchRepository) AddQuantity(ctx context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.ErrInvalidOperation
	}
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]interface{}{
			"qty_remaining": gorm.Expr("qty_remaining + ?", amount),
			"qty_initial":   gorm.Expr("CASE WHEN qty_remaining + ? > qty_initial THEN qty_remaining + ? ELSE qty_initial END", amount, amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Create inserts a new batch
func (r *GormBatchRepository) Create(ctx context.Context, batch *inventory.InventoryBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Save persists changes to an existing batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.InventoryBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// DeleteUntouched deletes a batch only while nothing has been consumed from it
func (r *GormBatchRepository) DeleteUntouched(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND qty_remaining = qty_initial", id).
		Delete(&inventory.InventoryBatch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&inventory.InventoryBatch{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInvalidOperation
	}
	return nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
