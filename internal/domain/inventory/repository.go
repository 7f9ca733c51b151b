package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchRepository defines persistence for the batch ledger.
//
// Locking model: the ledger has no locking of its own. FindWithStockForUpdate
// acquires row locks in ascending primary-key order so that concurrent
// consumers of the same product queue in a consistent order regardless of the
// active costing strategy; orchestration (transaction boundaries, all-or-
// nothing decrements) lives in the consumption service.
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryBatch, error)

	// FindByProduct returns every batch for a product, oldest date_in first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryBatch, error)

	// FindWithStock returns all batches with qty_remaining > 0 for the product
	FindWithStock(ctx context.Context, productID uuid.UUID) ([]InventoryBatch, error)

	// FindWithStockForUpdate is FindWithStock under FOR UPDATE row locks,
	// rows ordered by id ascending. Must run inside a transaction scope.
	FindWithStockForUpdate(ctx context.Context, productID uuid.UUID) ([]InventoryBatch, error)

	// FindOldestWithStockAtCost returns the oldest batch with remaining stock
	// at exactly the given unit cost, or ErrNotFound
	FindOldestWithStockAtCost(ctx context.Context, productID uuid.UUID, unitCost decimal.Decimal) (*InventoryBatch, error)

	// SumRemaining sums qty_remaining across all batches for the product.
	// Zero when no batches exist; never an error.
	SumRemaining(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)

	// Decrement reduces qty_remaining by amount. Fails with ErrInvalidOperation
	// if amount exceeds the batch's remaining quantity.
	Decrement(ctx context.Context, batchID uuid.UUID, amount decimal.Decimal) error

	// AddQuantity increases qty_remaining by amount (restore path)
	AddQuantity(ctx context.Context, batchID uuid.UUID, amount decimal.Decimal) error

	// Create inserts a new batch
	Create(ctx context.Context, batch *InventoryBatch) error

	// Save persists changes to an existing batch
	Save(ctx context.Context, batch *InventoryBatch) error

	// DeleteUntouched deletes a batch only while qty_remaining == qty_initial.
	// Fails with ErrInvalidOperation once any quantity has been consumed.
	DeleteUntouched(ctx context.Context, id uuid.UUID) error
}
