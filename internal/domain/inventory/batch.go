package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// BatchSource identifies where a batch's stock entered the system
type BatchSource string

const (
	BatchSourcePurchase         BatchSource = "purchase"
	BatchSourceOpeningBalance   BatchSource = "opening_balance"
	BatchSourceProductionResult BatchSource = "production_result"
	BatchSourceAdjustment       BatchSource = "adjustment"
	// Reversal sources tag batches recreated when an outbound transaction is
	// deleted. Restoration is an approximation: quantity returns at the
	// original transaction's cost, not to the exact batches it depleted.
	BatchSourceSaleReversal       BatchSource = "sale_reversal"
	BatchSourceUsageReversal      BatchSource = "usage_reversal"
	BatchSourceWipUsageReversal   BatchSource = "wip_usage_reversal"
	BatchSourceProductionReversal BatchSource = "production_material_reversal"
)

// String returns the string representation
func (s BatchSource) String() string {
	return string(s)
}

// IsValid checks if the source is a known batch source
func (s BatchSource) IsValid() bool {
	switch s {
	case BatchSourcePurchase, BatchSourceOpeningBalance, BatchSourceProductionResult,
		BatchSourceAdjustment, BatchSourceSaleReversal, BatchSourceUsageReversal,
		BatchSourceWipUsageReversal, BatchSourceProductionReversal:
		return true
	}
	return false
}

// InventoryBatch is one receipt lot of stock for one product: the atomic unit
// of cost tracking. QtyInitial and UnitCost are immutable after creation;
// QtyRemaining is the authoritative remaining balance for this cost lot and
// only ever decreases through consumption (or grows back through restore).
type InventoryBatch struct {
	shared.BaseEntity
	ProductID    uuid.UUID       `gorm:"type:uuid;index:idx_batches_product_date;index:idx_batches_product_remaining"`
	BatchLabel   string          `gorm:"index"`
	Source       BatchSource     `gorm:"type:varchar(40)"`
	DateIn       time.Time       `gorm:"index:idx_batches_product_date"`
	QtyInitial   decimal.Decimal `gorm:"type:decimal(14,4)"`
	QtyRemaining decimal.Decimal `gorm:"type:decimal(14,4);index:idx_batches_product_remaining"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// NewInventoryBatch creates a new batch with the full quantity remaining
func NewInventoryBatch(
	productID uuid.UUID,
	batchLabel string,
	source BatchSource,
	dateIn time.Time,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
) (*InventoryBatch, error) {
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Batch quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Batch unit cost cannot be negative")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", fmt.Sprintf("Unknown batch source %q", source))
	}
	return &InventoryBatch{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		BatchLabel:   batchLabel,
		Source:       source,
		DateIn:       dateIn,
		QtyInitial:   quantity,
		QtyRemaining: quantity,
		UnitCost:     unitCost,
	}, nil
}

// Decrement reduces the remaining quantity. A request exceeding the remaining
// quantity is an invariant violation, not a normal shortfall: strategies
// pre-check availability, so overdrawing a single batch means a bug upstream.
func (b *InventoryBatch) Decrement(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.ErrInvalidOperation
	}
	if quantity.GreaterThan(b.QtyRemaining) {
		return shared.ErrInvalidOperation
	}
	b.QtyRemaining = b.QtyRemaining.Sub(quantity)
	b.Touch()
	return nil
}

// AddQuantity increases the remaining quantity (restore path only)
func (b *InventoryBatch) AddQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.ErrInvalidOperation
	}
	b.QtyRemaining = b.QtyRemaining.Add(quantity)
	if b.QtyRemaining.GreaterThan(b.QtyInitial) {
		b.QtyInitial = b.QtyRemaining
	}
	b.Touch()
	return nil
}

// HasStock returns true if the batch still has remaining quantity
func (b *InventoryBatch) HasStock() bool {
	return b.QtyRemaining.GreaterThan(decimal.Zero)
}

// Untouched returns true if nothing has been consumed from the batch.
// Only untouched batches may be physically deleted when their originating
// inbound transaction is reversed.
func (b *InventoryBatch) Untouched() bool {
	return b.QtyRemaining.Equal(b.QtyInitial)
}

// ConsumedQuantity returns how much has been drawn from the batch so far
func (b *InventoryBatch) ConsumedQuantity() decimal.Decimal {
	return b.QtyInitial.Sub(b.QtyRemaining)
}

// RemainingValue returns the cost basis still held in the batch
func (b *InventoryBatch) RemainingValue() decimal.Decimal {
	return b.QtyRemaining.Mul(b.UnitCost)
}

// Snapshot converts the batch to the immutable view used by costing strategies
func (b *InventoryBatch) Snapshot() strategy.BatchSnapshot {
	return strategy.BatchSnapshot{
		BatchID:      b.ID,
		BatchLabel:   b.BatchLabel,
		DateIn:       b.DateIn,
		CreatedAt:    b.CreatedAt,
		QtyRemaining: b.QtyRemaining,
		UnitCost:     b.UnitCost,
	}
}

// SnapshotBatches converts a batch slice to strategy snapshots
func SnapshotBatches(batches []InventoryBatch) []strategy.BatchSnapshot {
	snapshots := make([]strategy.BatchSnapshot, 0, len(batches))
	for i := range batches {
		snapshots = append(snapshots, batches[i].Snapshot())
	}
	return snapshots
}
