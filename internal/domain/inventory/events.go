package inventory

import (
	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// Event types for the batch ledger
const (
	EventTypeStockReplenished = "inventory.stock_replenished"
	EventTypeStockConsumed    = "inventory.stock_consumed"
	EventTypeStockRestored    = "inventory.stock_restored"
)

const aggregateTypeBatchLedger = "InventoryBatchLedger"

// StockReplenishedEvent is published when a new batch enters the ledger
type StockReplenishedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	BatchID    uuid.UUID       `json:"batch_id"`
	BatchLabel string          `json:"batch_label"`
	Source     BatchSource     `json:"source"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// NewStockReplenishedEvent creates a StockReplenishedEvent for the batch
func NewStockReplenishedEvent(batch *InventoryBatch) *StockReplenishedEvent {
	return &StockReplenishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReplenished, aggregateTypeBatchLedger, batch.ProductID),
		ProductID:       batch.ProductID,
		BatchID:         batch.ID,
		BatchLabel:      batch.BatchLabel,
		Source:          batch.Source,
		Quantity:        batch.QtyInitial,
		UnitCost:        batch.UnitCost,
	}
}

// StockConsumedEvent is published after a successful consumption commits
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	ProductID          uuid.UUID            `json:"product_id"`
	Method             strategy.CostMethod  `json:"method"`
	Quantity           decimal.Decimal      `json:"quantity"`
	TotalCost          decimal.Decimal      `json:"total_cost"`
	AverageCostPerUnit decimal.Decimal      `json:"average_cost_per_unit"`
	Draws              []strategy.BatchDraw `json:"draws"`
}

// NewStockConsumedEvent creates a StockConsumedEvent from a consumption result
func NewStockConsumedEvent(productID uuid.UUID, result *ConsumptionResult) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeStockConsumed, aggregateTypeBatchLedger, productID),
		ProductID:          productID,
		Method:             result.Method,
		Quantity:           result.Quantity,
		TotalCost:          result.TotalCost,
		AverageCostPerUnit: result.AverageCostPerUnit,
		Draws:              result.Draws,
	}
}

// StockRestoredEvent is published when reversed stock returns to the ledger
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Source       BatchSource     `json:"source"`
	CreatedBatch bool            `json:"created_batch"`
}

// NewStockRestoredEvent creates a StockRestoredEvent
func NewStockRestoredEvent(productID, batchID uuid.UUID, quantity, unitCost decimal.Decimal, source BatchSource, createdBatch bool) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, aggregateTypeBatchLedger, productID),
		ProductID:       productID,
		BatchID:         batchID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		Source:          source,
		CreatedBatch:    createdBatch,
	}
}
