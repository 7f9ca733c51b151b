package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ValuationService answers read-only questions over the batch ledger for
// reporting: current stock, weighted-average cost, total asset value.
// It never mutates batches and reads only committed state. It takes no row
// locks, so in-flight consumptions are invisible until they commit.
type ValuationService struct {
	batchRepo inventory.BatchRepository
}

// NewValuationService creates a new ValuationService
func NewValuationService(batchRepo inventory.BatchRepository) *ValuationService {
	return &ValuationService{batchRepo: batchRepo}
}

// CurrentStock returns the total remaining quantity across all batches for
// the product. Zero when no batches exist.
func (s *ValuationService) CurrentStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return s.batchRepo.SumRemaining(ctx, productID)
}

// AverageCost returns the weighted average cost over all batches with stock,
// the same pool formula the AVERAGE strategy uses, callable for reporting
// regardless of the active costing method. Zero when there is no stock.
func (s *ValuationService) AverageCost(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	value, err := s.InventoryValue(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return value.AverageCost, nil
}

// InventoryValue returns the full valuation of the product's remaining stock
func (s *ValuationService) InventoryValue(ctx context.Context, productID uuid.UUID) (*inventory.InventoryValue, error) {
	batches, err := s.batchRepo.FindWithStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for i := range batches {
		totalQty = totalQty.Add(batches[i].QtyRemaining)
		totalValue = totalValue.Add(batches[i].RemainingValue())
	}

	averageCost := decimal.Zero
	if totalQty.GreaterThan(decimal.Zero) {
		averageCost = totalValue.Div(totalQty)
	}

	return &inventory.InventoryValue{
		Quantity:    totalQty,
		TotalValue:  totalValue,
		AverageCost: averageCost,
	}, nil
}

// ListBatches returns every batch for the product, oldest first, for stock
// card reporting.
func (s *ValuationService) ListBatches(ctx context.Context, productID uuid.UUID) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses, nil
}
