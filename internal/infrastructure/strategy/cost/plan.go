package cost

import (
	"sort"

	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// sortOldestFirst orders snapshots by date_in ascending, ties broken by
// creation order. The final ID comparison only matters for batches created in
// the same instant and keeps the ordering fully deterministic.
func sortOldestFirst(batches []strategy.BatchSnapshot) []strategy.BatchSnapshot {
	sorted := make([]strategy.BatchSnapshot, len(batches))
	copy(sorted, batches)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].DateIn.Equal(sorted[j].DateIn) {
			return sorted[i].DateIn.Before(sorted[j].DateIn)
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].BatchID.String() < sorted[j].BatchID.String()
	})
	return sorted
}

// sortNewestFirst is the LIFO ordering: the exact reverse of oldest-first
func sortNewestFirst(batches []strategy.BatchSnapshot) []strategy.BatchSnapshot {
	sorted := sortOldestFirst(batches)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// checkQuantity validates the requested quantity and short-circuits zero
// requests into an empty plan.
func checkQuantity(method strategy.CostMethod, quantity decimal.Decimal) (*strategy.ConsumptionPlan, error) {
	if quantity.IsNegative() {
		return nil, shared.ErrInvalidOperation
	}
	if quantity.IsZero() {
		return strategy.EmptyPlan(method), nil
	}
	return nil, nil
}

// walkDraws drains the ordered batches front to back: each batch contributes
// min(remaining, batch.QtyRemaining) at its own unit cost. Availability must
// already have been checked: the walk assumes the request is coverable.
func walkDraws(method strategy.CostMethod, quantity decimal.Decimal, ordered []strategy.BatchSnapshot) *strategy.ConsumptionPlan {
	remaining := quantity
	totalCost := decimal.Zero
	draws := make([]strategy.BatchDraw, 0, len(ordered))

	for _, batch := range ordered {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if !batch.QtyRemaining.GreaterThan(decimal.Zero) {
			continue
		}

		taken := decimal.Min(remaining, batch.QtyRemaining)
		cost := taken.Mul(batch.UnitCost)
		draws = append(draws, strategy.BatchDraw{
			BatchID:       batch.BatchID,
			BatchLabel:    batch.BatchLabel,
			QuantityTaken: taken,
			UnitCost:      batch.UnitCost,
			CostTaken:     cost,
		})
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(taken)
	}

	return &strategy.ConsumptionPlan{
		Method:          method,
		Quantity:        quantity,
		TotalCost:       totalCost,
		AverageUnitCost: totalCost.Div(quantity),
		Draws:           draws,
	}
}

// planOrdered is the common FIFO/LIFO path: reject shortfalls before planning
// anything, then walk the ordered batches.
func planOrdered(method strategy.CostMethod, productID uuid.UUID, quantity decimal.Decimal, ordered []strategy.BatchSnapshot) (*strategy.ConsumptionPlan, error) {
	if plan, err := checkQuantity(method, quantity); plan != nil || err != nil {
		return plan, err
	}
	available := strategy.TotalAvailable(ordered)
	if available.LessThan(quantity) {
		return nil, shared.NewInsufficientStockError(productID, quantity, available)
	}
	return walkDraws(method, quantity, ordered), nil
}
