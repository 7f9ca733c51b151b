package cost

import (
	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// AverageStrategy implements weighted-average consumption. The pool-wide
// average over all batches with stock is computed once, before any mutation,
// and every unit in the request is charged at that average. Batches are still
// drained oldest-first, but that ordering is bookkeeping only: it never
// affects the reported cost.
type AverageStrategy struct {
	strategy.BaseStrategy
}

// NewAverageStrategy creates a new weighted-average costing strategy
func NewAverageStrategy() *AverageStrategy {
	return &AverageStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"average",
			"Weighted average: all batches blended into one pool-wide unit cost",
		),
	}
}

// Method returns the costing method
func (s *AverageStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodAverage
}

// Plan computes weighted-average draws for the requested quantity
func (s *AverageStrategy) Plan(productID uuid.UUID, quantity decimal.Decimal, batches []strategy.BatchSnapshot) (*strategy.ConsumptionPlan, error) {
	if plan, err := checkQuantity(strategy.CostMethodAverage, quantity); plan != nil || err != nil {
		return plan, err
	}

	available := strategy.TotalAvailable(batches)
	if available.LessThan(quantity) {
		return nil, shared.NewInsufficientStockError(productID, quantity, available)
	}

	totalValue := decimal.Zero
	for _, b := range batches {
		totalValue = totalValue.Add(b.Value())
	}
	averageCost := totalValue.Div(available)

	remaining := quantity
	draws := make([]strategy.BatchDraw, 0, len(batches))
	for _, batch := range sortOldestFirst(batches) {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if !batch.QtyRemaining.GreaterThan(decimal.Zero) {
			continue
		}
		taken := decimal.Min(remaining, batch.QtyRemaining)
		draws = append(draws, strategy.BatchDraw{
			BatchID:       batch.BatchID,
			BatchLabel:    batch.BatchLabel,
			QuantityTaken: taken,
			UnitCost:      averageCost,
			CostTaken:     taken.Mul(averageCost),
		})
		remaining = remaining.Sub(taken)
	}

	return &strategy.ConsumptionPlan{
		Method:          strategy.CostMethodAverage,
		Quantity:        quantity,
		TotalCost:       quantity.Mul(averageCost),
		AverageUnitCost: averageCost,
		Draws:           draws,
	}, nil
}

var _ strategy.CostingStrategy = (*AverageStrategy)(nil)
