package cost

import (
	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// FIFOStrategy implements First-In-First-Out consumption: the oldest surviving
// batch is always drained fully before the next one is touched.
type FIFOStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOStrategy creates a new FIFO costing strategy
func NewFIFOStrategy() *FIFOStrategy {
	return &FIFOStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo",
			"First-In-First-Out: oldest batches by date_in are consumed first",
		),
	}
}

// Method returns the costing method
func (s *FIFOStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodFIFO
}

// Plan computes FIFO batch draws for the requested quantity
func (s *FIFOStrategy) Plan(productID uuid.UUID, quantity decimal.Decimal, batches []strategy.BatchSnapshot) (*strategy.ConsumptionPlan, error) {
	return planOrdered(strategy.CostMethodFIFO, productID, quantity, sortOldestFirst(batches))
}

var _ strategy.CostingStrategy = (*FIFOStrategy)(nil)
