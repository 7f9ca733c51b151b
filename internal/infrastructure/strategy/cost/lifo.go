package cost

import (
	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// LIFOStrategy implements Last-In-First-Out consumption: the same mechanics as
// FIFO with the batch ordering reversed, newest batch drained first.
type LIFOStrategy struct {
	strategy.BaseStrategy
}

// NewLIFOStrategy creates a new LIFO costing strategy
func NewLIFOStrategy() *LIFOStrategy {
	return &LIFOStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"lifo",
			"Last-In-First-Out: newest batches by date_in are consumed first",
		),
	}
}

// Method returns the costing method
func (s *LIFOStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodLIFO
}

// Plan computes LIFO batch draws for the requested quantity
func (s *LIFOStrategy) Plan(productID uuid.UUID, quantity decimal.Decimal, batches []strategy.BatchSnapshot) (*strategy.ConsumptionPlan, error) {
	return planOrdered(strategy.CostMethodLIFO, productID, quantity, sortNewestFirst(batches))
}

var _ strategy.CostingStrategy = (*LIFOStrategy)(nil)
