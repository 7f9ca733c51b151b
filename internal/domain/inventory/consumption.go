package inventory

import (
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// ConsumptionResult is the cost breakdown returned for a stock-out event.
// It is ephemeral: callers persist AverageCostPerUnit (the HPP charged at the
// time) onto their own transaction records, which form the audit trail.
type ConsumptionResult struct {
	Method             strategy.CostMethod  `json:"method"`
	Quantity           decimal.Decimal      `json:"quantity"`
	TotalCost          decimal.Decimal      `json:"total_cost"`
	AverageCostPerUnit decimal.Decimal      `json:"average_cost_per_unit"`
	Draws              []strategy.BatchDraw `json:"draws"`
}

// ResultFromPlan builds the consumption result from an executed plan
func ResultFromPlan(plan *strategy.ConsumptionPlan) *ConsumptionResult {
	return &ConsumptionResult{
		Method:             plan.Method,
		Quantity:           plan.Quantity,
		TotalCost:          plan.TotalCost,
		AverageCostPerUnit: plan.AverageUnitCost,
		Draws:              plan.Draws,
	}
}

// InventoryValue is the valuation of all remaining stock for one product
type InventoryValue struct {
	Quantity    decimal.Decimal `json:"quantity"`
	TotalValue  decimal.Decimal `json:"total_value"`
	AverageCost decimal.Decimal `json:"average_cost"`
}
