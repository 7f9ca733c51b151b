package strategy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostMethod represents the inventory costing method
type CostMethod string

const (
	CostMethodFIFO    CostMethod = "FIFO"
	CostMethodLIFO    CostMethod = "LIFO"
	CostMethodAverage CostMethod = "AVERAGE"
)

// String returns the string representation of the cost method
func (m CostMethod) String() string {
	return string(m)
}

// IsValid returns true if the cost method is one of the supported methods
func (m CostMethod) IsValid() bool {
	switch m {
	case CostMethodFIFO, CostMethodLIFO, CostMethodAverage:
		return true
	default:
		return false
	}
}

// AllCostMethods returns every supported cost method
func AllCostMethods() []CostMethod {
	return []CostMethod{CostMethodFIFO, CostMethodLIFO, CostMethodAverage}
}

// ParseCostMethod parses a stored setting value into a CostMethod.
// Unknown or empty values fall back to FIFO, the system default.
func ParseCostMethod(s string) CostMethod {
	m := CostMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return CostMethodFIFO
	}
	return m
}

// BatchSnapshot is an immutable view of one inventory batch, taken under lock
// at the start of a consumption. Strategies plan over snapshots and never
// touch the underlying rows.
type BatchSnapshot struct {
	BatchID      uuid.UUID
	BatchLabel   string
	DateIn       time.Time
	CreatedAt    time.Time
	QtyRemaining decimal.Decimal
	UnitCost     decimal.Decimal
}

// Value returns the remaining value held in the batch
func (b BatchSnapshot) Value() decimal.Decimal {
	return b.QtyRemaining.Mul(b.UnitCost)
}

// BatchDraw records how much a plan takes from a single batch and at what cost
type BatchDraw struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	BatchLabel    string          `json:"batch_label"`
	QuantityTaken decimal.Decimal `json:"quantity_taken"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	CostTaken     decimal.Decimal `json:"cost_taken"`
}

// ConsumptionPlan is the outcome of a costing strategy: the ordered batch
// draws that satisfy a requested quantity, and the cost they carry. The plan
// always covers the full request; strategies fail instead of planning a
// partial consumption.
type ConsumptionPlan struct {
	Method          CostMethod
	Quantity        decimal.Decimal
	TotalCost       decimal.Decimal
	AverageUnitCost decimal.Decimal
	Draws           []BatchDraw
}

// EmptyPlan returns a zero-cost plan with no draws, used for zero-quantity requests
func EmptyPlan(method CostMethod) *ConsumptionPlan {
	return &ConsumptionPlan{
		Method:          method,
		Quantity:        decimal.Zero,
		TotalCost:       decimal.Zero,
		AverageUnitCost: decimal.Zero,
		Draws:           []BatchDraw{},
	}
}

// TotalAvailable sums remaining quantity across the given snapshots
func TotalAvailable(batches []BatchSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.QtyRemaining)
	}
	return total
}

// CostingStrategy decides which batches a consumption draws from, in what
// order, and at what unit cost. Implementations are pure: planning mutates
// nothing, so a failed plan leaves no trace.
type CostingStrategy interface {
	Strategy
	// Method returns the costing method implemented by this strategy
	Method() CostMethod
	// Plan computes the batch draws satisfying the requested quantity.
	// It returns an InsufficientStockError when the snapshots cannot cover
	// the request, without planning a partial consumption.
	Plan(productID uuid.UUID, quantity decimal.Decimal, batches []BatchSnapshot) (*ConsumptionPlan, error)
}
