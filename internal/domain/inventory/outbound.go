package inventory

import (
	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OutboundKind is the closed set of outbound transaction kinds that can be
// reversed. Each kind carries enough information to call Restore uniformly,
// so reversal needs no string-typed dispatch.
type OutboundKind string

const (
	OutboundKindUsage              OutboundKind = "usage"
	OutboundKindWipUsage           OutboundKind = "wip_usage"
	OutboundKindSale               OutboundKind = "sale"
	OutboundKindProductionMaterial OutboundKind = "production_material"
)

// String returns the string representation
func (k OutboundKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known outbound kind
func (k OutboundKind) IsValid() bool {
	switch k {
	case OutboundKindUsage, OutboundKindWipUsage, OutboundKindSale, OutboundKindProductionMaterial:
		return true
	}
	return false
}

// ReversalSource returns the batch source tag applied when stock from this
// outbound kind is restored into the ledger.
func (k OutboundKind) ReversalSource() BatchSource {
	switch k {
	case OutboundKindSale:
		return BatchSourceSaleReversal
	case OutboundKindWipUsage:
		return BatchSourceWipUsageReversal
	case OutboundKindProductionMaterial:
		return BatchSourceProductionReversal
	default:
		return BatchSourceUsageReversal
	}
}

// OutboundReversal describes a deleted outbound transaction whose stock must
// be returned to the ledger at the cost it was charged at.
type OutboundReversal struct {
	Kind      OutboundKind
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// Validate checks the reversal fields before it reaches the ledger
func (r OutboundReversal) Validate() error {
	if !r.Kind.IsValid() {
		return shared.NewDomainError("INVALID_OPERATION", "Unknown outbound transaction kind")
	}
	if r.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATION", "Reversal requires a product reference")
	}
	if !r.Quantity.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_OPERATION", "Reversal quantity must be positive")
	}
	if r.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_OPERATION", "Reversal unit cost cannot be negative")
	}
	return nil
}
