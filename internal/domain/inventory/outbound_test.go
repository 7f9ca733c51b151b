package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOutboundKind_ReversalSource(t *testing.T) {
	cases := map[OutboundKind]BatchSource{
		OutboundKindUsage:              BatchSourceUsageReversal,
		OutboundKindWipUsage:           BatchSourceWipUsageReversal,
		OutboundKindSale:               BatchSourceSaleReversal,
		OutboundKindProductionMaterial: BatchSourceProductionReversal,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.ReversalSource(), kind)
	}
}

func TestOutboundKind_IsValid(t *testing.T) {
	for _, k := range []OutboundKind{
		OutboundKindUsage, OutboundKindWipUsage, OutboundKindSale, OutboundKindProductionMaterial,
	} {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, OutboundKind("purchase").IsValid())
	assert.False(t, OutboundKind("").IsValid())
}

func TestOutboundReversal_Validate(t *testing.T) {
	valid := OutboundReversal{
		Kind:      OutboundKindSale,
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(5),
		UnitCost:  decimal.NewFromInt(12000),
	}
	assert.NoError(t, valid.Validate())

	r := valid
	r.Kind = OutboundKind("refund")
	assert.Error(t, r.Validate(), "unknown kind")

	r = valid
	r.ProductID = uuid.Nil
	assert.Error(t, r.Validate(), "missing product")

	r = valid
	r.Quantity = decimal.Zero
	assert.Error(t, r.Validate(), "zero quantity")

	r = valid
	r.UnitCost = decimal.NewFromInt(-1)
	assert.Error(t, r.Validate(), "negative cost")
}
