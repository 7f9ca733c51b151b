package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/saebakery/backend/internal/infrastructure/strategy/cost"
)

type serviceFixture struct {
	service   *ConsumptionService
	repo      *fakeBatchRepository
	publisher *recordingPublisher
	productID uuid.UUID
}

func newServiceFixture(t *testing.T, method strategy.CostMethod) *serviceFixture {
	t.Helper()
	repo := newFakeBatchRepository()
	publisher := &recordingPublisher{}
	service := NewConsumptionService(
		newSerialScope(repo),
		fixedMethodProvider{method: method},
		cost.NewProvider(),
		WithEventPublisher(publisher),
	)
	return &serviceFixture{
		service:   service,
		repo:      repo,
		publisher: publisher,
		productID: uuid.New(),
	}
}

func (f *serviceFixture) seedBatch(t *testing.T, label string, dateIn time.Time, qty, unitCost int64) *inventory.InventoryBatch {
	t.Helper()
	batch, err := inventory.NewInventoryBatch(
		f.productID, label, inventory.BatchSourcePurchase, dateIn,
		decimal.NewFromInt(qty), decimal.NewFromInt(unitCost),
	)
	require.NoError(t, err)
	f.repo.add(batch)
	return batch
}

func (f *serviceFixture) totalRemaining(t *testing.T) decimal.Decimal {
	t.Helper()
	total, err := f.repo.SumRemaining(context.Background(), f.productID)
	require.NoError(t, err)
	return total
}

func TestConsumptionService_ConsumeFIFO(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b1 := f.seedBatch(t, "B1", jan1, 100, 10000)
	b2 := f.seedBatch(t, "B2", jan1.AddDate(0, 0, 14), 50, 12000)

	result, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(120))
	require.NoError(t, err)

	assert.Equal(t, strategy.CostMethodFIFO, result.Method)
	assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(100*10000+20*12000)))
	require.Len(t, result.Draws, 2)

	// Conservation: quantity out equals the sum of the draws, and the ledger
	// shrank by exactly that amount.
	drawn := decimal.Zero
	for _, d := range result.Draws {
		drawn = drawn.Add(d.QuantityTaken)
	}
	assert.True(t, drawn.Equal(decimal.NewFromInt(120)))
	assert.True(t, f.totalRemaining(t).Equal(decimal.NewFromInt(30)))
	assert.True(t, f.repo.get(b1.ID).QtyRemaining.IsZero())
	assert.True(t, f.repo.get(b2.ID).QtyRemaining.Equal(decimal.NewFromInt(30)))

	events := f.publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, inventory.EventTypeStockConsumed, events[0].EventType())
}

func TestConsumptionService_ConsumeInsufficientStockLeavesLedgerUntouched(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b1 := f.seedBatch(t, "B1", jan1, 100, 10000)
	b2 := f.seedBatch(t, "B2", jan1.AddDate(0, 0, 14), 50, 12000)

	result, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(151))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	var stockErr *shared.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(150)))

	assert.True(t, f.repo.get(b1.ID).QtyRemaining.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.repo.get(b2.ID).QtyRemaining.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, f.publisher.recorded(), "failed consumption must not publish")
}

func TestConsumptionService_ConsumeZeroQuantity(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodAverage)
	f.seedBatch(t, "B1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100, 10000)

	result, err := f.service.Consume(context.Background(), f.productID, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.TotalCost.IsZero())
	assert.Empty(t, result.Draws)
	assert.Equal(t, strategy.CostMethodAverage, result.Method)
	assert.True(t, f.totalRemaining(t).Equal(decimal.NewFromInt(100)))
}

func TestConsumptionService_ConsumeNegativeQuantity(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)

	_, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)
}

func TestConsumptionService_ConsumeAverageChargesUniformCost(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodAverage)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedBatch(t, "B1", jan1, 100, 10000)
	f.seedBatch(t, "B2", jan1.AddDate(0, 0, 14), 100, 12000)

	result, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(150))
	require.NoError(t, err)

	wantAvg := decimal.NewFromInt(11000)
	assert.True(t, result.AverageCostPerUnit.Equal(wantAvg))
	assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(1650000)))
	for _, d := range result.Draws {
		assert.True(t, d.UnitCost.Equal(wantAvg))
	}
}

func TestConsumptionService_ConcurrentConsumers(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	f.seedBatch(t, "B1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100, 10000)

	// Two consumers race for 60 of 100 units. The serializing scope stands in
	// for row locks: exactly one wins, the other sees the post-commit balance.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(60))
		}(i)
	}
	wg.Wait()

	var succeeded, short int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, shared.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, short)
	assert.True(t, f.totalRemaining(t).Equal(decimal.NewFromInt(40)))
}

func TestConsumptionService_RestoreTopsUpMatchingBatch(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b1 := f.seedBatch(t, "B1", jan1, 100, 10000)
	f.seedBatch(t, "B2", jan1.AddDate(0, 0, 14), 100, 12000)

	_, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(30))
	require.NoError(t, err)

	outcome, err := f.service.Restore(
		context.Background(), f.productID,
		decimal.NewFromInt(30), decimal.NewFromInt(10000),
		inventory.BatchSourceUsageReversal,
	)
	require.NoError(t, err)
	assert.False(t, outcome.CreatedBatch)
	assert.Equal(t, b1.ID, outcome.BatchID)
	assert.True(t, f.repo.get(b1.ID).QtyRemaining.Equal(decimal.NewFromInt(100)))
}

func TestConsumptionService_RestoreCreatesBatchWhenNoCostMatch(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	f.seedBatch(t, "B1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100, 10000)

	outcome, err := f.service.Restore(
		context.Background(), f.productID,
		decimal.NewFromInt(25), decimal.NewFromInt(13500),
		inventory.BatchSourceSaleReversal,
	)
	require.NoError(t, err)
	assert.True(t, outcome.CreatedBatch)

	created := f.repo.get(outcome.BatchID)
	require.NotNil(t, created)
	assert.Equal(t, inventory.BatchSourceSaleReversal, created.Source)
	assert.True(t, created.QtyRemaining.Equal(decimal.NewFromInt(25)))
	assert.True(t, created.UnitCost.Equal(decimal.NewFromInt(13500)))
	assert.Contains(t, created.BatchLabel, "RST-")
	assert.True(t, f.totalRemaining(t).Equal(decimal.NewFromInt(125)))
}

func TestConsumptionService_RestoreRejectsBadInput(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)

	_, err := f.service.Restore(context.Background(), f.productID,
		decimal.Zero, decimal.NewFromInt(100), inventory.BatchSourceUsageReversal)
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)

	_, err = f.service.Restore(context.Background(), f.productID,
		decimal.NewFromInt(1), decimal.NewFromInt(-100), inventory.BatchSourceUsageReversal)
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)
}

func TestConsumptionService_ReverseOutbound(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)

	outcome, err := f.service.ReverseOutbound(context.Background(), inventory.OutboundReversal{
		Kind:      inventory.OutboundKindProductionMaterial,
		ProductID: f.productID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.NewFromInt(8000),
	})
	require.NoError(t, err)
	assert.True(t, outcome.CreatedBatch)
	assert.Equal(t, inventory.BatchSourceProductionReversal, f.repo.get(outcome.BatchID).Source)

	_, err = f.service.ReverseOutbound(context.Background(), inventory.OutboundReversal{
		Kind:      inventory.OutboundKind("gift"),
		ProductID: f.productID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.NewFromInt(8000),
	})
	assert.Error(t, err)
}

func TestConsumptionService_Replenish(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)

	batch, err := f.service.Replenish(context.Background(), ReplenishInput{
		ProductID:  f.productID,
		BatchLabel: "PO-042",
		Source:     inventory.BatchSourcePurchase,
		DateIn:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Quantity:   decimal.NewFromInt(200),
		UnitCost:   decimal.NewFromInt(9800),
	})
	require.NoError(t, err)
	assert.True(t, batch.QtyRemaining.Equal(decimal.NewFromInt(200)))
	assert.NotNil(t, f.repo.get(batch.ID))

	events := f.publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, inventory.EventTypeStockReplenished, events[0].EventType())

	_, err = f.service.Replenish(context.Background(), ReplenishInput{
		ProductID: f.productID,
		Source:    inventory.BatchSource("found"),
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  decimal.NewFromInt(1),
	})
	assert.Error(t, err, "unknown source rejected before any write")
}

func TestConsumptionService_ReplenishDefaultsDateIn(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)

	batch, err := f.service.Replenish(context.Background(), ReplenishInput{
		ProductID:  f.productID,
		BatchLabel: "ADJ-001",
		Source:     inventory.BatchSourceAdjustment,
		Quantity:   decimal.NewFromInt(5),
		UnitCost:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.False(t, batch.DateIn.IsZero())
}

func TestConsumptionService_DeleteUntouchedBatch(t *testing.T) {
	f := newServiceFixture(t, strategy.CostMethodFIFO)
	batch := f.seedBatch(t, "B1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 50, 10000)

	require.NoError(t, f.service.DeleteUntouchedBatch(context.Background(), batch.ID))
	assert.Nil(t, f.repo.get(batch.ID))

	touched := f.seedBatch(t, "B2", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), 50, 10000)
	_, err := f.service.Consume(context.Background(), f.productID, decimal.NewFromInt(1))
	require.NoError(t, err)

	err = f.service.DeleteUntouchedBatch(context.Background(), touched.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)
	assert.NotNil(t, f.repo.get(touched.ID))
}
