package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// restoredBatchLabelFormat names batches created on the restore path.
// Mirrors the label scheme of ordinary inbound batches so restored stock is
// recognizable in the ledger.
const restoredBatchLabelFormat = "RST-20060102-150405"

// MethodProvider supplies the active costing method. The value may be cached
// by the provider; batch quantities themselves are always read fresh under
// lock inside the transaction scope.
type MethodProvider interface {
	ActiveMethod(ctx context.Context) (strategy.CostMethod, error)
}

// CostStrategyProvider resolves a costing method to its strategy
type CostStrategyProvider interface {
	ForMethod(method strategy.CostMethod) (strategy.CostingStrategy, error)
}

// ConsumptionService orchestrates every stock-out and stock-in event against
// the batch ledger: consume for usage/production/sales/opname losses,
// restore for reversals, replenish for receipts. Each call is one atomic
// operation; there is no multi-step protocol and no internal retry. A failed
// consumption surfaces to the caller's transaction, which decides.
type ConsumptionService struct {
	scope      TransactionScope
	methods    MethodProvider
	strategies CostStrategyProvider
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// ConsumptionServiceOption configures the service
type ConsumptionServiceOption func(*ConsumptionService)

// WithEventPublisher sets the publisher for ledger domain events
func WithEventPublisher(publisher shared.EventPublisher) ConsumptionServiceOption {
	return func(s *ConsumptionService) {
		s.publisher = publisher
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ConsumptionServiceOption {
	return func(s *ConsumptionService) {
		s.logger = logger
	}
}

// NewConsumptionService creates a new ConsumptionService
func NewConsumptionService(
	scope TransactionScope,
	methods MethodProvider,
	strategies CostStrategyProvider,
	opts ...ConsumptionServiceOption,
) *ConsumptionService {
	s := &ConsumptionService{
		scope:      scope,
		methods:    methods,
		strategies: strategies,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Consume draws the requested quantity of a product from the batch ledger
// under the active costing method and returns the cost breakdown.
//
// The sufficiency check happens before any mutation: when total available
// stock is short of the request, the call fails with an error matching
// shared.ErrInsufficientStock and every batch is left unchanged. A zero
// quantity returns an empty zero-cost result without touching the ledger.
func (s *ConsumptionService) Consume(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*inventory.ConsumptionResult, error) {
	if quantity.IsNegative() {
		return nil, shared.ErrInvalidOperation
	}

	method, err := s.methods.ActiveMethod(ctx)
	if err != nil {
		return nil, err
	}
	if quantity.IsZero() {
		return inventory.ResultFromPlan(strategy.EmptyPlan(method)), nil
	}

	strat, err := s.strategies.ForMethod(method)
	if err != nil {
		return nil, err
	}

	var result *inventory.ConsumptionResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Batches()

		// Locked snapshot: ordering for the strategy is computed from this
		// consistent view, never re-evaluated mid-operation.
		batches, err := repo.FindWithStockForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		plan, err := strat.Plan(productID, quantity, inventory.SnapshotBatches(batches))
		if err != nil {
			return err
		}

		for _, draw := range plan.Draws {
			if err := repo.Decrement(ctx, draw.BatchID, draw.QuantityTaken); err != nil {
				return err
			}
		}

		result = inventory.ResultFromPlan(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock consumed",
		zap.String("product_id", productID.String()),
		zap.String("method", result.Method.String()),
		zap.String("quantity", quantity.String()),
		zap.String("total_cost", result.TotalCost.String()),
	)
	s.publish(ctx, inventory.NewStockConsumedEvent(productID, result))
	return result, nil
}

// RestoreOutcome reports where restored quantity ended up
type RestoreOutcome struct {
	BatchID      uuid.UUID
	CreatedBatch bool
}

// Restore returns quantity to the ledger at the given unit cost, the
// compensating operation for deleting an outbound transaction.
//
// Policy: the oldest existing batch for the product at exactly that unit cost
// with remaining stock absorbs the quantity; when none exists, a fresh batch
// dated now is created under the given source tag. This is an approximation,
// not a perfect undo: it does not reconstruct which batches the quantity
// originally came from, so the ledger's batch composition may differ from the
// pre-consumption state even though totals and cost bases reconcile.
func (s *ConsumptionService) Restore(ctx context.Context, productID uuid.UUID, quantity, unitCost decimal.Decimal, source inventory.BatchSource) (*RestoreOutcome, error) {
	if !quantity.GreaterThan(decimal.Zero) || unitCost.IsNegative() {
		return nil, shared.ErrInvalidOperation
	}

	var outcome *RestoreOutcome
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Batches()

		existing, err := repo.FindOldestWithStockAtCost(ctx, productID, unitCost)
		switch {
		case err == nil:
			if err := repo.AddQuantity(ctx, existing.ID, quantity); err != nil {
				return err
			}
			outcome = &RestoreOutcome{BatchID: existing.ID}
			return nil
		case errors.Is(err, shared.ErrNotFound):
			batch, err := inventory.NewInventoryBatch(
				productID,
				time.Now().Format(restoredBatchLabelFormat),
				source,
				time.Now(),
				quantity,
				unitCost,
			)
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, batch); err != nil {
				return err
			}
			outcome = &RestoreOutcome{BatchID: batch.ID, CreatedBatch: true}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock restored",
		zap.String("product_id", productID.String()),
		zap.String("quantity", quantity.String()),
		zap.String("unit_cost", unitCost.String()),
		zap.Bool("created_batch", outcome.CreatedBatch),
	)
	s.publish(ctx, inventory.NewStockRestoredEvent(productID, outcome.BatchID, quantity, unitCost, source, outcome.CreatedBatch))
	return outcome, nil
}

// ReverseOutbound restores the stock of a deleted outbound transaction,
// dispatching on the closed kind set instead of a type string.
func (s *ConsumptionService) ReverseOutbound(ctx context.Context, reversal inventory.OutboundReversal) (*RestoreOutcome, error) {
	if err := reversal.Validate(); err != nil {
		return nil, err
	}
	return s.Restore(ctx, reversal.ProductID, reversal.Quantity, reversal.UnitCost, reversal.Kind.ReversalSource())
}

// ReplenishInput carries the fields of a new inbound batch
type ReplenishInput struct {
	ProductID  uuid.UUID
	BatchLabel string
	Source     inventory.BatchSource
	DateIn     time.Time
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// Replenish creates a fresh batch for stock entering the system: purchase
// receipt, opening balance, production yield, or positive opname surplus.
// No consumption side effects.
func (s *ConsumptionService) Replenish(ctx context.Context, input ReplenishInput) (*inventory.InventoryBatch, error) {
	dateIn := input.DateIn
	if dateIn.IsZero() {
		dateIn = time.Now()
	}

	batch, err := inventory.NewInventoryBatch(
		input.ProductID,
		input.BatchLabel,
		input.Source,
		dateIn,
		input.Quantity,
		input.UnitCost,
	)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Batches().Create(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock replenished",
		zap.String("product_id", input.ProductID.String()),
		zap.String("batch_label", batch.BatchLabel),
		zap.String("source", batch.Source.String()),
		zap.String("quantity", batch.QtyInitial.String()),
	)
	s.publish(ctx, inventory.NewStockReplenishedEvent(batch))
	return batch, nil
}

// DeleteUntouchedBatch deletes an inbound batch as part of reversing its
// originating transaction. Allowed only while nothing has been consumed from
// it; otherwise the outbound transactions must be deleted first.
func (s *ConsumptionService) DeleteUntouchedBatch(ctx context.Context, batchID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Batches().DeleteUntouched(ctx, batchID)
	})
}

// publish sends ledger events best-effort; event delivery never affects the
// transactional outcome.
func (s *ConsumptionService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish ledger events", zap.Error(err))
	}
}
