package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
)

// fakeBatchRepository is an in-memory BatchRepository for service tests
type fakeBatchRepository struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*inventory.InventoryBatch
}

func newFakeBatchRepository() *fakeBatchRepository {
	return &fakeBatchRepository{batches: make(map[uuid.UUID]*inventory.InventoryBatch)}
}

func (r *fakeBatchRepository) add(b *inventory.InventoryBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.batches[b.ID] = &clone
}

func (r *fakeBatchRepository) get(id uuid.UUID) *inventory.InventoryBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.batches[id]; ok {
		clone := *b
		return &clone
	}
	return nil
}

func (r *fakeBatchRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	if b := r.get(id); b != nil {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepository) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, false), nil
}

func (r *fakeBatchRepository) FindWithStock(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, true), nil
}

func (r *fakeBatchRepository) FindWithStockForUpdate(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, true), nil
}

func (r *fakeBatchRepository) FindOldestWithStockAtCost(_ context.Context, productID uuid.UUID, unitCost decimal.Decimal) (*inventory.InventoryBatch, error) {
	for _, b := range r.collect(productID, true) {
		if b.UnitCost.Equal(unitCost) {
			batch := b
			return &batch, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepository) SumRemaining(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.collect(productID, false) {
		total = total.Add(b.QtyRemaining)
	}
	return total, nil
}

func (r *fakeBatchRepository) Decrement(_ context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	if b.QtyRemaining.LessThan(amount) {
		return shared.ErrInvalidOperation
	}
	b.QtyRemaining = b.QtyRemaining.Sub(amount)
	return nil
}

func (r *fakeBatchRepository) AddQuantity(_ context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	b.QtyRemaining = b.QtyRemaining.Add(amount)
	if b.QtyRemaining.GreaterThan(b.QtyInitial) {
		b.QtyInitial = b.QtyRemaining
	}
	return nil
}

func (r *fakeBatchRepository) Create(_ context.Context, batch *inventory.InventoryBatch) error {
	r.add(batch)
	return nil
}

func (r *fakeBatchRepository) Save(_ context.Context, batch *inventory.InventoryBatch) error {
	r.add(batch)
	return nil
}

func (r *fakeBatchRepository) DeleteUntouched(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return shared.ErrNotFound
	}
	if !b.QtyRemaining.Equal(b.QtyInitial) {
		return shared.ErrInvalidOperation
	}
	delete(r.batches, id)
	return nil
}

func (r *fakeBatchRepository) collect(productID uuid.UUID, withStockOnly bool) []inventory.InventoryBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryBatch, 0)
	for _, b := range r.batches {
		if b.ProductID != productID {
			continue
		}
		if withStockOnly && !b.QtyRemaining.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateIn.Equal(out[j].DateIn) {
			return out[i].DateIn.Before(out[j].DateIn)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

var _ inventory.BatchRepository = (*fakeBatchRepository)(nil)

// serialScope mimics the queueing behavior of row locks: concurrent Execute
// calls run one at a time, so the second consumer observes the first one's
// committed decrements.
type serialScope struct {
	mu        sync.Mutex
	batchRepo inventory.BatchRepository
}

func newSerialScope(batchRepo inventory.BatchRepository) *serialScope {
	return &serialScope{batchRepo: batchRepo}
}

func (s *serialScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *serialScope) Batches() inventory.BatchRepository {
	return s.batchRepo
}

// fixedMethodProvider always returns the same costing method
type fixedMethodProvider struct {
	method strategy.CostMethod
}

func (p fixedMethodProvider) ActiveMethod(context.Context) (strategy.CostMethod, error) {
	return p.method, nil
}

// recordingPublisher captures published domain events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) recorded() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}
