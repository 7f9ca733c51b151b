package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/domain/settings"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
)

// memoryBatchRepository is an in-memory BatchRepository for handler tests
type memoryBatchRepository struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*inventory.InventoryBatch
}

func newMemoryBatchRepository() *memoryBatchRepository {
	return &memoryBatchRepository{batches: make(map[uuid.UUID]*inventory.InventoryBatch)}
}

func (r *memoryBatchRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.batches[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryBatchRepository) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, false), nil
}

func (r *memoryBatchRepository) FindWithStock(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, true), nil
}

func (r *memoryBatchRepository) FindWithStockForUpdate(_ context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.collect(productID, true), nil
}

func (r *memoryBatchRepository) FindOldestWithStockAtCost(_ context.Context, productID uuid.UUID, unitCost decimal.Decimal) (*inventory.InventoryBatch, error) {
	batches := r.collect(productID, true)
	for i := range batches {
		if batches[i].UnitCost.Equal(unitCost) {
			return &batches[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryBatchRepository) SumRemaining(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.collect(productID, false) {
		total = total.Add(b.QtyRemaining)
	}
	return total, nil
}

func (r *memoryBatchRepository) Decrement(_ context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
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

func (r *memoryBatchRepository) AddQuantity(_ context.Context, batchID uuid.UUID, amount decimal.Decimal) error {
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

func (r *memoryBatchRepository) Create(_ context.Context, batch *inventory.InventoryBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *batch
	r.batches[batch.ID] = &copy
	return nil
}

func (r *memoryBatchRepository) Save(_ context.Context, batch *inventory.InventoryBatch) error {
	return r.Create(context.Background(), batch)
}

func (r *memoryBatchRepository) DeleteUntouched(_ context.Context, id uuid.UUID) error {
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

func (r *memoryBatchRepository) collect(productID uuid.UUID, withStockOnly bool) []inventory.InventoryBatch {
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

var _ inventory.BatchRepository = (*memoryBatchRepository)(nil)

// memorySettingRepository is an in-memory settings.Repository
type memorySettingRepository struct {
	mu       sync.Mutex
	settings map[string]*settings.Setting
}

func newMemorySettingRepository() *memorySettingRepository {
	return &memorySettingRepository{settings: make(map[string]*settings.Setting)}
}

func (r *memorySettingRepository) Get(_ context.Context, key string) (*settings.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settings[key]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memorySettingRepository) Set(_ context.Context, key, value, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[key] = settings.NewSetting(key, value, description)
	return nil
}

var _ settings.Repository = (*memorySettingRepository)(nil)

// fixedMethodProvider always returns the same costing method
type fixedMethodProvider struct {
	method strategy.CostMethod
}

func (p fixedMethodProvider) ActiveMethod(context.Context) (strategy.CostMethod, error) {
	return p.method, nil
}
