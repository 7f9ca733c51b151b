package settings

import (
	"context"
	"errors"

	"github.com/saebakery/backend/internal/domain/settings"
	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"go.uber.org/zap"
)

// MethodCache caches the active costing method with explicit invalidation.
// Cache failures are never fatal: the persisted setting is the source of truth.
type MethodCache interface {
	// GetMethod returns the cached method and whether a value was present
	GetMethod(ctx context.Context) (strategy.CostMethod, bool, error)
	// SetMethod stores the method in the cache
	SetMethod(ctx context.Context, method strategy.CostMethod) error
	// Invalidate drops the cached method
	Invalidate(ctx context.Context) error
}

// Service owns the process-wide costing method switch. Reads go through the
// cache; a method change persists first, then invalidates, so the next
// consumption sees the new method. Past consumption results keep whatever
// cost they were charged at; a switch is never retroactive.
type Service struct {
	repo      settings.Repository
	cache     MethodCache
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// ServiceOption configures the settings service
type ServiceOption func(*Service)

// WithCache sets the method cache
func WithCache(cache MethodCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithEventPublisher sets the publisher for settings events
func WithEventPublisher(publisher shared.EventPublisher) ServiceOption {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new settings Service
func NewService(repo settings.Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveMethod returns the active costing method, FIFO when unset
func (s *Service) ActiveMethod(ctx context.Context) (strategy.CostMethod, error) {
	if s.cache != nil {
		method, ok, err := s.cache.GetMethod(ctx)
		if err != nil {
			s.logger.Warn("method cache read failed", zap.Error(err))
		} else if ok {
			return method, nil
		}
	}

	setting, err := s.repo.Get(ctx, settings.KeyInventoryMethod)
	switch {
	case err == nil:
		// keep reading below
	case errors.Is(err, shared.ErrNotFound):
		return strategy.CostMethodFIFO, nil
	default:
		return "", err
	}

	method := setting.CostMethod()
	if s.cache != nil {
		if err := s.cache.SetMethod(ctx, method); err != nil {
			s.logger.Warn("method cache write failed", zap.Error(err))
		}
	}
	return method, nil
}

// SetActiveMethod persists the costing method and invalidates the cache.
// Takes effect on the next consumption; historical batches and past
// consumption results are never reprocessed.
func (s *Service) SetActiveMethod(ctx context.Context, method strategy.CostMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_OPERATION", "Costing method must be FIFO, LIFO, or AVERAGE")
	}

	previous, err := s.ActiveMethod(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.Set(ctx, settings.KeyInventoryMethod, method.String(), "Active inventory costing method"); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("method cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("costing method changed",
		zap.String("previous", previous.String()),
		zap.String("current", method.String()),
	)
	if s.publisher != nil && previous != method {
		setting := settings.NewSetting(settings.KeyInventoryMethod, method.String(), "")
		if err := s.publisher.Publish(ctx, settings.NewCostingMethodChangedEvent(setting, previous, method)); err != nil {
			s.logger.Warn("failed to publish settings event", zap.Error(err))
		}
	}
	return nil
}
