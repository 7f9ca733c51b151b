package settings

import (
	"context"

	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
)

// Setting keys
const (
	// KeyInventoryMethod holds the active costing method, one of FIFO/LIFO/AVERAGE.
	// The value is read on every consumption; changes affect only future
	// consumptions and never recost existing batches.
	KeyInventoryMethod = "inventory_method"
)

// Setting is a single process-wide configuration value
type Setting struct {
	shared.BaseEntity
	Key         string `gorm:"uniqueIndex;size:120"`
	Value       string
	Description string
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NewSetting creates a new setting
func NewSetting(key, value, description string) *Setting {
	return &Setting{
		BaseEntity:  shared.NewBaseEntity(),
		Key:         key,
		Value:       value,
		Description: description,
	}
}

// CostMethod interprets the setting as a costing method, defaulting to FIFO
func (s *Setting) CostMethod() strategy.CostMethod {
	return strategy.ParseCostMethod(s.Value)
}

// Repository defines persistence for settings
type Repository interface {
	// Get returns the setting for the key, or shared.ErrNotFound
	Get(ctx context.Context, key string) (*Setting, error)
	// Set creates or updates the setting for the key
	Set(ctx context.Context, key, value, description string) error
}

// Event types for settings
const (
	EventTypeCostingMethodChanged = "settings.costing_method_changed"
)

// CostingMethodChangedEvent is published when the active costing method changes
type CostingMethodChangedEvent struct {
	shared.BaseDomainEvent
	Previous strategy.CostMethod `json:"previous"`
	Current  strategy.CostMethod `json:"current"`
}

// NewCostingMethodChangedEvent creates a CostingMethodChangedEvent
func NewCostingMethodChangedEvent(setting *Setting, previous, current strategy.CostMethod) *CostingMethodChangedEvent {
	return &CostingMethodChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCostingMethodChanged, "Setting", setting.ID),
		Previous:        previous,
		Current:         current,
	}
}
