package persistence

import (
	"context"
	"errors"

	"github.com/saebakery/backend/internal/domain/settings"
	"github.com/saebakery/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns the setting for the key, or shared.ErrNotFound
func (r *GormSettingRepository) Get(ctx context.Context, key string) (*settings.Setting, error) {
	var setting settings.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// Set creates or updates the setting for the key
func (r *GormSettingRepository) Set(ctx context.Context, key, value, description string) error {
	setting := settings.NewSetting(key, value, description)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
		}).
		Create(setting).Error
}

// Ensure GormSettingRepository implements settings.Repository
var _ settings.Repository = (*GormSettingRepository)(nil)
