package repository

import (
	"context"
	"errors"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	base
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{base{db: db}}
}

// Get retrieves the singleton settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.SystemSettings, error) {
	var settings entity.SystemSettings
	err := r.conn(ctx).First(&settings, "id = ?", entity.SettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the singleton settings row
func (r *settingsRepository) Save(ctx context.Context, settings *entity.SystemSettings) error {
	settings.ID = entity.SettingsID
	return r.conn(ctx).Save(settings).Error
}
