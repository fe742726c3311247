package repository

import (
	"context"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the singleton settings record
type SettingsRepository interface {
	// Get returns nil, nil before the setup wizard has run.
	Get(ctx context.Context) (*entity.SystemSettings, error)
	Save(ctx context.Context, settings *entity.SystemSettings) error
}
