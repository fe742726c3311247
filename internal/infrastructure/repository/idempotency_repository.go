package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	base
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{base{db: db}}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, sessionID string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.conn(ctx).
		Where("key = ? AND session_id = ?", key, sessionID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.conn(ctx).Create(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return r.conn(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&entity.IdempotencyKey{}).Error
}
