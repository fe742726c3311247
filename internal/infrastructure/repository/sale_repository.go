package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	base
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{base{db: db}}
}

func (r *saleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.conn(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ReplaceAll(ctx context.Context, sales []entity.Sale) error {
	return replaceAll(ctx, r.conn(ctx), sales, &entity.SaleItem{})
}

// Create inserts the sale together with its items.
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.conn(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.conn(ctx).Preload("Items").First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&entity.Sale{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *saleRepository) ListRecent(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale
	query := r.conn(ctx).Model(&entity.Sale{}).Preload("Items")

	limit := 20
	if params != nil {
		query = query.Scopes(Between("created_at", params.From, params.To))
		if params.Cursor != nil {
			params.Cursor.Validate()
			limit = params.Cursor.Limit
			cursor, err := params.Cursor.DecodeCursor()
			if err != nil {
				return nil, err
			}
			if cursor != nil {
				at := cursor.CreatedAt.UTC()
				query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", at, at, cursor.ID)
			}
		}
	}

	// One extra row tells the caller whether another page exists.
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.conn(ctx).
		Preload("Items").
		Scopes(Between("created_at", &start, &end)).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}
