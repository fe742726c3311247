package repository

import (
	"context"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations.
// Sales are append-only.
type SaleRepository interface {
	Collection[entity.Sale]
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	Exists(ctx context.Context, id string) (bool, error)
	// ListRecent returns sales newest first, keyset-paginated.
	ListRecent(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]entity.Sale, error)
}

type SaleFilterParams struct {
	Cursor *pagination.CursorParams
	From   *time.Time
	To     *time.Time
}
