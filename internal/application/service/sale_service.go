package service

import (
	"context"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// SaleService reads committed sales. Sales are only written by checkout.
type SaleService struct {
	saleRepo repository.SaleRepository
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo}
}

// ListSales returns sales newest first using keyset pagination.
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	params.Cursor.Validate()
	if _, err := params.Cursor.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid cursor")
	}

	sales, err := s.saleRepo.ListRecent(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewCursorPaginatedResult(sales, params.Cursor.Limit, func(sale entity.Sale) (string, time.Time) {
		return sale.ID, sale.CreatedAt
	}), nil
}

// GetSale returns one sale with its items.
func (s *SaleService) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}
