package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// ExpenseRepository defines the interface for expense data operations
type ExpenseRepository interface {
	Collection[entity.Expense]
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params *ExpenseFilterParams) ([]entity.Expense, int64, error)
}

type ExpenseFilterParams struct {
	Pagination *pagination.PaginationParams
	Category   string
	From       *time.Time
	To         *time.Time
}
