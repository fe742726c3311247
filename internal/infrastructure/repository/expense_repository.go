package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type expenseRepository struct {
	base
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{base{db: db}}
}

func (r *expenseRepository) List(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	err := r.conn(ctx).Order("date DESC, created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) ReplaceAll(ctx context.Context, expenses []entity.Expense) error {
	return replaceAll(ctx, r.conn(ctx), expenses)
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.conn(ctx).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.conn(ctx).First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&entity.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) Search(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := r.conn(ctx).Model(&entity.Expense{})
	if params != nil {
		if params.Category != "" {
			query = query.Where("category = ?", params.Category)
		}
		query = query.Scopes(Between("date", params.From, params.To))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if params != nil {
		query = query.Scopes(Paginate(params.Pagination))
	}
	err := query.Order("date DESC, created_at DESC").Find(&expenses).Error
	return expenses, total, err
}
