package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// ExpenseService handles the outgoing cash ledger
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	now         func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, now: time.Now}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	Description string
	Amount      float64
	Category    string
	Date        *time.Time
}

// CreateExpense records an expense. Category defaults to "Geral" and date
// to now.
func (s *ExpenseService) CreateExpense(ctx context.Context, input *CreateExpenseInput) (*entity.Expense, error) {
	var errs []apperror.FieldError
	description := strings.TrimSpace(input.Description)
	if description == "" {
		errs = append(errs, apperror.FieldError{Field: "description", Message: "Descrição é obrigatória"})
	}
	amount := money.FromFloat(input.Amount)
	if amount <= 0 {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: "Valor deve ser maior que zero"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = entity.ExpenseCategoryDefault
	}
	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	expense := &entity.Expense{
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date.UTC(),
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Withdraw records a sangria: cash taken out of the drawer.
func (s *ExpenseService) Withdraw(ctx context.Context, amount float64, reason string) (*entity.Expense, error) {
	description := strings.TrimSpace(reason)
	if description == "" {
		description = "Sangria de caixa"
	}
	return s.CreateExpense(ctx, &CreateExpenseInput{
		Description: description,
		Amount:      amount,
		Category:    entity.ExpenseCategorySangria,
	})
}

// ListExpenses lists expenses newest date first
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	expenses, total, err := s.expenseRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(expenses, pag), nil
}

// DeleteExpense deletes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperror.NewNotFoundError("Expense")
	}
	return s.expenseRepo.Delete(ctx, id)
}
