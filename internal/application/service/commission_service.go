package service

import (
	"context"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
)

// CommissionService exposes the commissions generated at settlement
type CommissionService struct {
	commissionRepo repository.CommissionRepository
}

// NewCommissionService creates a new commission service
func NewCommissionService(commissionRepo repository.CommissionRepository) *CommissionService {
	return &CommissionService{commissionRepo: commissionRepo}
}

// ListCommissions lists commissions newest first, optionally filtered by
// employee, order or period.
func (s *CommissionService) ListCommissions(ctx context.Context, params *repository.CommissionFilterParams) ([]entity.Commission, error) {
	commissions, err := s.commissionRepo.Filter(ctx, params)
	if err != nil {
		return nil, err
	}
	if commissions == nil {
		commissions = []entity.Commission{}
	}
	return commissions, nil
}

// Summary totals commissions per employee over [from, to).
func (s *CommissionService) Summary(ctx context.Context, from, to *time.Time) ([]entity.CommissionSummary, error) {
	summary, err := s.commissionRepo.SummaryByEmployee(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []entity.CommissionSummary{}
	}
	return summary, nil
}
