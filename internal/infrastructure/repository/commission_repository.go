package repository

import (
	"context"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type commissionRepository struct {
	base
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *gorm.DB) domainRepo.CommissionRepository {
	return &commissionRepository{base{db: db}}
}

func (r *commissionRepository) List(ctx context.Context) ([]entity.Commission, error) {
	var commissions []entity.Commission
	err := r.conn(ctx).Order("created_at DESC").Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepository) ReplaceAll(ctx context.Context, commissions []entity.Commission) error {
	return replaceAll(ctx, r.conn(ctx), commissions)
}

func (r *commissionRepository) CreateBatch(ctx context.Context, batch []entity.Commission) error {
	if len(batch) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&batch).Error
}

func (r *commissionRepository) ListByOrder(ctx context.Context, orderID int64) ([]entity.Commission, error) {
	var commissions []entity.Commission
	err := r.conn(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepository) Filter(ctx context.Context, params *domainRepo.CommissionFilterParams) ([]entity.Commission, error) {
	var commissions []entity.Commission
	query := r.conn(ctx).Model(&entity.Commission{})
	if params != nil {
		if params.EmployeeID != nil {
			query = query.Where("employee_id = ?", *params.EmployeeID)
		}
		if params.OrderID != nil {
			query = query.Where("order_id = ?", *params.OrderID)
		}
		query = query.Scopes(Between("created_at", params.From, params.To))
	}
	err := query.Order("created_at DESC").Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepository) SummaryByEmployee(ctx context.Context, from, to *time.Time) ([]entity.CommissionSummary, error) {
	var rows []struct {
		EmployeeID   string
		EmployeeName string
		Count        int64
		Total        int64
	}

	err := r.conn(ctx).
		Table("commissions c").
		Select("c.employee_id AS employee_id, COALESCE(e.name, '') AS employee_name, COUNT(c.id) AS count, COALESCE(SUM(c.value), 0) AS total").
		Joins("LEFT JOIN employees e ON e.id = c.employee_id").
		Scopes(Between("c.created_at", from, to)).
		Group("c.employee_id, e.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.CommissionSummary, 0, len(rows))
	for _, row := range rows {
		s := entity.CommissionSummary{EmployeeName: row.EmployeeName, Count: row.Count, Total: row.Total}
		if err := s.EmployeeID.UnmarshalText([]byte(row.EmployeeID)); err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
