package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	base
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{base{db: db}}
}

// RevenueEntries returns raw rows; calendar-day bucketing happens in the
// service so it can use the workshop's timezone on any driver.
func (r *analyticsRepository) RevenueEntries(ctx context.Context, start, end time.Time) ([]domainRepo.RevenueEntry, error) {
	var sales []struct {
		ID        string
		CreatedAt time.Time
		Total     int64
	}
	err := r.conn(ctx).
		Model(&entity.Sale{}).
		Select("id, created_at, total").
		Scopes(Between("created_at", &start, &end)).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	var orders []struct {
		ID          int64
		PaidAt      time.Time
		TotalAmount int64
	}
	err = r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Select("id, paid_at, total_amount").
		Where("status = ? AND paid_at IS NOT NULL", enum.WorkOrderStatusFinalizada).
		Scopes(Between("paid_at", &start, &end)).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domainRepo.RevenueEntry, 0, len(sales)+len(orders))
	for _, s := range sales {
		entries = append(entries, domainRepo.RevenueEntry{
			Source: domainRepo.RevenueSourceSale,
			Ref:    s.ID,
			At:     s.CreatedAt,
			Amount: s.Total,
		})
	}
	for _, o := range orders {
		entries = append(entries, domainRepo.RevenueEntry{
			Source: domainRepo.RevenueSourceWorkOrder,
			Ref:    formatOrderRef(o.ID),
			At:     o.PaidAt,
			Amount: o.TotalAmount,
		})
	}
	return entries, nil
}

func (r *analyticsRepository) StockValue(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn(ctx).
		Model(&entity.Product{}).
		Select("COALESCE(SUM(quantity * price_cost), 0)").
		Where("quantity > 0").
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) CountActiveOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Where("status NOT IN ?", enum.TerminalWorkOrderStatuses).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&entity.Product{}).
		Where("quantity <= min_stock").
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ExpensesTotal(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.conn(ctx).
		Model(&entity.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scopes(Between("date", &start, &end)).
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.ProductTurnover, error) {
	var rows []struct {
		ProductID    string
		ProductName  string
		QuantitySold int64
		Revenue      int64
	}

	err := r.conn(ctx).
		Table("sale_items si").
		Select("si.product_id AS product_id, MAX(si.name) AS product_name, COALESCE(SUM(si.quantity), 0) AS quantity_sold, COALESCE(SUM(si.subtotal), 0) AS revenue").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Scopes(Between("s.created_at", &start, &end)).
		Group("si.product_id").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.ProductTurnover, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ProductID)
		if err != nil {
			continue
		}
		results = append(results, domainRepo.ProductTurnover{
			ProductID:    id,
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			Revenue:      row.Revenue,
		})
	}
	return results, nil
}
