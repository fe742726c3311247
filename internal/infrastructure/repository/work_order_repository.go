package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type workOrderRepository struct {
	base
}

// NewWorkOrderRepository creates a new work order repository
func NewWorkOrderRepository(db *gorm.DB) domainRepo.WorkOrderRepository {
	return &workOrderRepository{base{db: db}}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func (r *workOrderRepository) List(ctx context.Context) ([]entity.WorkOrder, error) {
	var orders []entity.WorkOrder
	err := r.conn(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *workOrderRepository) ReplaceAll(ctx context.Context, orders []entity.WorkOrder) error {
	return replaceAll(ctx, r.conn(ctx), orders, &entity.OSItem{})
}

func (r *workOrderRepository) NextID(ctx context.Context) (int64, error) {
	var last int64
	err := r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Select("COALESCE(MAX(id), ?)", entity.FirstWorkOrderNumber-1).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (r *workOrderRepository) Create(ctx context.Context, order *entity.WorkOrder) error {
	return r.conn(ctx).Create(order).Error
}

func (r *workOrderRepository) GetByID(ctx context.Context, id int64) (*entity.WorkOrder, error) {
	var order entity.WorkOrder
	err := r.conn(ctx).Preload("Items", orderedItems).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *workOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.WorkOrder, error) {
	var order entity.WorkOrder
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := orderedItems(r.conn(ctx)).Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) Search(ctx context.Context, params *domainRepo.WorkOrderFilterParams) ([]entity.WorkOrder, int64, error) {
	var orders []entity.WorkOrder
	var total int64

	query := r.conn(ctx).Model(&entity.WorkOrder{})
	if params != nil {
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
		if term := strings.TrimSpace(params.Search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(vehicle_plate) LIKE ?", like, like)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if params != nil {
		query = query.Scopes(Paginate(params.Pagination))
	}

	err := query.
		Preload("Items", orderedItems).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *workOrderRepository) UpdateStatus(ctx context.Context, id int64, from []enum.WorkOrderStatus, to enum.WorkOrderStatus) (bool, error) {
	result := r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return result.RowsAffected > 0, result.Error
}

func (r *workOrderRepository) MarkFinalized(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	result := r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Where("id = ? AND status NOT IN ?", id, enum.TerminalWorkOrderStatuses).
		Updates(map[string]interface{}{
			"status":  enum.WorkOrderStatusFinalizada,
			"paid_at": paidAt.UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *workOrderRepository) AddItem(ctx context.Context, item *entity.OSItem) error {
	return r.conn(ctx).Create(item).Error
}

func (r *workOrderRepository) RemoveItem(ctx context.Context, orderID int64, itemID uuid.UUID) (bool, error) {
	result := r.conn(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&entity.OSItem{})
	return result.RowsAffected > 0, result.Error
}

func (r *workOrderRepository) UpdateTotal(ctx context.Context, id int64, total int64) error {
	return r.conn(ctx).
		Model(&entity.WorkOrder{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

func formatOrderRef(id int64) string {
	return "OS #" + strconv.FormatInt(id, 10)
}
