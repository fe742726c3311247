package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// WorkOrderRepository defines the interface for work order data operations
type WorkOrderRepository interface {
	Collection[entity.WorkOrder]
	// NextID returns the id for a new order (1000 on an empty store).
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *entity.WorkOrder) error
	GetByID(ctx context.Context, id int64) (*entity.WorkOrder, error)
	// GetByIDForUpdate loads the order with a row lock where the driver supports one.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.WorkOrder, error)
	Search(ctx context.Context, params *WorkOrderFilterParams) ([]entity.WorkOrder, int64, error)
	UpdateStatus(ctx context.Context, id int64, from []enum.WorkOrderStatus, to enum.WorkOrderStatus) (bool, error)
	// MarkFinalized sets FINALIZADA and paid_at only if the order is not in a
	// terminal state. Returns false when no row was changed.
	MarkFinalized(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	AddItem(ctx context.Context, item *entity.OSItem) error
	RemoveItem(ctx context.Context, orderID int64, itemID uuid.UUID) (bool, error)
	UpdateTotal(ctx context.Context, id int64, total int64) error
}

type WorkOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.WorkOrderStatus
	Search     string // customer name or plate
}
