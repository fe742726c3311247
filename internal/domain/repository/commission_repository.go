package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
)

// CommissionRepository defines the interface for commission data operations
type CommissionRepository interface {
	Collection[entity.Commission]
	CreateBatch(ctx context.Context, batch []entity.Commission) error
	ListByOrder(ctx context.Context, orderID int64) ([]entity.Commission, error)
	Filter(ctx context.Context, params *CommissionFilterParams) ([]entity.Commission, error)
	SummaryByEmployee(ctx context.Context, from, to *time.Time) ([]entity.CommissionSummary, error)
}

type CommissionFilterParams struct {
	EmployeeID *uuid.UUID
	OrderID    *int64
	From       *time.Time
	To         *time.Time
}
