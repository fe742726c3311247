package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
)

// ServiceRepository defines the interface for the workshop's service catalog
type ServiceRepository interface {
	Collection[entity.Service]
	Create(ctx context.Context, svc *entity.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error)
	Update(ctx context.Context, svc *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Collection[entity.Employee]
	Create(ctx context.Context, emp *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Employee, error)
	Update(ctx context.Context, emp *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}
