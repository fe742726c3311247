package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type serviceRepository struct {
	base
}

// NewServiceRepository creates a new service catalog repository
func NewServiceRepository(db *gorm.DB) domainRepo.ServiceRepository {
	return &serviceRepository{base{db: db}}
}

func (r *serviceRepository) List(ctx context.Context) ([]entity.Service, error) {
	var services []entity.Service
	err := r.conn(ctx).Order("name ASC").Find(&services).Error
	return services, err
}

func (r *serviceRepository) ReplaceAll(ctx context.Context, services []entity.Service) error {
	return replaceAll(ctx, r.conn(ctx), services)
}

func (r *serviceRepository) Create(ctx context.Context, svc *entity.Service) error {
	return r.conn(ctx).Create(svc).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var svc entity.Service
	err := r.conn(ctx).First(&svc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &svc, err
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error) {
	if len(ids) == 0 {
		return []entity.Service{}, nil
	}
	var services []entity.Service
	err := r.conn(ctx).Where("id IN ?", ids).Find(&services).Error
	return services, err
}

func (r *serviceRepository) Update(ctx context.Context, svc *entity.Service) error {
	return r.conn(ctx).Save(svc).Error
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&entity.Service{}, "id = ?", id).Error
}

type employeeRepository struct {
	base
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{base{db: db}}
}

func (r *employeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee
	err := r.conn(ctx).Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) ReplaceAll(ctx context.Context, employees []entity.Employee) error {
	return replaceAll(ctx, r.conn(ctx), employees)
}

func (r *employeeRepository) Create(ctx context.Context, emp *entity.Employee) error {
	return r.conn(ctx).Create(emp).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.conn(ctx).First(&emp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &emp, err
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Employee, error) {
	if len(ids) == 0 {
		return []entity.Employee{}, nil
	}
	var employees []entity.Employee
	err := r.conn(ctx).Where("id IN ?", ids).Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) Update(ctx context.Context, emp *entity.Employee) error {
	return r.conn(ctx).Save(emp).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&entity.Employee{}, "id = ?", id).Error
}
