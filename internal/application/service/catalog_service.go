package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/shopspring/decimal"
)

// CatalogService manages the service catalog and the employee roster
type CatalogService struct {
	serviceRepo  repository.ServiceRepository
	employeeRepo repository.EmployeeRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(serviceRepo repository.ServiceRepository, employeeRepo repository.EmployeeRepository) *CatalogService {
	return &CatalogService{
		serviceRepo:  serviceRepo,
		employeeRepo: employeeRepo,
	}
}

// ServiceInput represents the create/update service input
type ServiceInput struct {
	Name            string
	BasePrice       float64
	CommissionType  enum.CommissionType
	CommissionValue decimal.Decimal
	Description     *string
}

func (in *ServiceInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Nome é obrigatório"})
	}
	if in.BasePrice < 0 {
		errs = append(errs, apperror.FieldError{Field: "base_price", Message: "Preço não pode ser negativo"})
	}
	if in.CommissionType == "" {
		in.CommissionType = enum.CommissionTypePercent
	}
	if !in.CommissionType.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "commission_type", Message: "Use PERCENT ou FIXED"})
	}
	if in.CommissionValue.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "commission_value", Message: "Comissão não pode ser negativa"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func (in *ServiceInput) apply(svc *entity.Service) {
	svc.Name = strings.TrimSpace(in.Name)
	svc.BasePrice = money.FromFloat(in.BasePrice)
	svc.CommissionType = in.CommissionType
	svc.CommissionValue = in.CommissionValue
	svc.Description = in.Description
}

func (s *CatalogService) ListServices(ctx context.Context) ([]entity.Service, error) {
	services, err := s.serviceRepo.List(ctx)
	if services == nil {
		services = []entity.Service{}
	}
	return services, err
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return svc, nil
}

func (s *CatalogService) CreateService(ctx context.Context, input *ServiceInput) (*entity.Service, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	svc := &entity.Service{}
	input.apply(svc)
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, input *ServiceInput) (*entity.Service, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(svc)
	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a service. Work-order lines keep their name snapshot.
func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(ctx, id)
}

// EmployeeInput represents the create/update employee input
type EmployeeInput struct {
	Name                     string
	DefaultCommissionPercent decimal.Decimal
}

func (in *EmployeeInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Nome é obrigatório"})
	}
	if in.DefaultCommissionPercent.IsNegative() || in.DefaultCommissionPercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, apperror.FieldError{Field: "default_commission_percent", Message: "Percentual entre 0 e 100"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func (s *CatalogService) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	employees, err := s.employeeRepo.List(ctx)
	if employees == nil {
		employees = []entity.Employee{}
	}
	return employees, err
}

func (s *CatalogService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return emp, nil
}

func (s *CatalogService) CreateEmployee(ctx context.Context, input *EmployeeInput) (*entity.Employee, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	emp := &entity.Employee{
		Name:                     strings.TrimSpace(input.Name),
		DefaultCommissionPercent: input.DefaultCommissionPercent,
	}
	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *CatalogService) UpdateEmployee(ctx context.Context, id uuid.UUID, input *EmployeeInput) (*entity.Employee, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.Name = strings.TrimSpace(input.Name)
	emp.DefaultCommissionPercent = input.DefaultCommissionPercent
	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *CatalogService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}
