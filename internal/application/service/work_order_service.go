package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/commission"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

const alreadySettledMessage = "Esta OS já está finalizada/paga."

var openWorkOrderStatuses = []enum.WorkOrderStatus{
	enum.WorkOrderStatusAberta,
	enum.WorkOrderStatusEmAndamento,
	enum.WorkOrderStatusAguardandoPeca,
}

func errAlreadySettled(order *entity.WorkOrder) error {
	return &apperror.AppError{
		Code:    http.StatusConflict,
		Reason:  apperror.ReasonAlreadySettled,
		Message: alreadySettledMessage,
		Details: map[string]interface{}{"order_id": order.ID, "status": order.Status},
	}
}

// WorkOrderService handles OS lifecycle and settlement
type WorkOrderService struct {
	orderRepo      repository.WorkOrderRepository
	serviceRepo    repository.ServiceRepository
	employeeRepo   repository.EmployeeRepository
	commissionRepo repository.CommissionRepository
	transactor     repository.Transactor
	now            func() time.Time

	// ids are MAX(id)+1, so creates must not race
	createMu sync.Mutex
}

// NewWorkOrderService creates a new work order service
func NewWorkOrderService(
	orderRepo repository.WorkOrderRepository,
	serviceRepo repository.ServiceRepository,
	employeeRepo repository.EmployeeRepository,
	commissionRepo repository.CommissionRepository,
	transactor repository.Transactor,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:      orderRepo,
		serviceRepo:    serviceRepo,
		employeeRepo:   employeeRepo,
		commissionRepo: commissionRepo,
		transactor:     transactor,
		now:            time.Now,
	}
}

// CreateWorkOrderInput represents the create OS input
type CreateWorkOrderInput struct {
	CustomerName string
	VehicleModel string
	VehiclePlate string
}

// CreateOrder opens a new OS with no items.
func (s *WorkOrderService) CreateOrder(ctx context.Context, input *CreateWorkOrderInput) (*entity.WorkOrder, error) {
	var errs []apperror.FieldError
	customer := strings.TrimSpace(input.CustomerName)
	plate := strings.ToUpper(strings.TrimSpace(input.VehiclePlate))
	if customer == "" {
		errs = append(errs, apperror.FieldError{Field: "customer_name", Message: "Cliente é obrigatório"})
	}
	if plate == "" {
		errs = append(errs, apperror.FieldError{Field: "vehicle_plate", Message: "Placa é obrigatória"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	order := &entity.WorkOrder{
		CustomerName: customer,
		VehicleModel: strings.TrimSpace(input.VehicleModel),
		VehiclePlate: plate,
		Status:       enum.WorkOrderStatusAberta,
		CreatedAt:    s.now().UTC(),
	}
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.orderRepo.NextID(ctx)
		if err != nil {
			return err
		}
		order.ID = id
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	order.Items = []entity.OSItem{}
	return order, nil
}

// GetOrder retrieves an OS with its items
func (s *WorkOrderService) GetOrder(ctx context.Context, id int64) (*entity.WorkOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Work order")
	}
	return order, nil
}

// ListOrders lists orders newest first
func (s *WorkOrderService) ListOrders(ctx context.Context, params *repository.WorkOrderFilterParams) (*pagination.PaginatedResult[entity.WorkOrder], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperror.NewFieldError("status", "Status inválido")
	}

	orders, total, err := s.orderRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// AddItemInput represents a service line added to an OS. Price defaults to
// the service's base price.
type AddItemInput struct {
	ServiceID   *uuid.UUID
	ServiceName string
	EmployeeID  *uuid.UUID
	Price       *float64
}

// AddItem appends a line to an open OS and recomputes its total.
func (s *WorkOrderService) AddItem(ctx context.Context, orderID int64, input *AddItemInput) (*entity.WorkOrder, error) {
	var order *entity.WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.loadOpen(ctx, orderID)
		if err != nil {
			return err
		}

		item := entity.OSItem{
			OrderID:     order.ID,
			ServiceName: strings.TrimSpace(input.ServiceName),
			EmployeeID:  input.EmployeeID,
			CreatedAt:   s.now().UTC(),
		}
		if input.ServiceID != nil {
			svc, err := s.serviceRepo.GetByID(ctx, *input.ServiceID)
			if err != nil {
				return err
			}
			if svc == nil {
				return apperror.NewNotFoundError("Service")
			}
			item.ServiceID = &svc.ID
			item.ServiceName = svc.Name
			item.Price = svc.BasePrice
		}
		if item.ServiceName == "" {
			return apperror.NewFieldError("service_name", "Informe o serviço")
		}
		if input.Price != nil {
			if *input.Price < 0 {
				return apperror.NewFieldError("price", "Preço não pode ser negativo")
			}
			item.Price = money.FromFloat(*input.Price)
		}
		if input.EmployeeID != nil {
			emp, err := s.employeeRepo.GetByID(ctx, *input.EmployeeID)
			if err != nil {
				return err
			}
			if emp == nil {
				return apperror.NewNotFoundError("Employee")
			}
		}

		if err := s.orderRepo.AddItem(ctx, &item); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
		order.RecalculateTotal()
		return s.orderRepo.UpdateTotal(ctx, order.ID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem deletes a line from an open OS and recomputes its total.
func (s *WorkOrderService) RemoveItem(ctx context.Context, orderID int64, itemID uuid.UUID) (*entity.WorkOrder, error) {
	var order *entity.WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.loadOpen(ctx, orderID)
		if err != nil {
			return err
		}
		removed, err := s.orderRepo.RemoveItem(ctx, orderID, itemID)
		if err != nil {
			return err
		}
		if !removed {
			return apperror.NewNotFoundError("Work order item")
		}

		kept := order.Items[:0]
		for _, it := range order.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		order.Items = kept
		order.RecalculateTotal()
		return s.orderRepo.UpdateTotal(ctx, order.ID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *WorkOrderService) loadOpen(ctx context.Context, id int64) (*entity.WorkOrder, error) {
	order, err := s.orderRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Work order")
	}
	if order.Status.IsTerminal() {
		return nil, apperror.NewConflictError(fmt.Sprintf("OS #%d está %s e não pode ser alterada", order.ID, order.Status))
	}
	return order, nil
}

// UpdateStatus moves an open OS between open states or cancels it.
// FINALIZADA is only reachable through Finalize.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, id int64, to enum.WorkOrderStatus) (*entity.WorkOrder, error) {
	if !to.IsValid() {
		return nil, apperror.NewFieldError("status", "Status inválido")
	}
	if to == enum.WorkOrderStatusFinalizada {
		return nil, apperror.NewBadRequestError("Use a finalização da OS para marcá-la como FINALIZADA")
	}

	changed, err := s.orderRepo.UpdateStatus(ctx, id, openWorkOrderStatuses, to)
	if err != nil {
		return nil, err
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperror.NewConflictError(fmt.Sprintf("OS #%d está %s e não pode ser alterada", order.ID, order.Status))
	}
	return order, nil
}

// SettlementResult is what finalizing an OS produced.
type SettlementResult struct {
	Order       *entity.WorkOrder   `json:"order"`
	Commissions []entity.Commission `json:"commissions"`
	Count       int                 `json:"count"`
	Message     string              `json:"message"`
}

// Finalize settles an OS: it becomes FINALIZADA with paid_at set and one
// commission is recorded per eligible line, all in one transaction. An
// order that is already terminal, or that another request finalizes first,
// is rejected without changes.
func (s *WorkOrderService) Finalize(ctx context.Context, id int64) (*SettlementResult, error) {
	var result *SettlementResult
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Work order")
		}
		if order.Status.IsTerminal() {
			return errAlreadySettled(order)
		}

		now := s.now().UTC()
		ok, err := s.orderRepo.MarkFinalized(ctx, id, now)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadySettled(order)
		}
		order.Status = enum.WorkOrderStatusFinalizada
		order.PaidAt = &now

		lookup, err := s.lookup(ctx, order)
		if err != nil {
			return err
		}
		batch := commission.Build(order, lookup, now)
		if err := s.commissionRepo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create commissions: %w", err)
		}

		result = &SettlementResult{
			Order:       order,
			Commissions: batch,
			Count:       len(batch),
			Message:     fmt.Sprintf("OS #%d Finalizada! %d comissões geradas.", order.ID, len(batch)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Work order #%d finalized: total %d cents, %d commissions", result.Order.ID, result.Order.TotalAmount, result.Count)
	return result, nil
}

func (s *WorkOrderService) lookup(ctx context.Context, order *entity.WorkOrder) (commission.Lookup, error) {
	var serviceIDs, employeeIDs []uuid.UUID
	for _, item := range order.Items {
		if item.ServiceID != nil {
			serviceIDs = append(serviceIDs, *item.ServiceID)
		}
		if item.EmployeeID != nil {
			employeeIDs = append(employeeIDs, *item.EmployeeID)
		}
	}

	services, err := s.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return commission.Lookup{}, err
	}
	employees, err := s.employeeRepo.GetByIDs(ctx, employeeIDs)
	if err != nil {
		return commission.Lookup{}, err
	}

	lookup := commission.Lookup{
		Services:  make(map[uuid.UUID]*entity.Service, len(services)),
		Employees: make(map[uuid.UUID]*entity.Employee, len(employees)),
	}
	for i := range services {
		lookup.Services[services[i].ID] = &services[i]
	}
	for i := range employees {
		lookup.Employees[employees[i].ID] = &employees[i]
	}
	return lookup, nil
}
