package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// WorkOrderHandler handles OS (ordem de serviço) requests
type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
}

// NewWorkOrderHandler creates a new work order handler
func NewWorkOrderHandler(workOrderService *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

// List handles listing orders newest first
func (h *WorkOrderHandler) List(c *gin.Context) {
	var filter request.WorkOrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.WorkOrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.Status != "" {
		status := enum.WorkOrderStatus(filter.Status)
		params.Status = &status
	}

	result, err := h.workOrderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Work orders retrieved successfully", result)
}

// Create opens a new OS
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req request.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.workOrderService.CreateOrder(c.Request.Context(), &service.CreateWorkOrderInput{
		CustomerName: req.CustomerName,
		VehicleModel: req.VehicleModel,
		VehiclePlate: req.VehiclePlate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "OS criada", order)
}

// Get handles getting a single OS with its items
func (h *WorkOrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.workOrderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Work order retrieved successfully", order)
}

// AddItem adds a service line
func (h *WorkOrderHandler) AddItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req request.AddWorkOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.workOrderService.AddItem(c.Request.Context(), id, &service.AddItemInput{
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		EmployeeID:  req.EmployeeID,
		Price:       req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Serviço adicionado", order)
}

// RemoveItem removes a service line
func (h *WorkOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	order, err := h.workOrderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Serviço removido", order)
}

// UpdateStatus moves an OS between working states or cancels it
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req request.UpdateWorkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.workOrderService.UpdateStatus(c.Request.Context(), id, enum.WorkOrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Status atualizado", order)
}

// Finalize settles the OS and records its commissions
func (h *WorkOrderHandler) Finalize(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.workOrderService.Finalize(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result.Message, result)
}
