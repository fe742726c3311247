package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
)

// CatalogHandler handles the service catalog and employees
type CatalogHandler struct {
	catalogService    *service.CatalogService
	commissionService *service.CommissionService
	days              DayParser
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, commissionService *service.CommissionService, days DayParser) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, commissionService: commissionService, days: days}
}

func serviceInput(req *request.ServiceRequest) *service.ServiceInput {
	return &service.ServiceInput{
		Name:            req.Name,
		BasePrice:       req.BasePrice,
		CommissionType:  enum.CommissionType(req.CommissionType),
		CommissionValue: req.CommissionValue,
		Description:     req.Description,
	}
}

// ListServices handles listing catalog services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogService.ListServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Services retrieved successfully", services)
}

// GetService handles getting a single service
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	svc, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service retrieved successfully", svc)
}

// CreateService handles creating a service
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	svc, err := h.catalogService.CreateService(c.Request.Context(), serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Service created successfully", svc)
}

// UpdateService handles updating a service
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	svc, err := h.catalogService.UpdateService(c.Request.Context(), id, serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service updated successfully", svc)
}

// DeleteService handles deleting a service
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteService(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEmployees handles listing employees
func (h *CatalogHandler) ListEmployees(c *gin.Context) {
	employees, err := h.catalogService.ListEmployees(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employees retrieved successfully", employees)
}

// GetEmployee handles getting a single employee
func (h *CatalogHandler) GetEmployee(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	employee, err := h.catalogService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee retrieved successfully", employee)
}

// CreateEmployee handles creating an employee
func (h *CatalogHandler) CreateEmployee(c *gin.Context) {
	var req request.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	employee, err := h.catalogService.CreateEmployee(c.Request.Context(), &service.EmployeeInput{
		Name:                     req.Name,
		DefaultCommissionPercent: req.DefaultCommissionPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Employee created successfully", employee)
}

// UpdateEmployee handles updating an employee
func (h *CatalogHandler) UpdateEmployee(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	employee, err := h.catalogService.UpdateEmployee(c.Request.Context(), id, &service.EmployeeInput{
		Name:                     req.Name,
		DefaultCommissionPercent: req.DefaultCommissionPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee updated successfully", employee)
}

// DeleteEmployee handles deleting an employee
func (h *CatalogHandler) DeleteEmployee(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEmployee(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCommissions handles listing commissions by employee, order or period
func (h *CatalogHandler) ListCommissions(c *gin.Context) {
	var filter request.CommissionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	from, to, err := dayRange(h.days, filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	params := &repository.CommissionFilterParams{From: from, To: to}
	if filter.EmployeeID != "" {
		employeeID, ok := parseUUIDQuery(c, "employee_id", filter.EmployeeID)
		if !ok {
			return
		}
		params.EmployeeID = &employeeID
	}
	if filter.OrderID > 0 {
		params.OrderID = &filter.OrderID
	}

	commissions, err := h.commissionService.ListCommissions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Commissions retrieved successfully", commissions)
}

// CommissionSummary totals commissions per employee
func (h *CatalogHandler) CommissionSummary(c *gin.Context) {
	from, to, err := dayRange(h.days, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.commissionService.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Commission summary retrieved successfully", summary)
}
