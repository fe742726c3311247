package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest opens an OS
type CreateWorkOrderRequest struct {
	CustomerName string `json:"customer_name"`
	VehicleModel string `json:"vehicle_model"`
	VehiclePlate string `json:"vehicle_plate"`
}

// AddWorkOrderItemRequest adds a service line to an OS. Either ServiceID or
// ServiceName must be given; Price defaults to the service's base price.
type AddWorkOrderItemRequest struct {
	ServiceID   *uuid.UUID `json:"service_id"`
	ServiceName string     `json:"service_name"`
	EmployeeID  *uuid.UUID `json:"employee_id"`
	Price       *float64   `json:"price" binding:"omitempty,min=0"`
}

// UpdateWorkOrderStatusRequest represents a status change
type UpdateWorkOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// WorkOrderFilterRequest represents OS listing parameters
type WorkOrderFilterRequest struct {
	Status  string `form:"status"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// ServiceRequest creates or updates a catalog service
type ServiceRequest struct {
	Name            string          `json:"name"`
	BasePrice       float64         `json:"base_price"`
	CommissionType  string          `json:"commission_type"`
	CommissionValue decimal.Decimal `json:"commission_value"`
	Description     *string         `json:"description"`
}

// EmployeeRequest creates or updates an employee
type EmployeeRequest struct {
	Name                     string          `json:"name"`
	DefaultCommissionPercent decimal.Decimal `json:"default_commission_percent"`
}

// CommissionFilterRequest represents commission listing parameters
type CommissionFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	OrderID    int64  `form:"order_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}
