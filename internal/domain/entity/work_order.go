package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"gorm.io/gorm"
)

// FirstWorkOrderNumber is the id given to the first OS of a fresh install.
const FirstWorkOrderNumber int64 = 1000

// WorkOrder represents an OS (ordem de serviço) for a customer's motorcycle
type WorkOrder struct {
	ID           int64                `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerName string               `gorm:"size:255;not null" json:"customer_name"`
	VehicleModel string               `gorm:"size:255" json:"vehicle_model"`
	VehiclePlate string               `gorm:"size:20;not null;index" json:"vehicle_plate"`
	Status       enum.WorkOrderStatus `gorm:"size:20;not null;index" json:"status"`
	TotalAmount  int64                `gorm:"not null;default:0" json:"-"` // Stored in cents
	CreatedAt    time.Time            `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	PaidAt       *time.Time           `gorm:"index" json:"paid_at,omitempty"`

	Items []OSItem `gorm:"foreignKey:OrderID" json:"items"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o WorkOrder) MarshalJSON() ([]byte, error) {
	type Alias WorkOrder
	items := o.Items
	if items == nil {
		items = []OSItem{}
	}
	return json.Marshal(&struct {
		Alias
		Items       []OSItem `json:"items"`
		TotalAmount float64  `json:"total_amount"`
	}{
		Alias:       Alias(o),
		Items:       items,
		TotalAmount: money.ToFloat(o.TotalAmount),
	})
}

// TableName returns the table name for the WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}

// RecalculateTotal sets TotalAmount to the sum of the item prices.
func (o *WorkOrder) RecalculateTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Price
	}
	o.TotalAmount = total
}

// OSItem is a service line on a work order, optionally attributed to the
// employee who performed it.
type OSItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     int64      `gorm:"not null;index" json:"order_id"`
	ServiceID   *uuid.UUID `gorm:"type:uuid;index" json:"service_id,omitempty"`
	ServiceName string     `gorm:"size:255;not null" json:"service_name"`
	EmployeeID  *uuid.UUID `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	Price       int64      `gorm:"not null;default:0" json:"-"` // Stored in cents
	CreatedAt   time.Time  `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i OSItem) MarshalJSON() ([]byte, error) {
	type Alias OSItem
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(i),
		Price: money.ToFloat(i.Price),
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OSItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OSItem model
func (OSItem) TableName() string {
	return "work_order_items"
}
