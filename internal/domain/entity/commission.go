package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"gorm.io/gorm"
)

// CommissionStatusConfirmada is the only state a commission can be in.
const CommissionStatusConfirmada = "CONFIRMADA"

// Commission is the amount owed to an employee for one settled OS line.
// The unique index on OrderItemID keeps a line from being paid twice.
type Commission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_item_id"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Value       int64     `gorm:"not null" json:"-"` // Stored in cents
	Status      string    `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Commission) MarshalJSON() ([]byte, error) {
	type Alias Commission
	return json.Marshal(&struct {
		Alias
		Value float64 `json:"value"`
	}{
		Alias: Alias(c),
		Value: money.ToFloat(c.Value),
	})
}

// BeforeCreate generates a UUID before creating a new commission
func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}

// CommissionSummary aggregates confirmed commissions per employee.
type CommissionSummary struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Count        int64     `json:"count"`
	Total        int64     `json:"-"`
}

func (s CommissionSummary) MarshalJSON() ([]byte, error) {
	type Alias CommissionSummary
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(s),
		Total: money.ToFloat(s.Total),
	})
}
