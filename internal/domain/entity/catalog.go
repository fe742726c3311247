package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a labour item offered by the workshop. CommissionValue is a
// percentage or an amount in reais depending on CommissionType.
type Service struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name            string              `gorm:"size:255;not null" json:"name"`
	BasePrice       int64               `gorm:"not null;default:0" json:"-"` // Stored in cents
	CommissionType  enum.CommissionType `gorm:"size:10;not null;default:'PERCENT'" json:"commission_type"`
	CommissionValue decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"commission_value"`
	Description     *string             `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Service) MarshalJSON() ([]byte, error) {
	type Alias Service
	return json.Marshal(&struct {
		Alias
		BasePrice       float64 `json:"base_price"`
		CommissionValue float64 `json:"commission_value"`
	}{
		Alias:           Alias(s),
		BasePrice:       money.ToFloat(s.BasePrice),
		CommissionValue: s.CommissionValue.InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new service
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// Employee is a mechanic or attendant who can earn commissions.
type Employee struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name                     string          `gorm:"size:255;not null" json:"name"`
	DefaultCommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"default_commission_percent"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	DeletedAt                gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (e Employee) MarshalJSON() ([]byte, error) {
	type Alias Employee
	return json.Marshal(&struct {
		Alias
		DefaultCommissionPercent float64 `json:"default_commission_percent"`
	}{
		Alias:                    Alias(e),
		DefaultCommissionPercent: e.DefaultCommissionPercent.InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
