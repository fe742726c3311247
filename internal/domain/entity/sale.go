package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"gorm.io/gorm"
)

// Sale is a finalized counter (PDV) sale. It is written once at checkout
// and never updated afterwards.
type Sale struct {
	ID            string             `gorm:"size:6;primaryKey" json:"id"`
	Status        enum.SaleStatus    `gorm:"size:20;not null" json:"status"`
	Subtotal      int64              `gorm:"not null" json:"-"` // Stored in cents
	DiscountValue int64              `gorm:"not null;default:0" json:"-"`
	InterestValue int64              `gorm:"not null;default:0" json:"-"`
	Installments  int                `gorm:"not null;default:1" json:"installments"`
	Total         int64              `gorm:"not null" json:"-"`
	ActorType     enum.AccessMode    `gorm:"size:20;not null" json:"actor_type"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	CreatedAt     time.Time          `gorm:"not null;index" json:"created_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal      float64 `json:"subtotal"`
		DiscountValue float64 `json:"discount_value"`
		InterestValue float64 `json:"interest_value"`
		Total         float64 `json:"total"`
	}{
		Alias:         Alias(s),
		Subtotal:      money.ToFloat(s.Subtotal),
		DiscountValue: money.ToFloat(s.DiscountValue),
		InterestValue: money.ToFloat(s.InterestValue),
		Total:         money.ToFloat(s.Total),
	})
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one cart line. Name and UnitPrice are snapshots taken when the
// product was added to the cart.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	SaleID    string    `gorm:"size:6;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"-"`
	Subtotal  int64     `gorm:"not null" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Subtotal  float64 `json:"subtotal"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.ToFloat(i.UnitPrice),
		Subtotal:  money.ToFloat(i.Subtotal),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// Recalculate keeps Subtotal equal to Quantity × UnitPrice.
func (i *SaleItem) Recalculate() {
	i.Subtotal = int64(i.Quantity) * i.UnitPrice
}
