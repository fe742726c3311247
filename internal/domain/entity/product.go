package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"gorm.io/gorm"
)

// DefaultMinStock is applied to new products that do not set a threshold.
const DefaultMinStock = 5

// Product represents a part or accessory kept in stock
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null;index" json:"name"`
	SKU         *string        `gorm:"size:100;index" json:"sku,omitempty"`
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`
	MinStock    int            `gorm:"not null;default:5" json:"min_stock"`
	PriceCost   int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	PriceSell   int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	Observation *string        `gorm:"type:text" json:"observation,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON converts cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		PriceCost float64 `json:"price_cost"`
		PriceSell float64 `json:"price_sell"`
		LowStock  bool    `json:"low_stock"`
	}{
		Alias:     Alias(p),
		PriceCost: money.ToFloat(p.PriceCost),
		PriceSell: money.ToFloat(p.PriceSell),
		LowStock:  p.IsLowStock(),
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// StockValue is quantity × cost price, in cents.
func (p *Product) StockValue() int64 {
	if p.Quantity <= 0 {
		return 0
	}
	return int64(p.Quantity) * p.PriceCost
}
