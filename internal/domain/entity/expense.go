package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"gorm.io/gorm"
)

const (
	ExpenseCategoryDefault = "Geral"
	// ExpenseCategorySangria marks cash taken out of the drawer at the counter.
	ExpenseCategorySangria = "Sangria / Retirada"
)

// Expense is an outgoing ledger entry
type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Amount      int64     `gorm:"not null" json:"-"` // Stored in cents
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e Expense) MarshalJSON() ([]byte, error) {
	type Alias Expense
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: money.ToFloat(e.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
