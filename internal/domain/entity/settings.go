package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SettingsID is the primary key of the single settings row.
const SettingsID uint = 1

// DefaultMaxDiscountSemPin is the discount percent applied when setup does not set one.
var DefaultMaxDiscountSemPin = decimal.NewFromInt(5)

// SystemSettings is the workshop's singleton configuration record
type SystemSettings struct {
	ID                  uint            `gorm:"primaryKey" json:"-"`
	WorkshopName        string          `gorm:"size:255" json:"workshop_name"`
	CNPJ                string          `gorm:"size:20" json:"cnpj"`
	AddressStreet       string          `gorm:"size:255" json:"address_street"`
	AddressNumber       string          `gorm:"size:20" json:"address_number"`
	AddressNeighborhood string          `gorm:"size:100" json:"address_neighborhood"`
	AddressCity         string          `gorm:"size:100" json:"address_city"`
	AddressState        string          `gorm:"size:2" json:"address_state"`
	AddressZip          string          `gorm:"size:10" json:"address_zip"`
	PhoneWhatsapp       string          `gorm:"size:20" json:"phone_whatsapp"`
	LogoURL             *string         `gorm:"type:text" json:"logo_url,omitempty"`
	ManagerName         string          `gorm:"size:255" json:"manager_name"`
	ManagerPhoto        *string         `gorm:"type:text" json:"manager_photo,omitempty"`
	GestorPinHash       string          `gorm:"size:100" json:"-"`
	MaxDiscountSemPin   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5" json:"max_discount_sem_pin"`
	InstallmentRates    datatypes.JSON  `json:"installment_rates,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName returns the table name for the SystemSettings model
func (SystemSettings) TableName() string {
	return "system_settings"
}

// IsConfigured reports whether the setup wizard has been completed.
func (s *SystemSettings) IsConfigured() bool {
	return s != nil && s.GestorPinHash != "" && s.WorkshopName != ""
}

// RateTable decodes the installment interest table ({"3": "4.8", ...}).
// An empty column yields an empty table.
func (s *SystemSettings) RateTable() (map[int]decimal.Decimal, error) {
	rates := map[int]decimal.Decimal{}
	if len(s.InstallmentRates) == 0 {
		return rates, nil
	}
	if err := json.Unmarshal(s.InstallmentRates, &rates); err != nil {
		return nil, fmt.Errorf("decode installment rates: %w", err)
	}
	return rates, nil
}

// SetRateTable encodes rates into the JSON column.
func (s *SystemSettings) SetRateTable(rates map[int]decimal.Decimal) error {
	if len(rates) == 0 {
		s.InstallmentRates = nil
		return nil
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("encode installment rates: %w", err)
	}
	s.InstallmentRates = datatypes.JSON(raw)
	return nil
}

// FullAddress joins the address fields for receipts.
func (s *SystemSettings) FullAddress() string {
	addr := s.AddressStreet
	if s.AddressNumber != "" {
		addr += ", " + s.AddressNumber
	}
	if s.AddressNeighborhood != "" {
		addr += " - " + s.AddressNeighborhood
	}
	if s.AddressCity != "" {
		addr += " - " + s.AddressCity
		if s.AddressState != "" {
			addr += "/" + s.AddressState
		}
	}
	return addr
}
