package request

import "github.com/shopspring/decimal"

// ManagerLoginRequest represents a manager (GESTOR) login
type ManagerLoginRequest struct {
	PIN string `json:"pin"`
}

// SwitchModeRequest returns a manager session to operator mode. Grant must
// come from a MODO_OPERACIONAL challenge.
type SwitchModeRequest struct {
	Grant string `json:"grant"`
}

// ChallengeRequest asks for a one-shot grant for a privileged action
type ChallengeRequest struct {
	Purpose string `json:"purpose" binding:"required"`
	PIN     string `json:"pin"`
}

// SetupRequest is the first-run wizard submission
type SetupRequest struct {
	WorkshopName        string           `json:"workshop_name"`
	CNPJ                string           `json:"cnpj"`
	AddressStreet       string           `json:"address_street"`
	AddressNumber       string           `json:"address_number"`
	AddressNeighborhood string           `json:"address_neighborhood"`
	AddressCity         string           `json:"address_city"`
	AddressState        string           `json:"address_state"`
	AddressZip          string           `json:"address_zip"`
	PhoneWhatsapp       string           `json:"phone_whatsapp"`
	LogoURL             *string          `json:"logo_url"`
	ManagerName         string           `json:"manager_name"`
	ManagerPhoto        *string          `json:"manager_photo"`
	PIN                 string           `json:"pin"`
	PINConfirm          string           `json:"pin_confirm"`
	MaxDiscountSemPin   *decimal.Decimal `json:"max_discount_sem_pin"`
}

// UpdateSettingsRequest represents a workshop profile update. Omitted fields
// are left as they are.
type UpdateSettingsRequest struct {
	WorkshopName        *string                 `json:"workshop_name"`
	CNPJ                *string                 `json:"cnpj"`
	AddressStreet       *string                 `json:"address_street"`
	AddressNumber       *string                 `json:"address_number"`
	AddressNeighborhood *string                 `json:"address_neighborhood"`
	AddressCity         *string                 `json:"address_city"`
	AddressState        *string                 `json:"address_state"`
	AddressZip          *string                 `json:"address_zip"`
	PhoneWhatsapp       *string                 `json:"phone_whatsapp"`
	LogoURL             *string                 `json:"logo_url"`
	ManagerName         *string                 `json:"manager_name"`
	ManagerPhoto        *string                 `json:"manager_photo"`
	MaxDiscountSemPin   *decimal.Decimal        `json:"max_discount_sem_pin"`
	InstallmentRates    map[int]decimal.Decimal `json:"installment_rates"`
}

// ChangePINRequest represents a manager PIN change
type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
	ConfirmPIN string `json:"confirm_pin" binding:"required"`
}
