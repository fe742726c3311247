package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/pricing"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// SettingsService handles the setup wizard and workshop settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	gate         *AuthorizationGate
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, gate *AuthorizationGate) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		gate:         gate,
	}
}

// SetupStatus tells the client whether to show the setup wizard.
type SetupStatus struct {
	Configured   bool   `json:"configured"`
	WorkshopName string `json:"workshop_name,omitempty"`
}

func (s *SettingsService) Status(ctx context.Context) (*SetupStatus, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsConfigured() {
		return &SetupStatus{}, nil
	}
	return &SetupStatus{Configured: true, WorkshopName: settings.WorkshopName}, nil
}

// SetupInput represents the setup wizard submission
type SetupInput struct {
	WorkshopName        string
	CNPJ                string
	AddressStreet       string
	AddressNumber       string
	AddressNeighborhood string
	AddressCity         string
	AddressState        string
	AddressZip          string
	PhoneWhatsapp       string
	LogoURL             *string
	ManagerName         string
	ManagerPhoto        *string
	PIN                 string
	PINConfirm          string
	MaxDiscountSemPin   *decimal.Decimal
}

func (in *SetupInput) validate() error {
	var errs []apperror.FieldError
	required := []struct{ field, value string }{
		{"workshop_name", in.WorkshopName},
		{"cnpj", in.CNPJ},
		{"phone_whatsapp", in.PhoneWhatsapp},
		{"address_street", in.AddressStreet},
		{"address_city", in.AddressCity},
		{"address_zip", in.AddressZip},
		{"manager_name", in.ManagerName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, apperror.FieldError{Field: r.field, Message: "Campo obrigatório"})
		}
	}
	if !utils.IsValidPIN(in.PIN) {
		errs = append(errs, apperror.FieldError{Field: "pin", Message: "PIN deve ter 4 dígitos"})
	} else if in.PIN != in.PINConfirm {
		errs = append(errs, apperror.FieldError{Field: "pin_confirm", Message: "Os PINs não coincidem"})
	}
	if in.MaxDiscountSemPin != nil && in.MaxDiscountSemPin.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "max_discount_sem_pin", Message: "Não pode ser negativo"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// Setup stores the workshop profile and manager PIN. It only runs once.
func (s *SettingsService) Setup(ctx context.Context, input *SetupInput) (*entity.SystemSettings, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if existing.IsConfigured() {
		return nil, apperror.NewConflictError("A oficina já foi configurada")
	}

	hash, err := utils.HashPassword(input.PIN)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	settings := &entity.SystemSettings{
		WorkshopName:        strings.TrimSpace(input.WorkshopName),
		CNPJ:                input.CNPJ,
		AddressStreet:       input.AddressStreet,
		AddressNumber:       input.AddressNumber,
		AddressNeighborhood: input.AddressNeighborhood,
		AddressCity:         input.AddressCity,
		AddressState:        input.AddressState,
		AddressZip:          input.AddressZip,
		PhoneWhatsapp:       input.PhoneWhatsapp,
		LogoURL:             input.LogoURL,
		ManagerName:         input.ManagerName,
		ManagerPhoto:        input.ManagerPhoto,
		GestorPinHash:       hash,
		MaxDiscountSemPin:   entity.DefaultMaxDiscountSemPin,
	}
	if input.MaxDiscountSemPin != nil {
		settings.MaxDiscountSemPin = *input.MaxDiscountSemPin
	}
	if existing != nil {
		settings.CreatedAt = existing.CreatedAt
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GetSettings returns the configured settings.
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.SystemSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsConfigured() {
		return nil, apperror.ErrNotConfigured
	}
	return settings, nil
}

// UpdateSettingsInput carries the editable profile fields. Nil leaves a
// field unchanged.
type UpdateSettingsInput struct {
	WorkshopName        *string
	CNPJ                *string
	AddressStreet       *string
	AddressNumber       *string
	AddressNeighborhood *string
	AddressCity         *string
	AddressState        *string
	AddressZip          *string
	PhoneWhatsapp       *string
	LogoURL             *string
	ManagerName         *string
	ManagerPhoto        *string
	MaxDiscountSemPin   *decimal.Decimal
	InstallmentRates    map[int]decimal.Decimal
}

// UpdateSettings updates the workshop profile
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.SystemSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&settings.WorkshopName, input.WorkshopName)
	set(&settings.CNPJ, input.CNPJ)
	set(&settings.AddressStreet, input.AddressStreet)
	set(&settings.AddressNumber, input.AddressNumber)
	set(&settings.AddressNeighborhood, input.AddressNeighborhood)
	set(&settings.AddressCity, input.AddressCity)
	set(&settings.AddressState, input.AddressState)
	set(&settings.AddressZip, input.AddressZip)
	set(&settings.PhoneWhatsapp, input.PhoneWhatsapp)
	set(&settings.ManagerName, input.ManagerName)
	if input.LogoURL != nil {
		settings.LogoURL = input.LogoURL
	}
	if input.ManagerPhoto != nil {
		settings.ManagerPhoto = input.ManagerPhoto
	}
	if settings.WorkshopName == "" {
		return nil, apperror.NewFieldError("workshop_name", "Campo obrigatório")
	}

	if input.MaxDiscountSemPin != nil {
		if input.MaxDiscountSemPin.IsNegative() {
			return nil, apperror.NewFieldError("max_discount_sem_pin", "Não pode ser negativo")
		}
		settings.MaxDiscountSemPin = *input.MaxDiscountSemPin
	}
	if input.InstallmentRates != nil {
		for n, rate := range input.InstallmentRates {
			if n < pricing.MinInstallments || n > pricing.MaxInstallments || rate.IsNegative() {
				return nil, apperror.NewFieldError("installment_rates", "Parcelas de 1 a 12 com taxa não negativa")
			}
		}
		if err := settings.SetRateTable(input.InstallmentRates); err != nil {
			return nil, err
		}
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ChangePIN replaces the manager PIN after checking the current one. Wrong
// attempts count towards the terminal's lockout.
func (s *SettingsService) ChangePIN(ctx context.Context, terminal, currentPIN, newPIN, confirm string) error {
	if !utils.IsValidPIN(newPIN) {
		return apperror.NewFieldError("new_pin", "PIN deve ter 4 dígitos")
	}
	if newPIN != confirm {
		return apperror.NewFieldError("pin_confirm", "Os PINs não coincidem")
	}

	res, err := s.gate.Verify(ctx, terminal, currentPIN)
	if err != nil {
		return err
	}
	if res.Status != ChallengeAuthorized {
		return res.Err()
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPIN)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	settings.GestorPinHash = hash
	return s.settingsRepo.Save(ctx, settings)
}

// RateTable returns the installment interest table in effect.
func (s *SettingsService) RateTable(ctx context.Context) (pricing.RateTable, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return pricing.DefaultRates(), nil
	}
	configured, err := settings.RateTable()
	if err != nil {
		return nil, err
	}
	return pricing.Merge(configured), nil
}

// ReceiptHeader returns the workshop identity printed on receipts.
func (s *SettingsService) ReceiptHeader(ctx context.Context) (entity.ReceiptHeader, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entity.ReceiptHeader{}, err
	}
	if settings == nil {
		return entity.ReceiptHeader{WorkshopName: "Estoque Motto"}, nil
	}
	return entity.ReceiptHeader{
		WorkshopName: settings.WorkshopName,
		Address:      settings.FullAddress(),
		Phone:        settings.PhoneWhatsapp,
		CNPJ:         settings.CNPJ,
	}, nil
}
