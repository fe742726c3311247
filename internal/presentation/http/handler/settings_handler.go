package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles the setup wizard and the workshop profile
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SetupStatus reports whether the first-run wizard has been completed
func (h *SettingsHandler) SetupStatus(c *gin.Context) {
	status, err := h.settingsService.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Setup status retrieved", status)
}

// Setup stores the workshop profile and manager PIN. It only succeeds once.
func (h *SettingsHandler) Setup(c *gin.Context) {
	var req request.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Setup(c.Request.Context(), &service.SetupInput{
		WorkshopName:        req.WorkshopName,
		CNPJ:                req.CNPJ,
		AddressStreet:       req.AddressStreet,
		AddressNumber:       req.AddressNumber,
		AddressNeighborhood: req.AddressNeighborhood,
		AddressCity:         req.AddressCity,
		AddressState:        req.AddressState,
		AddressZip:          req.AddressZip,
		PhoneWhatsapp:       req.PhoneWhatsapp,
		LogoURL:             req.LogoURL,
		ManagerName:         req.ManagerName,
		ManagerPhoto:        req.ManagerPhoto,
		PIN:                 req.PIN,
		PINConfirm:          req.PINConfirm,
		MaxDiscountSemPin:   req.MaxDiscountSemPin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Oficina configurada com sucesso", settings)
}

// GetSettings returns the workshop profile. The PIN hash is never exposed.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the workshop profile
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		WorkshopName:        req.WorkshopName,
		CNPJ:                req.CNPJ,
		AddressStreet:       req.AddressStreet,
		AddressNumber:       req.AddressNumber,
		AddressNeighborhood: req.AddressNeighborhood,
		AddressCity:         req.AddressCity,
		AddressState:        req.AddressState,
		AddressZip:          req.AddressZip,
		PhoneWhatsapp:       req.PhoneWhatsapp,
		LogoURL:             req.LogoURL,
		ManagerName:         req.ManagerName,
		ManagerPhoto:        req.ManagerPhoto,
		MaxDiscountSemPin:   req.MaxDiscountSemPin,
		InstallmentRates:    req.InstallmentRates,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// ChangePIN replaces the manager PIN
func (h *SettingsHandler) ChangePIN(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.ChangePIN(c.Request.Context(), sess.ID, req.CurrentPIN, req.NewPIN, req.ConfirmPIN); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "PIN alterado com sucesso", nil)
}
