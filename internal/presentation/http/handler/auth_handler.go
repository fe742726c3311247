package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/middleware"
)

// AuthHandler handles login, mode switches and PIN challenges
type AuthHandler struct {
	authService     *service.AuthService
	gate            *service.AuthorizationGate
	checkoutService *service.CheckoutService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, gate *service.AuthorizationGate, checkoutService *service.CheckoutService) *AuthHandler {
	return &AuthHandler{authService: authService, gate: gate, checkoutService: checkoutService}
}

// LoginOperational opens an operator session
// @Summary Operator login
// @Description Open an OPERACIONAL session; no PIN required
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /auth/login/operational [post]
func (h *AuthHandler) LoginOperational(c *gin.Context) {
	output, err := h.authService.LoginOperational(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Login successful", output)
}

// LoginManager opens (or elevates the caller's session to) a manager session
// @Summary Manager login
// @Description Verify the manager PIN and return a GESTOR session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.ManagerLoginRequest true "PIN"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /auth/login/manager [post]
func (h *AuthHandler) LoginManager(c *gin.Context) {
	var req request.ManagerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// unauthenticated callers are keyed by address for the lockout
	var current *session.Session
	if sess, ok := middleware.GetSession(c); ok {
		current = &sess
	}
	output, err := h.authService.LoginManager(c.Request.Context(), current, "ip:"+c.ClientIP(), req.PIN)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetSession(c, output.Session)
	response.OK(c, "Login successful", output)
}

// SwitchToOperational drops a manager session to operator mode
func (h *AuthHandler) SwitchToOperational(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.SwitchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.SwitchToOperational(c.Request.Context(), sess, grantFrom(c, req.Grant))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetSession(c, output.Session)
	response.OK(c, "Modo operacional ativado", output)
}

// Logout ends the caller's session
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}

// Me returns the caller's session
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	response.OK(c, "Session retrieved successfully", sess)
}

// Challenge verifies the manager PIN for a privileged action and returns a
// single-use grant bound to the caller's terminal. A DESCONTO grant is also
// bound to the cart waiting for authorization.
func (h *AuthHandler) Challenge(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var (
		res *service.ChallengeResult
		err error
	)
	purpose := enum.AuthorizationPurpose(req.Purpose)
	if purpose == enum.PurposeDiscount {
		res, err = h.checkoutService.AuthorizeDiscount(c.Request.Context(), sess, req.PIN)
	} else {
		res, err = h.gate.Challenge(c.Request.Context(), sess.ID, purpose, req.PIN)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.Status != service.ChallengeAuthorized {
		response.Error(c, res.Err())
		return
	}
	response.OK(c, "Autorizado", res)
}
