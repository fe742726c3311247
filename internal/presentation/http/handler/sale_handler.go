package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// SaleHandler handles the till: the session cart, checkout and sale history
type SaleHandler struct {
	checkoutService *service.CheckoutService
	saleService     *service.SaleService
	days            DayParser
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(checkoutService *service.CheckoutService, saleService *service.SaleService, days DayParser) *SaleHandler {
	return &SaleHandler{checkoutService: checkoutService, saleService: saleService, days: days}
}

// GetCart returns the caller's cart
func (h *SaleHandler) GetCart(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	response.OK(c, "Cart retrieved successfully", h.checkoutService.GetCart(c.Request.Context(), sess))
}

// AddItem adds one unit of a product to the cart
func (h *SaleHandler) AddItem(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product_id")
		return
	}

	cart, err := h.checkoutService.AddItem(c.Request.Context(), sess, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item adicionado", cart)
}

// UpdateItem changes a line's quantity by a delta
func (h *SaleHandler) UpdateItem(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.checkoutService.UpdateQuantity(c.Request.Context(), sess, productID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantidade atualizada", cart)
}

// RemoveItem drops a line from the cart
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	cart, err := h.checkoutService.RemoveItem(c.Request.Context(), sess, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removido", cart)
}

// ClearCart empties the cart
func (h *SaleHandler) ClearCart(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	cart, err := h.checkoutService.Clear(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Carrinho limpo", cart)
}

func checkoutInput(c *gin.Context, req *request.CheckoutRequest) *service.CheckoutInput {
	return &service.CheckoutInput{
		Discount:      money.FromFloat(req.Discount),
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		Installments:  req.Installments,
		Grant:         grantFrom(c, req.Grant),
	}
}

// Quote prices the cart for the given payment terms without committing
func (h *SaleHandler) Quote(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), sess, checkoutInput(c, &req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote calculated", quote)
}

// Checkout commits the cart as a paid sale. A discount above the allowed
// percentage from an operator answers 403 AUTHORIZATION_REQUIRED until it
// is retried with a DESCONTO grant.
func (h *SaleHandler) Checkout(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Finish(c.Request.Context(), sess, checkoutInput(c, &req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Venda finalizada com sucesso!", result)
}

// Abandon cancels a pending authorization and keeps the cart
func (h *SaleHandler) Abandon(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	cart, err := h.checkoutService.Abandon(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Autorização cancelada", cart)
}

// List handles listing sales newest first
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	from, to, err := dayRange(h.days, filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), &repository.SaleFilterParams{
		Cursor: &pagination.CursorParams{Cursor: filter.Cursor, Limit: filter.Limit},
		From:   from,
		To:     to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales retrieved successfully", result)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}
