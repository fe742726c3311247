package request

// AddCartItemRequest adds one unit of a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// UpdateCartItemRequest moves a cart line's quantity by Delta. The
// quantity never drops below one.
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CheckoutRequest carries the payment terms chosen at the till. Discount
// is in reais.
type CheckoutRequest struct {
	Discount      float64 `json:"discount" binding:"min=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Installments  int     `json:"installments" binding:"omitempty,min=1,max=12"`
	Grant         string  `json:"grant"`
}

// SaleFilterRequest represents sale listing parameters
type SaleFilterRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
	From   string `form:"from"`
	To     string `form:"to"`
}
