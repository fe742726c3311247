package request

// CreateProductRequest represents a product creation request. Prices are in
// reais.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	SKU         *string `json:"sku" binding:"omitempty,max=100"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	MinStock    *int    `json:"min_stock" binding:"omitempty,min=0"`
	PriceCost   float64 `json:"price_cost" binding:"min=0"`
	PriceSell   float64 `json:"price_sell" binding:"min=0"`
	Observation *string `json:"observation"`
	Grant       string  `json:"grant"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	SKU         *string  `json:"sku" binding:"omitempty,max=100"`
	Quantity    *int     `json:"quantity" binding:"omitempty,min=0"`
	MinStock    *int     `json:"min_stock" binding:"omitempty,min=0"`
	PriceCost   *float64 `json:"price_cost" binding:"omitempty,min=0"`
	PriceSell   *float64 `json:"price_sell" binding:"omitempty,min=0"`
	Observation *string  `json:"observation"`
	Grant       string   `json:"grant"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
