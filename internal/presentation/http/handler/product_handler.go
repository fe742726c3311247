package handler

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

const maxImportSize = 5 << 20

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:   filter.Search,
		LowStock: filter.LowStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), sess, &service.CreateProductInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		PriceCost:   req.PriceCost,
		PriceSell:   req.PriceSell,
		Observation: req.Observation,
		Grant:       grantFrom(c, req.Grant),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product. Price changes from an operator need a
// PRECO grant.
func (h *ProductHandler) Update(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), sess, &service.UpdateProductInput{
		ID:          id,
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		PriceCost:   req.PriceCost,
		PriceSell:   req.PriceSell,
		Observation: req.Observation,
		Grant:       grantFrom(c, req.Grant),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// ImportProducts reads an uploaded XLSX (form field "file") and creates one
// product per row. The first row is a header; columns are matched by name.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Envie a planilha no campo \"file\"")
		return
	}
	if fileHeader.Size > maxImportSize {
		response.BadRequest(c, "Planilha maior que 5 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	rows, err := parseProductSheet(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Importação concluída", result)
}

// import column aliases, lower-cased
var importColumns = map[string]string{
	"nome":           "name",
	"name":           "name",
	"sku":            "sku",
	"codigo":         "sku",
	"código":         "sku",
	"quantidade":     "quantity",
	"quantity":       "quantity",
	"estoque_minimo": "min_stock",
	"estoque mínimo": "min_stock",
	"min_stock":      "min_stock",
	"preco_custo":    "price_cost",
	"preço custo":    "price_cost",
	"price_cost":     "price_cost",
	"preco_venda":    "price_sell",
	"preço venda":    "price_sell",
	"price_sell":     "price_sell",
	"observacao":     "observation",
	"observação":     "observation",
	"observation":    "observation",
}

func parseProductSheet(r io.Reader) ([]service.ImportProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewFieldError("file", "Arquivo não é uma planilha XLSX válida")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewFieldError("file", "Planilha vazia")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewFieldError("file", "Não foi possível ler a planilha")
	}
	if len(rows) < 2 {
		return nil, apperror.NewFieldError("file", "A planilha não tem linhas de produto")
	}

	columns := make(map[string]int)
	for i, title := range rows[0] {
		if key, ok := importColumns[strings.ToLower(strings.TrimSpace(title))]; ok {
			columns[key] = i
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, apperror.NewFieldError("file", "Coluna \"nome\" não encontrada")
	}

	cell := func(row []string, key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(row []string, key string) float64 {
		v := strings.ReplaceAll(cell(row, key), ",", ".")
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}

	out := make([]service.ImportProductRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, service.ImportProductRow{
			Name:        cell(row, "name"),
			SKU:         cell(row, "sku"),
			Quantity:    int(number(row, "quantity")),
			MinStock:    int(number(row, "min_stock")),
			PriceCost:   number(row, "price_cost"),
			PriceSell:   number(row, "price_sell"),
			Observation: cell(row, "observation"),
		})
	}
	return out, nil
}
