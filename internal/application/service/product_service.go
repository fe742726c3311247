package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// MinSearchLength is the shortest term the product search reacts to.
const MinSearchLength = 2

// ProductService handles inventory operations
type ProductService struct {
	productRepo repository.ProductRepository
	gate        *AuthorizationGate
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, gate *AuthorizationGate) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		gate:        gate,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name        string
	SKU         *string
	Quantity    int
	MinStock    *int
	PriceCost   float64
	PriceSell   float64
	Observation *string
	Grant       string
}

func (s *ProductService) requirePriceGrant(ctx context.Context, actor session.Session, grant string) error {
	if actor.IsManager() {
		return nil
	}
	if grant == "" {
		return apperror.NewAuthorizationRequiredError(
			"Alterar preços requer PIN do Gestor.",
			map[string]interface{}{
				"purpose": enum.PurposePriceEdit,
				"title":   enum.PurposePriceEdit.Title(),
			},
		)
	}
	return s.gate.Consume(ctx, grant, enum.PurposePriceEdit, actor.ID)
}

// CreateProduct creates a new product. A non-manager setting any price
// needs a PRECO grant.
func (s *ProductService) CreateProduct(ctx context.Context, actor session.Session, input *CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Nome é obrigatório")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewFieldError("quantity", "Quantidade não pode ser negativa")
	}
	if input.PriceCost < 0 || input.PriceSell < 0 {
		return nil, apperror.NewFieldError("price_sell", "Preço não pode ser negativo")
	}

	sku, err := s.checkSKU(ctx, input.SKU, uuid.Nil)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        name,
		SKU:         sku,
		Quantity:    input.Quantity,
		MinStock:    entity.DefaultMinStock,
		PriceCost:   money.FromFloat(input.PriceCost),
		PriceSell:   money.FromFloat(input.PriceSell),
		Observation: input.Observation,
	}
	if input.MinStock != nil && *input.MinStock > 0 {
		product.MinStock = *input.MinStock
	}

	if product.PriceCost != 0 || product.PriceSell != 0 {
		if err := s.requirePriceGrant(ctx, actor, input.Grant); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// checkSKU normalizes sku and rejects one already used by another product.
func (s *ProductService) checkSKU(ctx context.Context, sku *string, self uuid.UUID) (*string, error) {
	if sku == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil, nil
	}
	existing, err := s.productRepo.GetBySKU(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != self {
		return nil, apperror.NewConflictError("SKU já cadastrado")
	}
	return &trimmed, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products. Search terms shorter than two characters are
// ignored.
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	params.Search = strings.TrimSpace(params.Search)
	if utf8.RuneCountInString(params.Search) < MinSearchLength {
		params.Search = ""
	}

	products, total, err := s.productRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID          uuid.UUID
	Name        *string
	SKU         *string
	Quantity    *int
	MinStock    *int
	PriceCost   *float64
	PriceSell   *float64
	Observation *string
	Grant       string
}

// UpdateProduct updates a product. Changing either price from a
// non-manager session spends a PRECO grant.
func (s *ProductService) UpdateProduct(ctx context.Context, actor session.Session, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Nome é obrigatório")
		}
		product.Name = name
	}
	if input.SKU != nil {
		sku, err := s.checkSKU(ctx, input.SKU, product.ID)
		if err != nil {
			return nil, err
		}
		product.SKU = sku
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperror.NewFieldError("quantity", "Quantidade não pode ser negativa")
		}
		product.Quantity = *input.Quantity
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, apperror.NewFieldError("min_stock", "Estoque mínimo não pode ser negativo")
		}
		product.MinStock = *input.MinStock
	}
	if input.Observation != nil {
		product.Observation = input.Observation
	}

	priceChanged := false
	if input.PriceCost != nil {
		if *input.PriceCost < 0 {
			return nil, apperror.NewFieldError("price_cost", "Preço não pode ser negativo")
		}
		cost := money.FromFloat(*input.PriceCost)
		priceChanged = priceChanged || cost != product.PriceCost
		product.PriceCost = cost
	}
	if input.PriceSell != nil {
		if *input.PriceSell < 0 {
			return nil, apperror.NewFieldError("price_sell", "Preço não pode ser negativo")
		}
		sell := money.FromFloat(*input.PriceSell)
		priceChanged = priceChanged || sell != product.PriceSell
		product.PriceSell = sell
	}
	if priceChanged {
		if err := s.requirePriceGrant(ctx, actor, input.Grant); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// GetLowStockProducts returns products at or below their minimum stock
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// ImportProductRow represents a single row from the import spreadsheet
type ImportProductRow struct {
	Name        string
	SKU         string
	Quantity    int
	MinStock    int
	PriceCost   float64
	PriceSell   float64
	Observation string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products parsed from a
// spreadsheet. Invalid rows are reported and skipped.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError
	seenSKUs := make(map[string]int)
	var valid []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Nome é obrigatório"})
			continue
		}
		if row.Quantity < 0 || row.PriceCost < 0 || row.PriceSell < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "quantity", Message: "Valores não podem ser negativos"})
			continue
		}

		var sku *string
		if code := strings.TrimSpace(row.SKU); code != "" {
			if prev, dup := seenSKUs[code]; dup {
				rowErrors = append(rowErrors, ImportRowError{
					Row:     rowNum,
					Field:   "sku",
					Message: fmt.Sprintf("SKU '%s' repetido (mesmo da linha %d)", code, prev),
				})
				continue
			}
			existing, err := s.productRepo.GetBySKU(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "sku", Message: fmt.Sprintf("SKU '%s' já cadastrado", code)})
				continue
			}
			seenSKUs[code] = rowNum
			sku = &code
		}

		minStock := row.MinStock
		if minStock <= 0 {
			minStock = entity.DefaultMinStock
		}
		product := entity.Product{
			ID:        uuid.New(),
			Name:      name,
			SKU:       sku,
			Quantity:  row.Quantity,
			MinStock:  minStock,
			PriceCost: money.FromFloat(row.PriceCost),
			PriceSell: money.FromFloat(row.PriceSell),
		}
		if obs := strings.TrimSpace(row.Observation); obs != "" {
			product.Observation = &obs
		}
		valid = append(valid, product)
	}

	if err := s.productRepo.CreateBatch(ctx, valid); err != nil {
		return nil, fmt.Errorf("import products: %w", err)
	}

	result.Successful = len(valid)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors
	return result, nil
}
