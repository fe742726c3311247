package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	base
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{base{db: db}}
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.conn(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	return replaceAll(ctx, r.conn(ctx), products)
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.conn(ctx).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(products, 100).Error
}

// GetBySKU looks a product up by its exact SKU.
func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.conn(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.conn(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.conn(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.conn(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) Search(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.conn(ctx).Model(&entity.Product{})
	if params != nil {
		if term := strings.TrimSpace(params.Search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?", like, like)
		}
		if params.LowStock {
			query = query.Where("quantity <= min_stock")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params != nil {
		query = query.Scopes(Paginate(params.Pagination))
	}
	err := query.Order("name ASC").Find(&products).Error
	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.conn(ctx).
		Where("quantity <= min_stock").
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

// DecrementStockClamped runs in its own (possibly nested) transaction so a
// missing product leaves every quantity untouched. Updates are applied in id
// order to keep lock acquisition consistent across concurrent checkouts.
func (r *productRepository) DecrementStockClamped(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var missing []uuid.UUID
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			amount := decrements[id]
			if amount < 0 {
				amount = 0
			}
			result := tx.Model(&entity.Product{}).
				Where("id = ?", id).
				Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", amount, amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return errMissingRows
		}
		return nil
	})
	if errors.Is(err, errMissingRows) {
		return missing, nil
	}
	return nil, err
}

var errMissingRows = errors.New("rows not found")
