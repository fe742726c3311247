package repository

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
	"gorm.io/gorm"
)

type txKey struct{}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates the unit-of-work used by checkout and settlement.
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction opens a transaction and stores it in the context. A call
// made while a transaction is already active joins it.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// base is embedded by every repository so queries pick up the ambient
// transaction when there is one.
type base struct {
	db *gorm.DB
}

func (b base) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return b.db.WithContext(ctx)
}

// Paginate applies offset pagination.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// Between restricts column to [from, to). Either bound may be nil.
func Between(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where(column+" < ?", to.UTC())
		}
		return db
	}
}

// replaceAll swaps the whole table content for items inside one transaction.
func replaceAll[T any](ctx context.Context, db *gorm.DB, items []T, children ...interface{}) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range children {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(child).Error; err != nil {
				return err
			}
		}
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&zero).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 100).Error
	})
}
