package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevenueSource tells where a revenue entry came from.
type RevenueSource string

const (
	RevenueSourceSale      RevenueSource = "SALE"
	RevenueSourceWorkOrder RevenueSource = "WORK_ORDER"
)

// RevenueEntry is one amount of money received: a sale at its creation time
// or a finalized work order at its paid_at time.
type RevenueEntry struct {
	Source RevenueSource
	Ref    string
	At     time.Time
	Amount int64
}

// ProductTurnover is how many units of a product left through the counter.
type ProductTurnover struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int64
	Revenue      int64
}

// AnalyticsRepository defines read-only aggregation queries for reports
type AnalyticsRepository interface {
	// RevenueEntries returns entries with At in [start, end).
	RevenueEntries(ctx context.Context, start, end time.Time) ([]RevenueEntry, error)
	// StockValue is Σ quantity × price_cost over all live products.
	StockValue(ctx context.Context) (int64, error)
	CountActiveOrders(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	ExpensesTotal(ctx context.Context, start, end time.Time) (int64, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductTurnover, error)
}
