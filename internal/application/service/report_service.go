package service

import (
	"context"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
)

const (
	dateLayout      = "2006-01-02"
	dashboardDays   = 30
	maxReportDays   = 366
	topProductLimit = 20
)

// ReportService aggregates revenue and inventory figures. Days are calendar
// days in the workshop's timezone.
type ReportService struct {
	analyticsRepo  repository.AnalyticsRepository
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	commissionRepo repository.CommissionRepository
	expenseRepo    repository.ExpenseRepository
	gate           *AuthorizationGate
	loc            *time.Location
	now            func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	analyticsRepo repository.AnalyticsRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	commissionRepo repository.CommissionRepository,
	expenseRepo repository.ExpenseRepository,
	gate *AuthorizationGate,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		analyticsRepo:  analyticsRepo,
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		commissionRepo: commissionRepo,
		expenseRepo:    expenseRepo,
		gate:           gate,
		loc:            loc,
		now:            time.Now,
	}
}

// DailyRevenue is one point of a revenue series
type DailyRevenue struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// RevenueReport represents revenue over an inclusive day range
type RevenueReport struct {
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Total       float64        `json:"total"`
	SalesTotal  float64        `json:"sales_total"`
	OrdersTotal float64        `json:"orders_total"`
	SalesCount  int            `json:"sales_count"`
	OrdersCount int            `json:"orders_count"`
	Days        []DailyRevenue `json:"days"`
}

// DashboardStats represents the manager's home screen
type DashboardStats struct {
	DayTotal      float64        `json:"day_total"`
	MonthTotal    float64        `json:"month_total"`
	MonthExpenses float64        `json:"month_expenses"`
	StockValue    float64        `json:"stock_value"`
	ActiveOrders  int64          `json:"active_orders"`
	LowStockCount int64          `json:"low_stock_count"`
	Last30Days    []DailyRevenue `json:"last_30_days"`
}

func (s *ReportService) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// ParseDay reads a YYYY-MM-DD date in the workshop timezone.
func (s *ReportService) ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, s.loc)
}

type revenueBuckets struct {
	byDay       map[string]int64
	total       int64
	salesTotal  int64
	ordersTotal int64
	salesCount  int
	ordersCount int
}

// collect sums revenue entries in [from, to) by local calendar day.
func (s *ReportService) collect(ctx context.Context, from, to time.Time) (*revenueBuckets, error) {
	entries, err := s.analyticsRepo.RevenueEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	b := &revenueBuckets{byDay: make(map[string]int64)}
	for _, e := range entries {
		b.byDay[e.At.In(s.loc).Format(dateLayout)] += e.Amount
		b.total += e.Amount
		switch e.Source {
		case repository.RevenueSourceSale:
			b.salesTotal += e.Amount
			b.salesCount++
		case repository.RevenueSourceWorkOrder:
			b.ordersTotal += e.Amount
			b.ordersCount++
		}
	}
	return b, nil
}

// series returns one zero-filled point per day from first to last inclusive.
func (s *ReportService) series(b *revenueBuckets, first, last time.Time) []DailyRevenue {
	var out []DailyRevenue
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		out = append(out, DailyRevenue{
			Date:  key,
			Label: d.Format("02/01"),
			Total: money.ToFloat(b.byDay[key]),
		})
	}
	return out
}

// Revenue totals sales and finalized work orders between two calendar days,
// both inclusive.
func (s *ReportService) Revenue(ctx context.Context, start, end time.Time) (*RevenueReport, error) {
	first := s.startOfDay(start)
	last := s.startOfDay(end)
	if last.Before(first) {
		return nil, apperror.NewFieldError("end", "A data final deve ser igual ou posterior à inicial")
	}
	if last.Sub(first) > maxReportDays*24*time.Hour {
		return nil, apperror.NewFieldError("end", "Período máximo de 366 dias")
	}

	b, err := s.collect(ctx, first, last.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &RevenueReport{
		Start:       first.Format(dateLayout),
		End:         last.Format(dateLayout),
		Total:       money.ToFloat(b.total),
		SalesTotal:  money.ToFloat(b.salesTotal),
		OrdersTotal: money.ToFloat(b.ordersTotal),
		SalesCount:  b.salesCount,
		OrdersCount: b.ordersCount,
		Days:        s.series(b, first, last),
	}, nil
}

// Dashboard returns today's and this month's revenue, stock value, active
// orders, low-stock count and the last 30 days of revenue.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	today := s.startOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)
	seriesStart := today.AddDate(0, 0, -(dashboardDays - 1))

	from := seriesStart
	if monthStart.Before(from) {
		from = monthStart
	}
	b, err := s.collect(ctx, from, tomorrow)
	if err != nil {
		return nil, err
	}

	var monthTotal int64
	for d := monthStart; d.Before(tomorrow); d = d.AddDate(0, 0, 1) {
		monthTotal += b.byDay[d.Format(dateLayout)]
	}

	stockValue, err := s.analyticsRepo.StockValue(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.analyticsRepo.CountActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.analyticsRepo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.analyticsRepo.ExpensesTotal(ctx, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		DayTotal:      money.ToFloat(b.byDay[today.Format(dateLayout)]),
		MonthTotal:    money.ToFloat(monthTotal),
		MonthExpenses: money.ToFloat(expenses),
		StockValue:    money.ToFloat(stockValue),
		ActiveOrders:  active,
		LowStockCount: lowStock,
		Last30Days:    s.series(b, seriesStart, today),
	}, nil
}

// StockValue is Σ quantity × cost price over all products, in reais.
func (s *ReportService) StockValue(ctx context.Context) (float64, error) {
	v, err := s.analyticsRepo.StockValue(ctx)
	return money.ToFloat(v), err
}

// ActiveOrders counts orders that are neither finalized nor cancelled.
func (s *ReportService) ActiveOrders(ctx context.Context) (int64, error) {
	return s.analyticsRepo.CountActiveOrders(ctx)
}
