package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	infraRepo "github.com/sangkips/estoque-motto-api/internal/infrastructure/repository"
	"github.com/xuri/excelize/v2"
)

var brt = time.FixedZone("BRT", -3*60*60)

func (h *harness) seedSale(t *testing.T, id string, at time.Time, total int64) {
	t.Helper()
	sale := &entity.Sale{
		ID:            id,
		Status:        enum.SaleStatusPaga,
		Subtotal:      total,
		Total:         total,
		Installments:  1,
		ActorType:     enum.AccessModeOperacional,
		PaymentMethod: enum.PaymentMethodPix,
		CreatedAt:     at.UTC(),
	}
	if err := h.sales.Create(context.Background(), sale); err != nil {
		t.Fatalf("create sale: %v", err)
	}
}

func (h *harness) reportsIn(loc *time.Location) *ReportService {
	return NewReportService(infraRepo.NewAnalyticsRepository(h.db), h.sales, h.products, h.commissions, h.expenses, h.gate, loc)
}

func TestRevenueBucketsByLocalDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reports := h.reportsIn(brt)

	// 22:30 local on the 9th is already the 10th in UTC
	h.seedSale(t, "100001", time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC), 5000)
	h.seedSale(t, "100002", time.Date(2026, 3, 11, 12, 0, 0, 0, brt), 7000)
	h.seedSale(t, "100003", time.Date(2026, 3, 12, 0, 0, 0, 0, brt), 9900) // outside range

	order, _ := h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})
	h.workOrders.AddItem(ctx, order.ID, &AddItemInput{ServiceName: "Revisão", Price: floatPtr(150)})
	h.workOrders.now = func() time.Time { return time.Date(2026, 3, 11, 18, 0, 0, 0, brt) }
	if _, err := h.workOrders.Finalize(ctx, order.ID); err != nil {
		t.Fatal(err)
	}

	start, _ := reports.ParseDay("2026-03-09")
	end, _ := reports.ParseDay("2026-03-11")
	rep, err := reports.Revenue(ctx, start, end)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]float64{"2026-03-09": 50, "2026-03-10": 0, "2026-03-11": 220}
	if len(rep.Days) != len(want) {
		t.Fatalf("days = %+v", rep.Days)
	}
	for _, d := range rep.Days {
		if d.Total != want[d.Date] {
			t.Errorf("%s = %v, want %v", d.Date, d.Total, want[d.Date])
		}
	}
	if rep.Total != 270 || rep.SalesCount != 2 || rep.OrdersCount != 1 || rep.OrdersTotal != 150 {
		t.Errorf("report = %+v", rep)
	}
}

func TestRevenueRejectsInvertedRange(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := h.reports.Revenue(context.Background(), start, start.AddDate(0, 0, -1))
	appErr(t, err, http.StatusUnprocessableEntity)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reports := h.reportsIn(brt)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, brt)
	reports.now = func() time.Time { return now }

	h.seedSale(t, "200001", now.Add(-time.Hour), 3000)
	h.seedSale(t, "200002", time.Date(2026, 3, 2, 9, 0, 0, 0, brt), 4000)
	h.seedSale(t, "200003", time.Date(2026, 2, 20, 9, 0, 0, 0, brt), 1000) // last month

	// stock value 10 × 10,00; the empty one counts as low stock
	h.seedProduct(t, "Óleo", 10, 2000)
	h.seedProduct(t, "Sem estoque", 0, 500)
	h.workOrders.CreateOrder(ctx, &CreateWorkOrderInput{CustomerName: "Ana", VehiclePlate: "ABC1D23"})

	stats, err := reports.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DayTotal != 30 || stats.MonthTotal != 70 {
		t.Errorf("day/month = %v/%v", stats.DayTotal, stats.MonthTotal)
	}
	if stats.StockValue != 100 || stats.ActiveOrders != 1 || stats.LowStockCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Last30Days) != 30 || stats.Last30Days[29].Date != "2026-03-15" {
		t.Errorf("series = %d points ending %v", len(stats.Last30Days), stats.Last30Days[len(stats.Last30Days)-1])
	}
	var seriesTotal float64
	for _, d := range stats.Last30Days {
		seriesTotal += d.Total
	}
	if seriesTotal != 80 {
		t.Errorf("series total = %v, want 80", seriesTotal)
	}
}

func TestExportRequiresGrant(t *testing.T) {
	h := newHarness(t)
	h.configure(t)
	ctx := context.Background()
	sess := manager()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := h.reports.Export(ctx, sess, &ExportInput{Kind: ReportRevenue, Start: day, End: day})
	appErr(t, err, http.StatusForbidden)

	res, err := h.gate.Challenge(ctx, sess.ID, enum.PurposeReportExport, testPIN)
	if err != nil || res.Status != ChallengeAuthorized {
		t.Fatalf("challenge: %+v, %v", res, err)
	}
	h.seedSale(t, "300001", day.Add(10*time.Hour), 12345)

	file, err := h.reports.Export(ctx, sess, &ExportInput{Kind: ReportCashClose, Start: day, End: day, Grant: res.Grant})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Filename != "FECHAMENTO_CAIXA_2026-03-10_2026-03-10.xlsx" {
		t.Errorf("filename = %q", file.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	sheets := fmt.Sprint(f.GetSheetList())
	if sheets != "[Vendas Saídas Fechamento]" {
		t.Errorf("sheets = %s", sheets)
	}
	id, _ := f.GetCellValue("Vendas", "A2")
	if id != "300001" {
		t.Errorf("first sale row = %q", id)
	}

	// the grant was spent
	_, err = h.reports.Export(ctx, sess, &ExportInput{Kind: ReportCashClose, Start: day, End: day, Grant: res.Grant})
	appErr(t, err, http.StatusForbidden)
}
