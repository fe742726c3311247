package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/xuri/excelize/v2"
)

// ReportKind selects which workbook Export builds.
type ReportKind string

const (
	ReportCashClose   ReportKind = "FECHAMENTO_CAIXA"
	ReportCommissions ReportKind = "COMISSOES"
	ReportStock       ReportKind = "GIRO_ESTOQUE"
	ReportRevenue     ReportKind = "FATURAMENTO"
)

func (k ReportKind) IsValid() bool {
	switch k {
	case ReportCashClose, ReportCommissions, ReportStock, ReportRevenue:
		return true
	}
	return false
}

// ExportInput represents a report export request
type ExportInput struct {
	Kind  ReportKind
	Start time.Time
	End   time.Time
	Grant string
}

// ExportFile is a generated workbook.
type ExportFile struct {
	Filename string
	Content  []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContentType is the MIME type of exported workbooks.
func (ExportFile) ContentType() string {
	return xlsxContentType
}

// Export builds an XLSX report. It spends a RELATORIO grant from the
// requesting terminal.
func (s *ReportService) Export(ctx context.Context, actor session.Session, input *ExportInput) (*ExportFile, error) {
	if !input.Kind.IsValid() {
		return nil, apperror.NewFieldError("kind", "Relatório desconhecido")
	}
	if input.Grant == "" {
		return nil, apperror.NewAuthorizationRequiredError(
			"Digite o PIN para visualizar o relatório.",
			map[string]interface{}{
				"purpose": enum.PurposeReportExport,
				"title":   enum.PurposeReportExport.Title(),
			},
		)
	}

	first := s.startOfDay(input.Start)
	last := s.startOfDay(input.End)
	if last.Before(first) {
		return nil, apperror.NewFieldError("end", "A data final deve ser igual ou posterior à inicial")
	}

	if err := s.gate.Consume(ctx, input.Grant, enum.PurposeReportExport, actor.ID); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f}
	if err := w.init(); err != nil {
		return nil, err
	}

	var err error
	switch input.Kind {
	case ReportCashClose:
		err = s.writeCashClose(ctx, w, first, last)
	case ReportCommissions:
		err = s.writeCommissions(ctx, w, first, last)
	case ReportStock:
		err = s.writeStock(ctx, w, first, last)
	case ReportRevenue:
		err = s.writeRevenue(ctx, w, first, last)
	}
	if err != nil {
		return nil, err
	}
	if err := w.finish(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &ExportFile{
		Filename: fmt.Sprintf("%s_%s_%s.xlsx", input.Kind, first.Format(dateLayout), last.Format(dateLayout)),
		Content:  buf.Bytes(),
	}, nil
}

// workbook wraps excelize with a bold header style and first-sheet tracking.
type workbook struct {
	f      *excelize.File
	header int
	sheets int
}

func (w *workbook) init() error {
	style, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	w.header = style
	return nil
}

func (w *workbook) sheet(name string, header []interface{}, rows [][]interface{}) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return err
	}
	w.sheets++
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(name, "A1", lastCol+"1", w.header); err != nil {
		return err
	}
	if err := w.f.SetColWidth(name, "A", lastCol, 20); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// finish drops the default sheet once real sheets exist.
func (w *workbook) finish() error {
	if w.sheets == 0 {
		return nil
	}
	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	w.f.SetActiveSheet(0)
	return nil
}

func (s *ReportService) writeRevenue(ctx context.Context, w *workbook, first, last time.Time) error {
	report, err := s.Revenue(ctx, first, last)
	if err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(report.Days)+1)
	for _, d := range report.Days {
		rows = append(rows, []interface{}{d.Date, d.Total})
	}
	rows = append(rows, []interface{}{"TOTAL", report.Total})
	if err := w.sheet("Faturamento", []interface{}{"Data", "Total (R$)"}, rows); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Vendas PDV", report.SalesCount, report.SalesTotal},
		{"OS finalizadas", report.OrdersCount, report.OrdersTotal},
	}
	return w.sheet("Resumo", []interface{}{"Origem", "Quantidade", "Total (R$)"}, summary)
}

func (s *ReportService) writeCashClose(ctx context.Context, w *workbook, first, last time.Time) error {
	from, to := first, last.AddDate(0, 0, 1)

	sales, err := s.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		return err
	}
	saleRows := make([][]interface{}, 0, len(sales))
	for _, sale := range sales {
		saleRows = append(saleRows, []interface{}{
			sale.ID,
			sale.CreatedAt.In(s.loc).Format("02/01/2006 15:04"),
			sale.PaymentMethod.Label(),
			sale.Installments,
			money.ToFloat(sale.Subtotal),
			money.ToFloat(sale.DiscountValue),
			money.ToFloat(sale.InterestValue),
			money.ToFloat(sale.Total),
			sale.ActorType.String(),
		})
	}
	if err := w.sheet("Vendas", []interface{}{"Venda", "Data", "Pagamento", "Parcelas", "Subtotal", "Desconto", "Juros", "Total", "Operador"}, saleRows); err != nil {
		return err
	}

	expenses, _, err := s.expenseRepo.Search(ctx, &repository.ExpenseFilterParams{From: &from, To: &to})
	if err != nil {
		return err
	}
	expenseRows := make([][]interface{}, 0, len(expenses))
	var expenseTotal int64
	for _, e := range expenses {
		expenseTotal += e.Amount
		expenseRows = append(expenseRows, []interface{}{
			e.Date.In(s.loc).Format("02/01/2006"),
			e.Description,
			e.Category,
			money.ToFloat(e.Amount),
		})
	}
	if err := w.sheet("Saídas", []interface{}{"Data", "Descrição", "Categoria", "Valor"}, expenseRows); err != nil {
		return err
	}

	b, err := s.collect(ctx, from, to)
	if err != nil {
		return err
	}
	balance := [][]interface{}{
		{"Entradas (vendas)", money.ToFloat(b.salesTotal)},
		{"Entradas (OS)", money.ToFloat(b.ordersTotal)},
		{"Saídas", money.ToFloat(expenseTotal)},
		{"Saldo", money.ToFloat(b.total - expenseTotal)},
	}
	return w.sheet("Fechamento", []interface{}{"Item", "Valor (R$)"}, balance)
}

func (s *ReportService) writeCommissions(ctx context.Context, w *workbook, first, last time.Time) error {
	from, to := first, last.AddDate(0, 0, 1)
	summary, err := s.commissionRepo.SummaryByEmployee(ctx, &from, &to)
	if err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(summary))
	for _, row := range summary {
		rows = append(rows, []interface{}{row.EmployeeName, row.Count, money.ToFloat(row.Total)})
	}
	return w.sheet("Comissões", []interface{}{"Funcionário", "Serviços", "A pagar (R$)"}, rows)
}

func (s *ReportService) writeStock(ctx context.Context, w *workbook, first, last time.Time) error {
	top, err := s.analyticsRepo.TopProducts(ctx, first, last.AddDate(0, 0, 1), topProductLimit)
	if err != nil {
		return err
	}
	turnover := make([][]interface{}, 0, len(top))
	for _, p := range top {
		turnover = append(turnover, []interface{}{p.ProductName, p.QuantitySold, money.ToFloat(p.Revenue)})
	}
	if err := w.sheet("Giro", []interface{}{"Produto", "Qtd. vendida", "Faturamento (R$)"}, turnover); err != nil {
		return err
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		sku := ""
		if p.SKU != nil {
			sku = *p.SKU
		}
		rows = append(rows, []interface{}{
			p.Name, sku, p.Quantity, p.MinStock,
			money.ToFloat(p.PriceCost), money.ToFloat(p.PriceSell), money.ToFloat(p.StockValue()),
		})
	}
	return w.sheet("Estoque", []interface{}{"Produto", "SKU", "Qtd.", "Mínimo", "Custo", "Venda", "Valor em estoque"}, rows)
}
