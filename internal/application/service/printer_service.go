package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/sangkips/estoque-motto-api/pkg/printer"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
)

const receiptDateLayout = "02/01/2006 15:04"

// PrinterService composes receipts and sends them to the thermal printer.
type PrinterService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	orderRepo   repository.WorkOrderRepository
	settings    *SettingsService
	printerType string
	paperWidth  int
	withQR      bool
	loc         *time.Location
}

// PrinterOptions carries the printer settings from configuration.
type PrinterOptions struct {
	Type       string
	PaperWidth int
	ReceiptQR  bool
	Location   *time.Location
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	orderRepo repository.WorkOrderRepository,
	settings *SettingsService,
	opts PrinterOptions,
) *PrinterService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &PrinterService{
		printer:     p,
		saleRepo:    saleRepo,
		orderRepo:   orderRepo,
		settings:    settings,
		printerType: opts.Type,
		paperWidth:  opts.PaperWidth,
		withQR:      opts.ReceiptQR,
		loc:         opts.Location,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool `json:"configured"`
	PaperWidth int  `json:"paper_width"`
	printer.Status
}

// GetStatus checks whether the printer is reachable and reports the last job.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		PaperWidth: s.paperWidth,
		Status:     s.printer.Status(ctx),
	}
}

// SaleReceipt builds the receipt for a counter sale without printing it.
func (s *PrinterService) SaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	header, err := s.settings.ReceiptHeader(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:       header,
		Title:        "CUPOM NÃO FISCAL",
		Number:       sale.ID,
		Date:         sale.CreatedAt.In(s.loc).Format(receiptDateLayout),
		Operator:     sale.ActorType.String(),
		PaymentType:  sale.PaymentMethod.Label(),
		Installments: sale.Installments,
		Subtotal:     sale.Subtotal,
		Discount:     sale.DiscountValue,
		Interest:     sale.InterestValue,
		Total:        sale.Total,
	}
	if sale.PaymentMethod != enum.PaymentMethodCredito {
		receipt.Installments = 0
	}
	for _, item := range sale.Items {
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Subtotal,
		})
	}
	if s.withQR {
		receipt.VerificationCode = utils.GenerateVerificationCode("VENDA-" + sale.ID)
	}
	return receipt, nil
}

// WorkOrderReceipt builds the receipt for a settled work order.
func (s *PrinterService) WorkOrderReceipt(ctx context.Context, orderID int64) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Work order")
	}
	if order.Status != enum.WorkOrderStatusFinalizada || order.PaidAt == nil {
		return nil, apperror.NewConflictError("A OS ainda não foi finalizada.")
	}
	header, err := s.settings.ReceiptHeader(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:   header,
		Title:    "ORDEM DE SERVIÇO",
		Number:   fmt.Sprintf("%d", order.ID),
		Date:     order.PaidAt.In(s.loc).Format(receiptDateLayout),
		Customer: order.CustomerName,
		Vehicle:  fmt.Sprintf("%s %s", order.VehicleModel, order.VehiclePlate),
		Subtotal: order.TotalAmount,
		Total:    order.TotalAmount,
	}
	for _, item := range order.Items {
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			Name:      item.ServiceName,
			Quantity:  1,
			UnitPrice: item.Price,
			Total:     item.Price,
		})
	}
	if s.withQR {
		receipt.VerificationCode = utils.GenerateVerificationCode(fmt.Sprintf("OS-%d", order.ID))
	}
	return receipt, nil
}

// PrintSaleReceipt prints a sale receipt. The receipt is returned even when
// the printer fails so the client can fall back to its own rendering.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	receipt, err := s.SaleReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return receipt, s.send(ctx, receipt)
}

// PrintWorkOrderReceipt prints the receipt of a settled work order.
func (s *PrinterService) PrintWorkOrderReceipt(ctx context.Context, orderID int64) (*entity.Receipt, error) {
	receipt, err := s.WorkOrderReceipt(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return receipt, s.send(ctx, receipt)
}

// TestPrint sends a sample page using the configured workshop header.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	header, err := s.settings.ReceiptHeader(ctx)
	if err != nil {
		return nil, err
	}
	receipt := &entity.Receipt{
		Header: header,
		Title:  "TESTE DE IMPRESSÃO",
		Number: "000000",
		Date:   time.Now().In(s.loc).Format(receiptDateLayout),
		Lines: []entity.ReceiptLine{
			{Name: "Item de teste", Quantity: 1, UnitPrice: 1000, Total: 1000},
		},
		Subtotal: 1000,
		Total:    1000,
	}
	return receipt, s.send(ctx, receipt)
}

func (s *PrinterService) send(ctx context.Context, receipt *entity.Receipt) error {
	data, err := FormatReceipt(receipt, s.paperWidth)
	if err != nil {
		return err
	}
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, printer.ErrNotConfigured) {
			return apperror.NewConflictError("Nenhuma impressora configurada")
		}
		log.Printf("Printer error (receipt %s): %v", receipt.Number, err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) ([]byte, error) {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.WorkshopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.CNPJ != "" {
		doc.TextF("CNPJ: %s", r.Header.CNPJ)
	}

	doc.Separator('-').
		SetBold(true).
		Text(r.Title).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Nº:", r.Number).
		KeyValue("Data:", r.Date)
	if r.Operator != "" {
		doc.KeyValue("Operador:", r.Operator)
	}
	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}
	if r.Vehicle != "" {
		doc.KeyValue("Veículo:", r.Vehicle)
	}

	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Name, money.Format(line.Total))
		if line.Quantity > 1 {
			doc.TextF("  %d x %s", line.Quantity, money.Format(line.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money.Format(r.Subtotal))
	if r.Discount > 0 {
		doc.KeyValue("Desconto:", "-"+money.Format(r.Discount))
	}
	if r.Interest > 0 {
		doc.KeyValue("Juros:", money.Format(r.Interest))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money.Format(r.Total)).
		SetBold(false)

	if r.PaymentType != "" {
		payment := r.PaymentType
		if r.Installments > 1 {
			payment = fmt.Sprintf("%s %dx", payment, r.Installments)
		}
		doc.KeyValue("Pagamento:", payment)
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter)

	if r.VerificationCode != "" {
		if err := doc.QRCode(r.VerificationCode, 4); err != nil {
			return nil, err
		}
		doc.TextF("Código: %s", r.VerificationCode)
	}

	doc.LineFeed().
		Text("Obrigado pela preferência!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes(), nil
}
