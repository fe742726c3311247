package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipts and the thermal printer.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// printed answers with the receipt even when the printer failed, so the
// till can show it on screen.
func printed(c *gin.Context, message string, receipt *entity.Receipt, err error) {
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, message, gin.H{"receipt": receipt})
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	printed(c, "Test page sent to printer", receipt, err)
}

// SaleReceipt returns the receipt of a sale as JSON.
func (h *PrinterHandler) SaleReceipt(c *gin.Context) {
	receipt, err := h.printerService.SaleReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt generated", receipt)
}

// PrintSaleReceipt prints the receipt of a sale.
func (h *PrinterHandler) PrintSaleReceipt(c *gin.Context) {
	receipt, err := h.printerService.PrintSaleReceipt(c.Request.Context(), c.Param("id"))
	printed(c, "Sale receipt printed successfully", receipt, err)
}

// WorkOrderReceipt returns the receipt of a settled OS as JSON.
func (h *PrinterHandler) WorkOrderReceipt(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	receipt, err := h.printerService.WorkOrderReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt generated", receipt)
}

// PrintWorkOrderReceipt prints the receipt of a settled OS.
func (h *PrinterHandler) PrintWorkOrderReceipt(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintWorkOrderReceipt(c.Request.Context(), id)
	printed(c, "Work order receipt printed successfully", receipt, err)
}
