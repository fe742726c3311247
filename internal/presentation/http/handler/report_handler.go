package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/request"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/pagination"
)

// ReportHandler handles the dashboard, reports and cash-drawer expenses
type ReportHandler struct {
	reportService  *service.ReportService
	expenseService *service.ExpenseService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, expenseService *service.ExpenseService) *ReportHandler {
	return &ReportHandler{reportService: reportService, expenseService: expenseService}
}

// Dashboard returns today's figures and the last 30 days of revenue
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved successfully", stats)
}

func (h *ReportHandler) parseRange(start, end string) (*service.ExportInput, error) {
	first, err := h.reportService.ParseDay(start)
	if err != nil {
		return nil, apperror.NewFieldError("start", "Use o formato AAAA-MM-DD")
	}
	last, err := h.reportService.ParseDay(end)
	if err != nil {
		return nil, apperror.NewFieldError("end", "Use o formato AAAA-MM-DD")
	}
	return &service.ExportInput{Start: first, End: last}, nil
}

// Revenue totals revenue per calendar day between start and end
func (h *ReportHandler) Revenue(c *gin.Context) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "start and end are required (YYYY-MM-DD)")
		return
	}
	r, err := h.parseRange(req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.Revenue(c.Request.Context(), r.Start, r.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Revenue report retrieved successfully", report)
}

// Export streams an XLSX report. It needs a RELATORIO grant.
func (h *ReportHandler) Export(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.ExportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, err := h.parseRange(req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	input.Kind = service.ReportKind(req.Kind)
	input.Grant = grantFrom(c, req.Grant)

	file, err := h.reportService.Export(c.Request.Context(), sess, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType(), file.Content)
}

// ListExpenses lists expenses newest date first
func (h *ReportHandler) ListExpenses(c *gin.Context) {
	var filter request.ExpenseFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	from, to, err := dayRange(h.reportService, filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), &repository.ExpenseFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Category: filter.Category,
		From:     from,
		To:       to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expenses retrieved successfully", result)
}

// CreateExpense records an expense
func (h *ReportHandler) CreateExpense(c *gin.Context) {
	var req request.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	date, err := optionalDay(h.reportService, "date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), &service.CreateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Despesa registrada", expense)
}

// Withdraw records a sangria
func (h *ReportHandler) Withdraw(c *gin.Context) {
	var req request.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	expense, err := h.expenseService.Withdraw(c.Request.Context(), req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sangria registrada", expense)
}

// DeleteExpense deletes an expense
func (h *ReportHandler) DeleteExpense(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
