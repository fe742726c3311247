package request

// CreateExpenseRequest records an expense. Date is YYYY-MM-DD and defaults
// to today.
type CreateExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// WithdrawRequest records a sangria
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// ExpenseFilterRequest represents expense listing parameters
type ExpenseFilterRequest struct {
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// DateRangeRequest selects calendar days, both ends inclusive
type DateRangeRequest struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// ExportReportRequest asks for an XLSX report. The grant comes from a
// RELATORIO challenge.
type ExportReportRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Grant string `json:"grant"`
}
