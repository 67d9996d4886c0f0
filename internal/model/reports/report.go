package reports

import "github.com/shopspring/decimal"

// Periods a report can cover. The empty period means all time.
var Periods = []string{"", "week", "month", "year"}

// ReportRequest travels over the reports topic as JSON.
type ReportRequest struct {
	RequestID string `json:"requestId"`
	UserID    int64  `json:"userId"`
	Period    string `json:"period"`
}

type ReportRecord struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ReportResult is a user's personal summary over a period, spend grouped
// by category.
type ReportResult struct {
	UserID       int64           `json:"userId"`
	Period       string          `json:"period"`
	Records      []ReportRecord  `json:"records"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	TotalEarning decimal.Decimal `json:"totalEarning"`
	TotalSaving  decimal.Decimal `json:"totalSaving"`
}
