package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/campushub/event-report-api/internal/models"
)

// SaveReportRequest is the payload for saving or rendering an event report.
// ActualSpending maps cost item IDs to the amount spent; values are accepted
// as JSON numbers or strings to match the legacy form submissions.
type SaveReportRequest struct {
	EventID         string                 `json:"event_id" validate:"required"`
	GeneralFeedback string                 `json:"general_feedback"`
	ReportDate      string                 `json:"report_date" validate:"omitempty,datetime=2006-01-02"`
	ActualSpending  map[string]interface{} `json:"actual_spending"`
}

// FinancialSummary carries the derived report totals.
type FinancialSummary struct {
	TotalBudgeted decimal.Decimal `json:"total_budgeted"`
	TotalActual   decimal.Decimal `json:"total_actual"`
	Savings       decimal.Decimal `json:"savings"`
}

// SaveReportResponse is returned after an upsert.
type SaveReportResponse struct {
	ReportID             string                      `json:"report_id"`
	Action               models.SaveAction           `json:"action"`
	FinancialSummary     FinancialSummary            `json:"financial_summary"`
	ParticipationSummary models.ParticipationSummary `json:"participation_summary"`
}

// SendReportRequest distributes a freshly rendered report.
type SendReportRequest struct {
	SaveReportRequest
	Message *string `json:"message"`
}

// SendReportResponse acknowledges a distribution.
type SendReportResponse struct {
	ReportID    string    `json:"report_id"`
	SentAt      time.Time `json:"sent_at"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CheckInResponse acknowledges an attendance check-in.
type CheckInResponse struct {
	EventID     string    `json:"event_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}
