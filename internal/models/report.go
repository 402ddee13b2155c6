package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaveAction reports whether an upsert created a new report row or updated
// the existing one.
type SaveAction string

const (
	SaveActionCreated SaveAction = "created"
	SaveActionUpdated SaveAction = "updated"
)

// CostBreakdown is the per-line financial detail persisted as JSONB.
type CostBreakdown []CostLine

// Value marshals the breakdown to JSON for persistence.
func (b CostBreakdown) Value() (driver.Value, error) {
	if b == nil {
		b = CostBreakdown{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal cost breakdown: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB payloads into the breakdown.
func (b *CostBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = CostBreakdown{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for CostBreakdown", value)
	}
	if len(data) == 0 {
		*b = CostBreakdown{}
		return nil
	}
	if err := json.Unmarshal(data, b); err != nil {
		return fmt.Errorf("unmarshal cost breakdown: %w", err)
	}
	return nil
}

// EventReport is the single aggregated financial and participation summary
// for one event. At most one row per event; saves after the first update the
// row in place. Totals and savings are derived, never user-edited.
type EventReport struct {
	ID              string               `db:"id" json:"id"`
	EventID         string               `db:"event_id" json:"event_id"`
	GeneralFeedback string               `db:"general_feedback" json:"general_feedback"`
	ReportDate      time.Time            `db:"report_date" json:"report_date"`
	TotalBudgeted   decimal.Decimal      `db:"total_budgeted" json:"total_budgeted"`
	TotalActual     decimal.Decimal      `db:"total_actual" json:"total_actual"`
	Savings         decimal.Decimal      `db:"savings" json:"savings"`
	Participation   ParticipationSummary `db:"participation" json:"participation_summary"`
	CostBreakdown   CostBreakdown        `db:"cost_breakdown" json:"cost_breakdown"`
	CreatedBy       string               `db:"created_by" json:"created_by"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at" json:"updated_at"`
}
