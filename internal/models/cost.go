package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostItem is one budgeted expense line attached to an event proposal.
// Read-only from the report engine's perspective: actual spend is supplied by
// the organizer at report time and never written back onto the row.
type CostItem struct {
	ID         string          `db:"id" json:"id"`
	ProposalID string          `db:"proposal_id" json:"proposal_id"`
	Name       string          `db:"name" json:"name"`
	Budgeted   decimal.Decimal `db:"budgeted_amount" json:"budgeted_amount"`
	Comment    *string         `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// CostLine pairs a cost item with the actual amount spent on it. Difference
// is budgeted minus actual: positive means the line came in under budget.
type CostLine struct {
	CostItemID string          `json:"cost_item_id"`
	Name       string          `json:"cost_item"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
	Comments   string          `json:"comments,omitempty"`
}
