package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/event-report-api/internal/models"
)

// CostRepository reads budget line items attached to event proposals.
// Read-only: actual spend is never persisted onto these rows.
type CostRepository struct {
	db *sqlx.DB
}

// NewCostRepository constructs the repository.
func NewCostRepository(db *sqlx.DB) *CostRepository {
	return &CostRepository{db: db}
}

// ListByProposal returns all cost items for a proposal in submission order.
// An empty slice is a valid result: absence of budget is not an error.
func (r *CostRepository) ListByProposal(ctx context.Context, proposalID string) ([]models.CostItem, error) {
	const query = `SELECT id, proposal_id, name, budgeted_amount, comment, created_at
FROM event_costs WHERE proposal_id = $1 ORDER BY created_at ASC, id ASC`
	items := []models.CostItem{}
	if err := r.db.SelectContext(ctx, &items, query, proposalID); err != nil {
		return nil, fmt.Errorf("list cost items: %w", err)
	}
	return items, nil
}
