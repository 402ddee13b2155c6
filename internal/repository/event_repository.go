package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/event-report-api/internal/models"
)

// EventRepository reads event rows. The report engine never mutates events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID returns an event row by its identifier.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, name, description, starts_at, ends_at, location, capacity, public, society_id, proposal_id, created_by, created_at
FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}
