package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/event-report-api/internal/models"
)

// ParticipationRepository reads RSVP and attendance signals for events and
// owns the single attendance write path (check-in).
type ParticipationRepository struct {
	db *sqlx.DB
}

// NewParticipationRepository constructs the repository.
func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// rsvpStatusCount is one row of the grouped RSVP count query.
type rsvpStatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// CountRSVPByStatus returns raw status strings with their row counts.
// Classification into canonical buckets happens in the aggregator, keeping
// the legacy vocabulary handling out of SQL.
func (r *ParticipationRepository) CountRSVPByStatus(ctx context.Context, eventID string) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM event_rsvps WHERE event_id = $1 GROUP BY status`
	var rows []rsvpStatusCount
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountAttendance returns the number of distinct check-ins for an event.
func (r *ParticipationRepository) CountAttendance(ctx context.Context, eventID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT user_id) FROM event_attendance WHERE event_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, eventID); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

// InsertAttendance records a check-in. Returns false without error when the
// (event, user) pair already checked in: the unique constraint rejects the
// duplicate and the existing row is left untouched, never overwritten.
func (r *ParticipationRepository) InsertAttendance(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CheckedInAt.IsZero() {
		record.CheckedInAt = time.Now().UTC()
	}
	const query = `INSERT INTO event_attendance (id, event_id, user_id, checked_in_at)
VALUES ($1, $2, $3, $4) ON CONFLICT (event_id, user_id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, record.ID, record.EventID, record.UserID, record.CheckedInAt)
	if err != nil {
		return false, fmt.Errorf("insert attendance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert attendance rows affected: %w", err)
	}
	return affected > 0, nil
}
