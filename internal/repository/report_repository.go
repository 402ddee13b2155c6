package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/event-report-api/internal/models"
)

// ReportRepository persists event reports. Upsert is the only write path to
// the table; nothing else may touch event_reports rows.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert creates the report row for an event or updates it in place. A single
// ON CONFLICT statement keeps the at-most-one-row-per-event invariant even
// under concurrent saves; (xmax = 0) distinguishes insert from update.
// created_by and created_at are preserved on update.
func (r *ReportRepository) Upsert(ctx context.Context, report *models.EventReport) (string, models.SaveAction, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	const query = `INSERT INTO event_reports (id, event_id, general_feedback, report_date, total_budgeted, total_actual, savings, participation, cost_breakdown, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (event_id) DO UPDATE SET
	general_feedback = EXCLUDED.general_feedback,
	report_date = EXCLUDED.report_date,
	total_budgeted = EXCLUDED.total_budgeted,
	total_actual = EXCLUDED.total_actual,
	savings = EXCLUDED.savings,
	participation = EXCLUDED.participation,
	cost_breakdown = EXCLUDED.cost_breakdown,
	updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS inserted`

	var (
		id       string
		inserted bool
	)
	row := r.db.QueryRowContext(ctx, query,
		report.ID,
		report.EventID,
		report.GeneralFeedback,
		report.ReportDate,
		report.TotalBudgeted,
		report.TotalActual,
		report.Savings,
		report.Participation,
		report.CostBreakdown,
		report.CreatedBy,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err := row.Scan(&id, &inserted); err != nil {
		return "", "", fmt.Errorf("upsert event report: %w", err)
	}

	report.ID = id
	if inserted {
		return id, models.SaveActionCreated, nil
	}
	return id, models.SaveActionUpdated, nil
}

// GetByEventID returns the stored report for an event.
func (r *ReportRepository) GetByEventID(ctx context.Context, eventID string) (*models.EventReport, error) {
	const query = `SELECT id, event_id, general_feedback, report_date, total_budgeted, total_actual, savings, participation, cost_breakdown, created_by, created_at, updated_at
FROM event_reports WHERE event_id = $1`
	var report models.EventReport
	if err := r.db.GetContext(ctx, &report, query, eventID); err != nil {
		return nil, fmt.Errorf("get event report: %w", err)
	}
	return &report, nil
}
