package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/event-report-api/internal/models"
)

// SentReportRepository persists distribution receipts. MarkViewed is the only
// mutation after insert; the sent → viewed transition is one-way.
type SentReportRepository struct {
	db *sqlx.DB
}

// NewSentReportRepository constructs the repository.
func NewSentReportRepository(db *sqlx.DB) *SentReportRepository {
	return &SentReportRepository{db: db}
}

// Insert writes a new distribution record with generated defaults.
func (r *SentReportRepository) Insert(ctx context.Context, record *models.SentReport) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = models.SentReportStatusSent
	}
	if record.SentAt.IsZero() {
		record.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO sent_reports (id, event_name, event_date, file_path, message, sent_by, status, sent_at, viewed_at)
VALUES (:id, :event_name, :event_date, :file_path, :message, :sent_by, :status, :sent_at, :viewed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert sent report: %w", err)
	}
	return nil
}

// GetByID returns a distribution record by its identifier.
func (r *SentReportRepository) GetByID(ctx context.Context, id string) (*models.SentReport, error) {
	const query = `SELECT id, event_name, event_date, file_path, message, sent_by, status, sent_at, viewed_at
FROM sent_reports WHERE id = $1`
	var record models.SentReport
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, fmt.Errorf("get sent report: %w", err)
	}
	return &record, nil
}

// ListBySender returns the distribution records created by a user, newest
// first.
func (r *SentReportRepository) ListBySender(ctx context.Context, senderID string) ([]models.SentReport, error) {
	const query = `SELECT id, event_name, event_date, file_path, message, sent_by, status, sent_at, viewed_at
FROM sent_reports WHERE sent_by = $1 ORDER BY sent_at DESC`
	records := []models.SentReport{}
	if err := r.db.SelectContext(ctx, &records, query, senderID); err != nil {
		return nil, fmt.Errorf("list sent reports: %w", err)
	}
	return records, nil
}

// MarkViewed transitions a record from sent to viewed and stamps viewed_at.
// The status guard makes the transition monotonic: a second call matches no
// rows and the original viewed_at survives. Returns whether a row changed.
func (r *SentReportRepository) MarkViewed(ctx context.Context, id string, viewedAt time.Time) (bool, error) {
	const query = `UPDATE sent_reports SET status = $1, viewed_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, models.SentReportStatusViewed, viewedAt, id, models.SentReportStatusSent)
	if err != nil {
		return false, fmt.Errorf("mark sent report viewed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark viewed rows affected: %w", err)
	}
	return affected > 0, nil
}
