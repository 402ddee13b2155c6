package models

import "time"

// SentReportStatus tracks the one-way sent → viewed transition of a
// distributed report.
type SentReportStatus string

const (
	SentReportStatusSent   SentReportStatus = "sent"
	SentReportStatusViewed SentReportStatus = "viewed"
)

// SentReport is a distribution receipt: a snapshot of the event identity, a
// handle to the rendered artifact, and whether the recipient has opened it.
// ViewedAt is stamped only on the first transition to viewed.
type SentReport struct {
	ID        string           `db:"id" json:"id"`
	EventName string           `db:"event_name" json:"event_name"`
	EventDate time.Time        `db:"event_date" json:"event_date"`
	FilePath  string           `db:"file_path" json:"file_path"`
	Message   *string          `db:"message" json:"message,omitempty"`
	SentBy    string           `db:"sent_by" json:"sent_by"`
	Status    SentReportStatus `db:"status" json:"status"`
	SentAt    time.Time        `db:"sent_at" json:"sent_at"`
	ViewedAt  *time.Time       `db:"viewed_at" json:"viewed_at,omitempty"`
}
