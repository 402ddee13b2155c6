package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RSVPStatus is the canonical interest bucket for an RSVP row.
type RSVPStatus string

const (
	RSVPInterested    RSVPStatus = "interested"
	RSVPNotInterested RSVPStatus = "not_interested"
)

// rsvpVocabulary maps every accepted raw status spelling to its canonical
// bucket. The legacy hub stored loosely-typed strings, including the
// misspelling "intrested" and bare yes/no/1/0 values; this table is the
// single place that vocabulary lives.
var rsvpVocabulary = map[string]RSVPStatus{
	"interested":     RSVPInterested,
	"intrested":      RSVPInterested,
	"yes":            RSVPInterested,
	"1":              RSVPInterested,
	"not interested": RSVPNotInterested,
	"not_interested": RSVPNotInterested,
	"not intrested":  RSVPNotInterested,
	"no":             RSVPNotInterested,
	"0":              RSVPNotInterested,
}

// ClassifyRSVP normalizes a raw status string into a canonical bucket. The
// second return is false for values outside the accepted vocabulary; those
// rows are excluded from both counts.
func ClassifyRSVP(raw string) (RSVPStatus, bool) {
	status, ok := rsvpVocabulary[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// RSVP is a user's stated interest signal for an event. At most one row per
// (event, user).
type RSVP struct {
	EventID   string    `db:"event_id" json:"event_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecord is proof of actual participation, captured via check-in at
// the event. Unique per (event, user); duplicate check-ins are rejected.
type AttendanceRecord struct {
	ID          string    `db:"id" json:"id"`
	EventID     string    `db:"event_id" json:"event_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
}

// ParticipationSummary aggregates RSVP and attendance counts for an event.
// AttendanceRate is nil (not zero) when the event has no usable capacity;
// callers must treat "unset" distinctly from "0%".
type ParticipationSummary struct {
	RSVPInterested    int      `json:"rsvp_interested"`
	RSVPNotInterested int      `json:"rsvp_not_interested"`
	AttendanceCount   int      `json:"attendance_count"`
	AttendanceRate    *float64 `json:"attendance_rate,omitempty"`
}

// Value marshals the summary to JSON for JSONB persistence.
func (p ParticipationSummary) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal participation summary: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB payloads into the summary.
func (p *ParticipationSummary) Scan(value interface{}) error {
	if value == nil {
		*p = ParticipationSummary{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ParticipationSummary", value)
	}
	if len(data) == 0 {
		*p = ParticipationSummary{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal participation summary: %w", err)
	}
	return nil
}
