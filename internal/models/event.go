package models

import "time"

// Event is a society event as stored in the events table. Events may link
// back to the proposal (legacy "upload") they were created from, which is
// where the budget line items live.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	Location    string    `db:"location" json:"location"`
	Capacity    *int      `db:"capacity" json:"capacity,omitempty"`
	Public      bool      `db:"public" json:"public"`
	SocietyID   string    `db:"society_id" json:"society_id"`
	ProposalID  *string   `db:"proposal_id" json:"proposal_id,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
