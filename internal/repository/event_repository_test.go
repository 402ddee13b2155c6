package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEventRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	capacity := 50
	proposalID := "proposal-1"
	rows := sqlmock.NewRows([]string{"id", "name", "description", "starts_at", "ends_at", "location", "capacity", "public", "society_id", "proposal_id", "created_by", "created_at"}).
		AddRow("event-1", "Tech Talk", "An evening of talks", now, now.Add(2*time.Hour), "Main Hall", capacity, true, "society-1", proposalID, "organizer-1", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs("event-1").
		WillReturnRows(rows)

	event, err := repo.GetByID(context.Background(), "event-1")
	require.NoError(t, err)
	require.Equal(t, "Tech Talk", event.Name)
	require.NotNil(t, event.Capacity)
	require.Equal(t, 50, *event.Capacity)
	require.NotNil(t, event.ProposalID)
	require.Equal(t, "proposal-1", *event.ProposalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryGetByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
