package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/event-report-api/internal/middleware"
	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

type participationReaderMock struct {
	summary models.ParticipationSummary
	err     error
}

func (m *participationReaderMock) Participation(_ context.Context, _ models.RequestContext, _ string) (models.ParticipationSummary, error) {
	if m.err != nil {
		return models.ParticipationSummary{}, m.err
	}
	return m.summary, nil
}

type checkInServiceMock struct {
	record *models.AttendanceRecord
	err    error
}

func (m *checkInServiceMock) CheckIn(_ context.Context, eventID, userID string) (*models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		m.record = &models.AttendanceRecord{ID: "att-1", EventID: eventID, UserID: userID, CheckedInAt: time.Now().UTC()}
	}
	return m.record, nil
}

func TestParticipationHandlerSummary(t *testing.T) {
	rate := 0.36
	handler := NewParticipationHandler(&participationReaderMock{summary: models.ParticipationSummary{
		RSVPInterested:    20,
		RSVPNotInterested: 5,
		AttendanceCount:   18,
		AttendanceRate:    &rate,
	}}, &checkInServiceMock{})

	c, w := newTestContext(t, http.MethodGet, "/events/evt-1/participation", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.ParticipationSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 20, envelope.Data.RSVPInterested)
	require.NotNil(t, envelope.Data.AttendanceRate)
	assert.InDelta(t, 0.36, *envelope.Data.AttendanceRate, 0.0001)
}

func TestParticipationHandlerCheckIn(t *testing.T) {
	handler := NewParticipationHandler(&participationReaderMock{}, &checkInServiceMock{})

	c, w := newTestContext(t, http.MethodPost, "/events/evt-1/check-in", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.CheckIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestParticipationHandlerCheckInDuplicate(t *testing.T) {
	handler := NewParticipationHandler(&participationReaderMock{}, &checkInServiceMock{
		err: appErrors.Clone(appErrors.ErrConflict, "already checked in to this event"),
	})

	c, w := newTestContext(t, http.MethodPost, "/events/evt-1/check-in", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.CheckIn(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestParticipationHandlerSummaryWithoutClaims(t *testing.T) {
	handler := NewParticipationHandler(&participationReaderMock{}, &checkInServiceMock{})

	c, w := newTestContext(t, http.MethodGet, "/events/evt-1/participation", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}

	handler.Summary(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
