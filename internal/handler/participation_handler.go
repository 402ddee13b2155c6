package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
	"github.com/campushub/event-report-api/pkg/response"
)

type participationReader interface {
	Participation(ctx context.Context, actor models.RequestContext, eventID string) (models.ParticipationSummary, error)
}

type checkInService interface {
	CheckIn(ctx context.Context, eventID, userID string) (*models.AttendanceRecord, error)
}

// ParticipationHandler exposes the participation summary and check-in
// endpoints.
type ParticipationHandler struct {
	reports       participationReader
	participation checkInService
}

// NewParticipationHandler constructs the handler.
func NewParticipationHandler(reports participationReader, participation checkInService) *ParticipationHandler {
	return &ParticipationHandler{reports: reports, participation: participation}
}

// Summary godoc
// @Summary Participation summary for an event
// @Tags Participation
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/participation [get]
func (h *ParticipationHandler) Summary(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.reports.Participation(c.Request.Context(), claims.Actor(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// CheckIn godoc
// @Summary Check in to an event
// @Tags Participation
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} response.Envelope
// @Router /events/{id}/check-in [post]
func (h *ParticipationHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	record, err := h.participation.CheckIn(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CheckInResponse{EventID: record.EventID, CheckedInAt: record.CheckedInAt})
}
