package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/models"
	"github.com/campushub/event-report-api/internal/service"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
	"github.com/campushub/event-report-api/pkg/response"
)

type reportService interface {
	Save(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*dto.SaveReportResponse, error)
	GetByEvent(ctx context.Context, actor models.RequestContext, eventID string) (*models.EventReport, error)
	Render(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*service.RenderedReport, *models.Event, error)
	Participation(ctx context.Context, actor models.RequestContext, eventID string) (models.ParticipationSummary, error)
}

type distributionService interface {
	Send(ctx context.Context, actor models.RequestContext, req dto.SendReportRequest) (*dto.SendReportResponse, error)
	ListSent(ctx context.Context, actor models.RequestContext) ([]models.SentReport, error)
	MarkViewed(ctx context.Context, id string) (*models.SentReport, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes the report engine endpoints: save, fetch, render,
// and distribution.
type ReportHandler struct {
	reports      reportService
	distribution distributionService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService, distribution distributionService) *ReportHandler {
	return &ReportHandler{reports: reports, distribution: distribution}
}

// Save godoc
// @Summary Save or update an event report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.SaveReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.reports.Save(c.Request.Context(), claims.Actor(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Get godoc
// @Summary Fetch the stored report for an event
// @Tags Reports
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{eventId} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.reports.GetByEvent(c.Request.Context(), claims.Actor(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Render godoc
// @Summary Render the report as a downloadable document
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Param payload body dto.SaveReportRequest true "Report payload"
// @Success 200 {file} binary
// @Router /reports/render [post]
func (h *ReportHandler) Render(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	rendered, _, err := h.reports.Render(c.Request.Context(), claims.Actor(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", rendered.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, rendered.MIMEType, rendered.Data)
}

// Send godoc
// @Summary Render and distribute the report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.SendReportRequest true "Send payload"
// @Success 201 {object} response.Envelope
// @Router /reports/send [post]
func (h *ReportHandler) Send(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.distribution.Send(c.Request.Context(), claims.Actor(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListSent godoc
// @Summary List the caller's sent reports
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/sent [get]
func (h *ReportHandler) ListSent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.distribution.ListSent(c.Request.Context(), claims.Actor())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// MarkViewed godoc
// @Summary Mark a sent report as viewed
// @Tags Reports
// @Produce json
// @Param id path string true "Sent report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/sent/{id}/view [post]
func (h *ReportHandler) MarkViewed(c *gin.Context) {
	record, err := h.distribution.MarkViewed(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Download godoc
// @Summary Download a sent report via signed token
// @Tags Reports
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /reports/sent/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.distribution.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, download.MIMEType, download.Data)
}
