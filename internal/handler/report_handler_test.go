package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/middleware"
	"github.com/campushub/event-report-api/internal/models"
	"github.com/campushub/event-report-api/internal/service"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

type reportServiceMock struct {
	saveResp   *dto.SaveReportResponse
	saveErr    error
	getResp    *models.EventReport
	getErr     error
	renderResp *service.RenderedReport
	renderErr  error
	summary    models.ParticipationSummary
	summaryErr error
}

func (m *reportServiceMock) Save(_ context.Context, _ models.RequestContext, _ dto.SaveReportRequest) (*dto.SaveReportResponse, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saveResp, nil
}

func (m *reportServiceMock) GetByEvent(_ context.Context, _ models.RequestContext, _ string) (*models.EventReport, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *reportServiceMock) Render(_ context.Context, _ models.RequestContext, _ dto.SaveReportRequest) (*service.RenderedReport, *models.Event, error) {
	if m.renderErr != nil {
		return nil, nil, m.renderErr
	}
	return m.renderResp, &models.Event{ID: "evt-1", Name: "Tech Talk"}, nil
}

func (m *reportServiceMock) Participation(_ context.Context, _ models.RequestContext, _ string) (models.ParticipationSummary, error) {
	if m.summaryErr != nil {
		return models.ParticipationSummary{}, m.summaryErr
	}
	return m.summary, nil
}

type distributionServiceMock struct {
	sendResp    *dto.SendReportResponse
	sendErr     error
	listResp    []models.SentReport
	viewResp    *models.SentReport
	viewErr     error
	download    *service.ReportDownload
	downloadErr error
}

func (m *distributionServiceMock) Send(_ context.Context, _ models.RequestContext, _ dto.SendReportRequest) (*dto.SendReportResponse, error) {
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return m.sendResp, nil
}

func (m *distributionServiceMock) ListSent(_ context.Context, _ models.RequestContext) ([]models.SentReport, error) {
	return m.listResp, nil
}

func (m *distributionServiceMock) MarkViewed(_ context.Context, _ string) (*models.SentReport, error) {
	if m.viewErr != nil {
		return nil, m.viewErr
	}
	return m.viewResp, nil
}

func (m *distributionServiceMock) ResolveDownload(_ context.Context, _ string) (*service.ReportDownload, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.download, nil
}

func organizerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "org-1", Role: models.RoleOrganizer, FullName: "Asha Verma"}
}

func newTestContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerSave(t *testing.T) {
	rate := 0.36
	handler := NewReportHandler(&reportServiceMock{saveResp: &dto.SaveReportResponse{
		ReportID:             "rep-1",
		Action:               models.SaveActionCreated,
		ParticipationSummary: models.ParticipationSummary{RSVPInterested: 20, RSVPNotInterested: 5, AttendanceCount: 18, AttendanceRate: &rate},
	}}, &distributionServiceMock{})

	c, w := newTestContext(t, http.MethodPost, "/reports", dto.SaveReportRequest{EventID: "evt-1", GeneralFeedback: "Great turnout."})
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Save(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    dto.SaveReportResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "rep-1", envelope.Data.ReportID)
	assert.Equal(t, models.SaveActionCreated, envelope.Data.Action)
}

func TestReportHandlerSaveInvalidBody(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &distributionServiceMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/reports", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Save(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerSaveWithoutClaims(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &distributionServiceMock{})

	c, w := newTestContext(t, http.MethodPost, "/reports", dto.SaveReportRequest{EventID: "evt-1"})

	handler.Save(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerSaveForbidden(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{saveErr: appErrors.Clone(appErrors.ErrForbidden, "you do not have access to this event")}, &distributionServiceMock{})

	c, w := newTestContext(t, http.MethodPost, "/reports", dto.SaveReportRequest{EventID: "evt-1", GeneralFeedback: "x"})
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Save(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "you do not have access to this event", envelope.Error.Message)
}

func TestReportHandlerGetNotFound(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "no report saved for this event")}, &distributionServiceMock{})

	c, w := newTestContext(t, http.MethodGet, "/reports/evt-1", nil)
	c.Params = gin.Params{{Key: "eventId", Value: "evt-1"}}
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerRenderAttachment(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{renderResp: &service.RenderedReport{
		Data:     []byte("%PDF-1.4 fake"),
		MIMEType: "application/pdf",
		Filename: "Event_Report_Tech_Talk_2024-03-01.pdf",
	}}, &distributionServiceMock{})

	c, w := newTestContext(t, http.MethodPost, "/reports/render", dto.SaveReportRequest{EventID: "evt-1", GeneralFeedback: "x"})
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Render(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Event_Report_Tech_Talk_2024-03-01.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
}

func TestReportHandlerSend(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &distributionServiceMock{sendResp: &dto.SendReportResponse{
		ReportID:    "sent-1",
		SentAt:      time.Now().UTC(),
		DownloadURL: "/api/v1/reports/sent/download/token",
	}})

	c, w := newTestContext(t, http.MethodPost, "/reports/send", dto.SendReportRequest{
		SaveReportRequest: dto.SaveReportRequest{EventID: "evt-1", GeneralFeedback: "x"},
	})
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.Send(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReportHandlerMarkViewed(t *testing.T) {
	viewedAt := time.Now().UTC()
	handler := NewReportHandler(&reportServiceMock{}, &distributionServiceMock{viewResp: &models.SentReport{
		ID:       "sent-1",
		Status:   models.SentReportStatusViewed,
		ViewedAt: &viewedAt,
	}})

	c, w := newTestContext(t, http.MethodPost, "/reports/sent/sent-1/view", nil)
	c.Params = gin.Params{{Key: "id", Value: "sent-1"}}
	c.Set(middleware.ContextUserKey, organizerClaims())

	handler.MarkViewed(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.SentReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.SentReportStatusViewed, envelope.Data.Status)
}

func TestReportHandlerDownloadInvalidToken(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &distributionServiceMock{downloadErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")})

	c, w := newTestContext(t, http.MethodGet, "/reports/sent/download/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.Download(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
