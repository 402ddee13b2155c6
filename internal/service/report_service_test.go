package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
	"github.com/campushub/event-report-api/pkg/render"
)

type mockEventRepo struct {
	events map[string]*models.Event
	calls  int
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	m.calls++
	event, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("get event: %w", sql.ErrNoRows)
	}
	return event, nil
}

type mockReportRepo struct {
	upserted  *models.EventReport
	upsertID  string
	action    models.SaveAction
	upsertErr error
	stored    *models.EventReport
	calls     int
}

func (m *mockReportRepo) Upsert(_ context.Context, report *models.EventReport) (string, models.SaveAction, error) {
	m.calls++
	if m.upsertErr != nil {
		return "", "", m.upsertErr
	}
	m.upserted = report
	return m.upsertID, m.action, nil
}

func (m *mockReportRepo) GetByEventID(_ context.Context, _ string) (*models.EventReport, error) {
	if m.stored == nil {
		return nil, fmt.Errorf("get event report: %w", sql.ErrNoRows)
	}
	return m.stored, nil
}

func organizerActor() models.RequestContext {
	return models.RequestContext{UserID: "org-1", Role: models.RoleOrganizer, FullName: "Asha Verma"}
}

func techTalkEvent() *models.Event {
	capacity := 50
	proposalID := "prop-1"
	return &models.Event{
		ID:         "evt-1",
		Name:       "Tech Talk",
		StartsAt:   time.Date(2024, 2, 28, 18, 0, 0, 0, time.UTC),
		Location:   "Main Hall",
		Capacity:   &capacity,
		ProposalID: &proposalID,
		CreatedBy:  "org-1",
	}
}

// newReportServiceForTest wires the assembler with a real ledger and a real
// aggregator over stub repositories.
func newReportServiceForTest(events *mockEventRepo, reports *mockReportRepo, costs *mockCostRepo, participation *mockParticipationRepo, renderer render.DocumentRenderer) *ReportService {
	ledger := NewCostLedger(costs, nil, zap.NewNop())
	aggregator := NewParticipationService(participation, nil, nil, zap.NewNop(), ParticipationConfig{})
	return NewReportService(events, reports, ledger, aggregator, renderer, nil, zap.NewNop())
}

func TestSaveReportFirstSave(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	reports := &mockReportRepo{upsertID: "rep-1", action: models.SaveActionCreated}
	costs := &mockCostRepo{items: proposalItems()}
	participation := &mockParticipationRepo{
		rsvpCounts: map[string]int{"interested": 20, "not interested": 5},
		attendance: 18,
	}
	svc := newReportServiceForTest(events, reports, costs, participation, nil)

	resp, err := svc.Save(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "Great turnout, projector issues in the first half.",
		ReportDate:      "2024-03-01",
		ActualSpending:  map[string]interface{}{"ci-1": 180.0, "ci-2": "150"},
	})
	require.NoError(t, err)

	assert.Equal(t, "rep-1", resp.ReportID)
	assert.Equal(t, models.SaveActionCreated, resp.Action)
	assert.Equal(t, "400", resp.FinancialSummary.TotalBudgeted.String())
	assert.Equal(t, "330", resp.FinancialSummary.TotalActual.String())
	assert.Equal(t, "70", resp.FinancialSummary.Savings.String())
	assert.Equal(t, 20, resp.ParticipationSummary.RSVPInterested)
	assert.Equal(t, 5, resp.ParticipationSummary.RSVPNotInterested)
	assert.Equal(t, 18, resp.ParticipationSummary.AttendanceCount)
	require.NotNil(t, resp.ParticipationSummary.AttendanceRate)
	assert.InDelta(t, 0.36, *resp.ParticipationSummary.AttendanceRate, 0.0001)

	require.NotNil(t, reports.upserted)
	assert.Equal(t, "evt-1", reports.upserted.EventID)
	assert.Equal(t, "org-1", reports.upserted.CreatedBy)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), reports.upserted.ReportDate)
	assert.Len(t, reports.upserted.CostBreakdown, 3)
}

func TestSaveReportWithoutBudget(t *testing.T) {
	event := techTalkEvent()
	event.ProposalID = nil
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": event}}
	reports := &mockReportRepo{upsertID: "rep-1", action: models.SaveActionCreated}
	costs := &mockCostRepo{}
	participation := &mockParticipationRepo{rsvpCounts: map[string]int{}, attendance: 0}
	svc := newReportServiceForTest(events, reports, costs, participation, nil)

	resp, err := svc.Save(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "Zero-budget social, went fine.",
	})
	require.NoError(t, err)

	assert.True(t, resp.FinancialSummary.TotalBudgeted.IsZero())
	assert.True(t, resp.FinancialSummary.TotalActual.IsZero())
	assert.True(t, resp.FinancialSummary.Savings.IsZero())
	assert.Empty(t, reports.upserted.CostBreakdown)
	assert.Zero(t, costs.calls)
}

func TestSaveReportMissingFeedback(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	reports := &mockReportRepo{upsertID: "rep-1", action: models.SaveActionCreated}
	svc := newReportServiceForTest(events, reports, &mockCostRepo{}, &mockParticipationRepo{}, nil)

	_, err := svc.Save(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, reports.calls)
	assert.Zero(t, events.calls)
}

func TestSaveReportForeignEventForbidden(t *testing.T) {
	event := techTalkEvent()
	event.CreatedBy = "someone-else"
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": event}}
	reports := &mockReportRepo{}
	costs := &mockCostRepo{items: proposalItems()}
	svc := newReportServiceForTest(events, reports, costs, &mockParticipationRepo{}, nil)

	_, err := svc.Save(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "attempt on a foreign event",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Zero(t, reports.calls)
	assert.Zero(t, costs.calls)
}

func TestSaveReportUnknownEventForbidden(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{}}
	reports := &mockReportRepo{}
	svc := newReportServiceForTest(events, reports, &mockCostRepo{}, &mockParticipationRepo{}, nil)

	_, err := svc.Save(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-missing",
		GeneralFeedback: "probing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetByEventNotFound(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	reports := &mockReportRepo{}
	svc := newReportServiceForTest(events, reports, &mockCostRepo{}, &mockParticipationRepo{}, nil)

	_, err := svc.GetByEvent(context.Background(), organizerActor(), "evt-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetByEventReturnsStoredReport(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	reports := &mockReportRepo{stored: &models.EventReport{ID: "rep-1", EventID: "evt-1", GeneralFeedback: "done"}}
	svc := newReportServiceForTest(events, reports, &mockCostRepo{}, &mockParticipationRepo{}, nil)

	report, err := svc.GetByEvent(context.Background(), organizerActor(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "rep-1", report.ID)
}

func TestRenderProducesDocument(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	costs := &mockCostRepo{items: proposalItems()}
	participation := &mockParticipationRepo{
		rsvpCounts: map[string]int{"interested": 20, "not interested": 5},
		attendance: 18,
	}
	svc := newReportServiceForTest(events, &mockReportRepo{}, costs, participation, render.NewHTMLRenderer("Rs. "))

	rendered, event, err := svc.Render(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "Great turnout.",
		ReportDate:      "2024-03-01",
		ActualSpending:  map[string]interface{}{"ci-1": 180.0, "ci-2": 150.0},
	})
	require.NoError(t, err)

	assert.Equal(t, "Tech Talk", event.Name)
	assert.Equal(t, "text/html; charset=utf-8", rendered.MIMEType)
	assert.Equal(t, "Event_Report_Tech_Talk_2024-03-01.html", rendered.Filename)

	body := string(rendered.Data)
	assert.True(t, strings.Contains(body, "Tech Talk"))
	assert.True(t, strings.Contains(body, "Rs. 70.00"))
}

func TestRenderWithoutBackend(t *testing.T) {
	events := &mockEventRepo{events: map[string]*models.Event{"evt-1": techTalkEvent()}}
	svc := newReportServiceForTest(events, &mockReportRepo{}, &mockCostRepo{}, &mockParticipationRepo{}, nil)

	_, _, err := svc.Render(context.Background(), organizerActor(), dto.SaveReportRequest{
		EventID:         "evt-1",
		GeneralFeedback: "no renderer configured",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRendererUnavailable.Code, appErrors.FromError(err).Code)
}
