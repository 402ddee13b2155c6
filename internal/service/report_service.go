package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
	"github.com/campushub/event-report-api/pkg/render"
)

type eventStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

type reportStore interface {
	Upsert(ctx context.Context, report *models.EventReport) (string, models.SaveAction, error)
	GetByEventID(ctx context.Context, eventID string) (*models.EventReport, error)
}

type costLedger interface {
	LoadItems(ctx context.Context, proposalID *string) ([]models.CostItem, error)
	BuildBreakdown(items []models.CostItem, actuals map[string]interface{}) (models.CostBreakdown, FinancialTotals, error)
}

type participationAggregator interface {
	Aggregate(ctx context.Context, eventID string, capacity *int) (models.ParticipationSummary, error)
}

// RenderedReport is a report document ready for download or distribution.
type RenderedReport struct {
	Data     []byte
	MIMEType string
	Filename string
}

// ReportService assembles event reports from the cost ledger and the
// participation aggregator, persists them, and renders them into documents.
// All operations enforce event ownership for the requesting organizer.
type ReportService struct {
	events        eventStore
	reports       reportStore
	ledger        costLedger
	participation participationAggregator
	renderer      render.DocumentRenderer
	validate      *validator.Validate
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewReportService constructs the service. The renderer may be nil when no
// document backend is configured; rendering then fails cleanly at request
// time while saves keep working.
func NewReportService(events eventStore, reports reportStore, ledger costLedger, participation participationAggregator, renderer render.DocumentRenderer, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		events:        events,
		reports:       reports,
		ledger:        ledger,
		participation: participation,
		renderer:      renderer,
		validate:      validator.New(),
		metrics:       metrics,
		logger:        logger,
	}
}

// authorizeEvent loads the event and enforces ownership. A missing event and
// a foreign event both come back as forbidden, so callers cannot probe which
// event IDs exist.
func (s *ReportService) authorizeEvent(ctx context.Context, actor models.RequestContext, eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to this event")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load event")
	}
	if event.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to this event")
	}
	return event, nil
}

// assemble builds a complete report in memory without persisting anything.
// Input validation runs before any storage access so an invalid request can
// never leave partial state behind.
func (s *ReportService) assemble(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*models.EventReport, *models.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	feedback := strings.TrimSpace(req.GeneralFeedback)
	if feedback == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "general_feedback is required")
	}

	reportDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ReportDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReportDate)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "report_date must be YYYY-MM-DD")
		}
		reportDate = parsed
	}

	event, err := s.authorizeEvent(ctx, actor, req.EventID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.ledger.LoadItems(ctx, event.ProposalID)
	if err != nil {
		return nil, nil, err
	}

	breakdown, totals, err := s.ledger.BuildBreakdown(items, req.ActualSpending)
	if err != nil {
		return nil, nil, err
	}

	participation, err := s.participation.Aggregate(ctx, event.ID, event.Capacity)
	if err != nil {
		return nil, nil, err
	}

	report := &models.EventReport{
		EventID:         event.ID,
		GeneralFeedback: feedback,
		ReportDate:      reportDate,
		TotalBudgeted:   totals.Budgeted,
		TotalActual:     totals.Actual,
		Savings:         totals.Savings,
		Participation:   participation,
		CostBreakdown:   breakdown,
		CreatedBy:       actor.UserID,
	}
	return report, event, nil
}

// Save assembles the report and upserts it, creating the event's report row
// on first save and updating it in place afterwards.
func (s *ReportService) Save(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*dto.SaveReportResponse, error) {
	report, _, err := s.assemble(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	id, action, err := s.reports.Upsert(ctx, report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to save report")
	}

	s.metrics.ReportSaved(string(action))
	s.logger.Info("event report saved",
		zap.String("event_id", report.EventID),
		zap.String("report_id", id),
		zap.String("action", string(action)))

	return &dto.SaveReportResponse{
		ReportID: id,
		Action:   action,
		FinancialSummary: dto.FinancialSummary{
			TotalBudgeted: report.TotalBudgeted,
			TotalActual:   report.TotalActual,
			Savings:       report.Savings,
		},
		ParticipationSummary: report.Participation,
	}, nil
}

// GetByEvent returns the stored report for an event the actor owns.
func (s *ReportService) GetByEvent(ctx context.Context, actor models.RequestContext, eventID string) (*models.EventReport, error) {
	if _, err := s.authorizeEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}

	report, err := s.reports.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no report saved for this event")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load report")
	}
	return report, nil
}

// Participation exposes the live participation summary for an event the
// actor owns, without touching any stored report.
func (s *ReportService) Participation(ctx context.Context, actor models.RequestContext, eventID string) (models.ParticipationSummary, error) {
	event, err := s.authorizeEvent(ctx, actor, eventID)
	if err != nil {
		return models.ParticipationSummary{}, err
	}
	return s.participation.Aggregate(ctx, event.ID, event.Capacity)
}

// Render assembles the report from current data and renders it with the
// configured backend. Rendering always reflects live figures, not the stored
// snapshot, so a stale save cannot leak into a distributed document.
func (s *ReportService) Render(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*RenderedReport, *models.Event, error) {
	if s.renderer == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrRendererUnavailable, "")
	}

	report, event, err := s.assemble(ctx, actor, req)
	if err != nil {
		return nil, nil, err
	}

	doc := buildDocument(event, report, actor.FullName)
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.metrics.ReportRendered(s.renderer.Extension())

	return &RenderedReport{
		Data:     data,
		MIMEType: s.renderer.MIMEType(),
		Filename: render.Filename(event.Name, report.ReportDate, s.renderer.Extension()),
	}, event, nil
}

func buildDocument(event *models.Event, report *models.EventReport, generatedBy string) render.Document {
	lines := make([]render.Line, 0, len(report.CostBreakdown))
	for _, line := range report.CostBreakdown {
		lines = append(lines, render.Line{
			Name:       line.Name,
			Budgeted:   line.Budgeted,
			Actual:     line.Actual,
			Difference: line.Difference,
			Comments:   line.Comments,
		})
	}

	return render.Document{
		EventName:      event.Name,
		EventDate:      event.StartsAt,
		Location:       event.Location,
		OrganizerName:  generatedBy,
		Capacity:       event.Capacity,
		Interested:     report.Participation.RSVPInterested,
		NotInterested:  report.Participation.RSVPNotInterested,
		Attendance:     report.Participation.AttendanceCount,
		AttendanceRate: report.Participation.AttendanceRate,
		Lines:          lines,
		TotalBudgeted:  report.TotalBudgeted,
		TotalActual:    report.TotalActual,
		Savings:        report.Savings,
		Feedback:       report.GeneralFeedback,
		ReportDate:     report.ReportDate,
		GeneratedBy:    generatedBy,
		GeneratedAt:    time.Now().UTC(),
	}
}
