package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/dto"
	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

type sentReportStore interface {
	Insert(ctx context.Context, record *models.SentReport) error
	GetByID(ctx context.Context, id string) (*models.SentReport, error)
	ListBySender(ctx context.Context, senderID string) ([]models.SentReport, error)
	MarkViewed(ctx context.Context, id string, viewedAt time.Time) (bool, error)
}

type artifactStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

type documentSource interface {
	Render(ctx context.Context, actor models.RequestContext, req dto.SaveReportRequest) (*RenderedReport, *models.Event, error)
}

type downloadSigner interface {
	Generate(recordID, relPath string) (string, time.Time, error)
	Parse(token string) (recordID, relPath string, expiresAt time.Time, err error)
}

// ReportDownload is a resolved artifact ready to stream to the recipient.
type ReportDownload struct {
	Data     []byte
	MIMEType string
	Filename string
}

// DistributionService sends rendered reports: it persists the artifact, writes
// the distribution receipt, and issues signed download links. The receipt's
// sent → viewed transition is one-way.
type DistributionService struct {
	renderer         documentSource
	storage          artifactStorage
	records          sentReportStore
	signer           downloadSigner
	metrics          *MetricsService
	logger           *zap.Logger
	downloadBasePath string
}

// NewDistributionService constructs the distributor.
func NewDistributionService(renderer documentSource, storage artifactStorage, records sentReportStore, signer downloadSigner, metrics *MetricsService, logger *zap.Logger, downloadBasePath string) *DistributionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if downloadBasePath == "" {
		downloadBasePath = "/api/v1/reports/sent/download"
	}
	return &DistributionService{
		renderer:         renderer,
		storage:          storage,
		records:          records,
		signer:           signer,
		metrics:          metrics,
		logger:           logger,
		downloadBasePath: downloadBasePath,
	}
}

// Send renders the report from current data, stores the artifact, and records
// the distribution. If the receipt cannot be written the stored artifact is
// removed again so no orphan files accumulate.
func (s *DistributionService) Send(ctx context.Context, actor models.RequestContext, req dto.SendReportRequest) (*dto.SendReportResponse, error) {
	rendered, event, err := s.renderer.Render(ctx, actor, req.SaveReportRequest)
	if err != nil {
		return nil, err
	}

	// Timestamp prefix keeps repeated sends of the same report distinct.
	artifactName := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102150405"), rendered.Filename)
	storedPath, err := s.storage.Save(artifactName, rendered.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store report artifact")
	}

	record := &models.SentReport{
		EventName: event.Name,
		EventDate: event.StartsAt,
		FilePath:  storedPath,
		Message:   req.Message,
		SentBy:    actor.UserID,
	}
	if err := s.records.Insert(ctx, record); err != nil {
		if cleanupErr := s.storage.Delete(storedPath); cleanupErr != nil {
			s.logger.Error("failed to clean up orphaned report artifact",
				zap.String("path", storedPath), zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record sent report")
	}

	token, expiresAt, err := s.signer.Generate(record.ID, storedPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.metrics.ReportSent()
	s.logger.Info("report sent",
		zap.String("sent_report_id", record.ID),
		zap.String("event_name", event.Name),
		zap.String("artifact", storedPath))

	return &dto.SendReportResponse{
		ReportID:    record.ID,
		SentAt:      record.SentAt,
		DownloadURL: path.Join(s.downloadBasePath, token),
		ExpiresAt:   expiresAt,
	}, nil
}

// ListSent returns the actor's distribution history, newest first.
func (s *DistributionService) ListSent(ctx context.Context, actor models.RequestContext) ([]models.SentReport, error) {
	records, err := s.records.ListBySender(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list sent reports")
	}
	return records, nil
}

// MarkViewed transitions a sent report to viewed. The operation is
// idempotent: marking an already-viewed report succeeds without moving the
// original viewed_at timestamp.
func (s *DistributionService) MarkViewed(ctx context.Context, id string) (*models.SentReport, error) {
	updated, err := s.records.MarkViewed(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to mark report viewed")
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sent report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load sent report")
	}

	if !updated && record.Status != models.SentReportStatusViewed {
		return nil, appErrors.Clone(appErrors.ErrInternal, "failed to mark report viewed")
	}
	return record, nil
}

// ResolveDownload validates a signed token and loads the artifact it points
// at. Tokens bind the receipt to its stored path; a mismatch means the token
// was minted for different content and is rejected.
func (s *DistributionService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	recordID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}

	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sent report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load sent report")
	}
	if record.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	data, err := s.storage.Read(record.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report artifact no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read report artifact")
	}

	return &ReportDownload{
		Data:     data,
		MIMEType: mimeByExtension(record.FilePath),
		Filename: filepath.Base(record.FilePath),
	}, nil
}

func mimeByExtension(name string) string {
	switch filepath.Ext(name) {
	case ".pdf":
		return "application/pdf"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
