package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

type participationStore interface {
	CountRSVPByStatus(ctx context.Context, eventID string) (map[string]int, error)
	CountAttendance(ctx context.Context, eventID string) (int, error)
	InsertAttendance(ctx context.Context, record *models.AttendanceRecord) (bool, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ParticipationConfig tunes summary caching.
type ParticipationConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ParticipationService aggregates RSVP and attendance signals into a
// participation summary, and owns the check-in write path.
type ParticipationService struct {
	repo    participationStore
	cache   summaryCache
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ParticipationConfig
}

// NewParticipationService constructs the service. Cache and metrics are
// optional collaborators.
func NewParticipationService(repo participationStore, cache summaryCache, metrics *MetricsService, logger *zap.Logger, cfg ParticipationConfig) *ParticipationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipationService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

func participationCacheKey(eventID string) string {
	return "participation:" + eventID
}

// Aggregate computes the participation summary for an event. Raw RSVP status
// strings are classified into the canonical buckets; rows outside the accepted
// vocabulary are excluded from both counts. The attendance rate is left unset
// when the event has no usable capacity. Cache failures degrade to a direct
// read, never to a request failure.
func (s *ParticipationService) Aggregate(ctx context.Context, eventID string, capacity *int) (models.ParticipationSummary, error) {
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached models.ParticipationSummary
		err := s.cache.Get(ctx, participationCacheKey(eventID), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("participation cache read failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	summary, err := s.aggregate(ctx, eventID, capacity)
	if err != nil {
		return models.ParticipationSummary{}, err
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, participationCacheKey(eventID), summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("participation cache write failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	return summary, nil
}

func (s *ParticipationService) aggregate(ctx context.Context, eventID string, capacity *int) (models.ParticipationSummary, error) {
	counts, err := s.repo.CountRSVPByStatus(ctx, eventID)
	if err != nil {
		return models.ParticipationSummary{}, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count rsvps")
	}

	summary := models.ParticipationSummary{}
	unclassified := 0
	for raw, total := range counts {
		status, ok := models.ClassifyRSVP(raw)
		if !ok {
			unclassified += total
			continue
		}
		switch status {
		case models.RSVPInterested:
			summary.RSVPInterested += total
		case models.RSVPNotInterested:
			summary.RSVPNotInterested += total
		}
	}
	if unclassified > 0 {
		s.metrics.RSVPUnclassified(unclassified)
		s.logger.Warn("unclassified rsvp statuses excluded",
			zap.String("event_id", eventID),
			zap.Int("rows", unclassified))
	}

	attendance, err := s.repo.CountAttendance(ctx, eventID)
	if err != nil {
		return models.ParticipationSummary{}, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count attendance")
	}
	summary.AttendanceCount = attendance

	if capacity != nil && *capacity > 0 {
		rate := float64(attendance) / float64(*capacity)
		summary.AttendanceRate = &rate
	}

	return summary, nil
}

// CheckIn records a user's attendance at an event. A repeated check-in for the
// same (event, user) pair is rejected with a conflict and the original record
// is left untouched.
func (s *ParticipationService) CheckIn(ctx context.Context, eventID, userID string) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{EventID: eventID, UserID: userID}
	inserted, err := s.repo.InsertAttendance(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record check-in")
	}
	if !inserted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already checked in to this event")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, participationCacheKey(eventID)); err != nil {
			s.logger.Warn("participation cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	return record, nil
}
