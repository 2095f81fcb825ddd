package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// ActivityLogRepository is the interface that wraps methods for activity_logs table data access
type ActivityLogRepository interface {
	// Method Create inserts one audit trail entry.
	Create(ctx context.Context, entry *models.ActivityLog) error
	// Method List retrieves one page of entries matching the filter, newest first, and the total number of matches.
	//
	// The filter must be normalized by the caller.
	List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLog, int, error)
	// Method DeleteOlderThan deletes entries older than cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ActivityRecorder writes audit trail entries on behalf of other services
type ActivityRecorder interface {
	// Method Record stores the entry. It never fails the caller: errors are only logged.
	Record(ctx context.Context, entry models.ActivityEntry)
}

type activityLogService struct {
	repo   ActivityLogRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewActivityLogService creates a new activity log service
func NewActivityLogService(repo ActivityLogRepository, logger *zap.Logger) *activityLogService {
	return &activityLogService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Record stores an audit trail entry. Failures are logged and swallowed.
func (s *activityLogService) Record(ctx context.Context, entry models.ActivityEntry) {
	row := &models.ActivityLog{
		AdminUsername: optional(entry.Actor.Admin),
		UserEmail:     optional(entry.Actor.Email),
		Action:        entry.Action,
		EntityType:    optional(entry.EntityType),
		EntityID:      entry.EntityID,
		IPAddress:     optional(entry.Actor.IPAddress),
		UserAgent:     optional(entry.Actor.UserAgent),
	}

	if len(entry.Details) > 0 {
		details, err := json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warn("failed to encode activity details", zap.String("action", entry.Action), zap.Error(err))
		} else {
			row.Details = details
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("failed to record activity", zap.String("action", entry.Action), zap.Error(err))
	}
}

// List retrieves a page of audit trail entries
func (s *activityLogService) List(ctx context.Context, filter models.ActivityLogFilter) (*models.ActivityLogPage, error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, models.BadRequestf("from_date must not be after to_date")
	}
	filter.Normalize()

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list activity logs", zap.Error(err))
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return &models.ActivityLogPage{
		Logs:   logs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Cleanup deletes entries older than the retention period.
// A non-positive retention keeps everything.
func (s *activityLogService) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	removed, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up activity logs: %w", err)
	}

	s.logger.Info("activity log cleanup finished", zap.Int("removed", removed), zap.Duration("retention", retention))
	return removed, nil
}
