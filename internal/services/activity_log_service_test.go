package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActivityLogService_Record(t *testing.T) {
	t.Run("maps actor and details", func(t *testing.T) {
		repo := &mockActivityLogRepository{}
		svc := NewActivityLogService(repo, zap.NewNop())
		id := 7

		svc.Record(context.Background(), models.ActivityEntry{
			Actor:      models.Actor{Admin: "root", IPAddress: "10.0.0.1", UserAgent: "curl/8"},
			Action:     models.ActionCreateCategory,
			EntityType: models.EntityCategory,
			EntityID:   &id,
			Details:    map[string]any{"name": "Jazz"},
		})

		require.Len(t, repo.created, 1)
		row := repo.created[0]
		require.NotNil(t, row.AdminUsername)
		assert.Equal(t, "root", *row.AdminUsername)
		assert.Nil(t, row.UserEmail)
		assert.Equal(t, models.ActionCreateCategory, row.Action)
		require.NotNil(t, row.EntityType)
		assert.Equal(t, models.EntityCategory, *row.EntityType)
		assert.Equal(t, &id, row.EntityID)
		require.NotNil(t, row.IPAddress)
		assert.Equal(t, "10.0.0.1", *row.IPAddress)

		var details map[string]any
		require.NoError(t, json.Unmarshal(row.Details, &details))
		assert.Equal(t, "Jazz", details["name"])
	})

	t.Run("participant without details", func(t *testing.T) {
		repo := &mockActivityLogRepository{}
		svc := NewActivityLogService(repo, zap.NewNop())

		svc.Record(context.Background(), models.ActivityEntry{
			Actor:  models.Actor{Email: "p@example.com"},
			Action: models.ActionCompleteTest,
		})

		require.Len(t, repo.created, 1)
		assert.Nil(t, repo.created[0].AdminUsername)
		require.NotNil(t, repo.created[0].UserEmail)
		assert.Equal(t, "p@example.com", *repo.created[0].UserEmail)
		assert.Nil(t, repo.created[0].Details)
		assert.Nil(t, repo.created[0].IPAddress)
	})

	t.Run("repository failure is swallowed", func(t *testing.T) {
		repo := &mockActivityLogRepository{err: errors.New("db down")}
		svc := NewActivityLogService(repo, zap.NewNop())

		assert.NotPanics(t, func() {
			svc.Record(context.Background(), models.ActivityEntry{Action: models.ActionLogin})
		})
	})
}

func TestActivityLogService_List(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		filter         models.ActivityLogFilter
		repo           *mockActivityLogRepository
		expectedErr    error
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "defaults applied",
			filter:         models.ActivityLogFilter{},
			repo:           &mockActivityLogRepository{logs: []models.ActivityLog{{ID: 1}}, total: 1},
			expectedLimit:  models.DefaultActivityLogLimit,
			expectedOffset: 0,
		},
		{
			name:           "limit clamped",
			filter:         models.ActivityLogFilter{Limit: 1000, Offset: -3},
			repo:           &mockActivityLogRepository{},
			expectedLimit:  models.MaxActivityLogLimit,
			expectedOffset: 0,
		},
		{
			name:           "date range",
			filter:         models.ActivityLogFilter{FromDate: &from, ToDate: &to, Limit: 10, Offset: 20},
			repo:           &mockActivityLogRepository{},
			expectedLimit:  10,
			expectedOffset: 20,
		},
		{
			name:        "inverted date range",
			filter:      models.ActivityLogFilter{FromDate: &to, ToDate: &from},
			repo:        &mockActivityLogRepository{},
			expectedErr: models.ErrBadRequest,
		},
		{
			name:   "repository error",
			filter: models.ActivityLogFilter{},
			repo:   &mockActivityLogRepository{err: errors.New("db error")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewActivityLogService(tt.repo, zap.NewNop())

			page, err := svc.List(context.Background(), tt.filter)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, page)
				return
			}
			if tt.repo.err != nil {
				assert.Error(t, err)
				assert.Nil(t, page)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, tt.expectedOffset, page.Offset)
			assert.Equal(t, tt.expectedLimit, tt.repo.lastFilter.Limit)
			assert.Equal(t, tt.repo.total, page.Total)
			assert.Len(t, page.Logs, len(tt.repo.logs))
		})
	}
}

func TestActivityLogService_Cleanup(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("deletes entries older than retention", func(t *testing.T) {
		repo := &mockActivityLogRepository{removed: 4}
		svc := NewActivityLogService(repo, zap.NewNop())
		svc.now = func() time.Time { return now }

		removed, err := svc.Cleanup(context.Background(), 30*24*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 4, removed)
		assert.Equal(t, now.Add(-30*24*time.Hour), repo.lastCutoff)
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		repo := &mockActivityLogRepository{removed: 4}
		svc := NewActivityLogService(repo, zap.NewNop())

		removed, err := svc.Cleanup(context.Background(), 0)

		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.True(t, repo.lastCutoff.IsZero())
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &mockActivityLogRepository{err: errors.New("db error")}
		svc := NewActivityLogService(repo, zap.NewNop())

		_, err := svc.Cleanup(context.Background(), time.Hour)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to clean up activity logs")
	})
}
