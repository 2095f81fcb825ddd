package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// sessionService serves participants identified only by their one-time token
type sessionService struct {
	testRepo   TestRepository
	userRepo   TestUserRepository
	ratingRepo RatingRepository
	mediaRepo  MediaRepository
	activity   ActivityRecorder
	logger     *zap.Logger
}

// NewSessionService creates a new participant session service
func NewSessionService(
	testRepo TestRepository,
	userRepo TestUserRepository,
	ratingRepo RatingRepository,
	mediaRepo MediaRepository,
	activity ActivityRecorder,
	logger *zap.Logger,
) *sessionService {
	return &sessionService{
		testRepo:   testRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		mediaRepo:  mediaRepo,
		activity:   activity,
		logger:     logger,
	}
}

func participant(actor models.Actor, user *models.TestUser) models.Actor {
	actor.Admin = ""
	actor.IsSuperAdmin = false
	actor.Email = user.Email
	return actor
}

// GetTest resolves a session by token and returns its test with the media to rate.
//
// Completed sessions are gone and closed tests are forbidden. The first successful lookup
// stamps accessed_at and records a single access_test entry, even under concurrent requests.
func (s *sessionService) GetTest(ctx context.Context, actor models.Actor, token string) (*models.TestSession, error) {
	user, err := s.userRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.IsCompleted() {
		return nil, models.ErrSessionCompleted
	}

	first, err := s.userRepo.MarkAccessed(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to mark session accessed", zap.Error(err), zap.Int("test_user_id", user.ID))
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if first {
		s.activity.Record(ctx, models.ActivityEntry{
			Actor:      participant(actor, user),
			Action:     models.ActionAccessTest,
			EntityType: models.EntityTest,
			EntityID:   &user.TestID,
		})
	}

	test, err := s.testRepo.GetByID(ctx, user.TestID)
	if err != nil {
		return nil, err
	}
	if test.IsClosed() {
		return nil, models.ErrTestClosed
	}

	media, err := s.mediaRepo.ListByTest(ctx, test.ID)
	if err != nil {
		s.logger.Error("failed to list test media", zap.Error(err), zap.Int("test_id", test.ID))
		return nil, fmt.Errorf("failed to list test media: %w", err)
	}

	return &models.TestSession{
		Test:       *test,
		MediaFiles: media,
	}, nil
}

// SubmitRating stores or overwrites the participant's rating of one media file of the test.
//
// Completed sessions may still submit while the test is open.
func (s *sessionService) SubmitRating(ctx context.Context, actor models.Actor, token string, req *models.SubmitRatingRequest) (*models.Rating, error) {
	user, err := s.userRepo.GetByToken(ctx, token)
	if errors.Is(err, models.ErrSessionNotFound) {
		return nil, models.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	test, err := s.testRepo.GetByID(ctx, user.TestID)
	if err != nil {
		return nil, err
	}
	if test.IsClosed() {
		return nil, models.ErrTestClosed
	}

	if !models.ValidStars(req.Stars) {
		return nil, models.BadRequestf("stars must be between %.0f and %.0f in 0.5 steps", models.MinStars, models.MaxStars)
	}

	belongs, err := s.mediaRepo.BelongsToTest(ctx, test.ID, req.MediaFileID)
	if err != nil {
		s.logger.Error("failed to check media membership", zap.Error(err))
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}
	if !belongs {
		return nil, models.BadRequestf("media file %d is not part of this test", req.MediaFileID)
	}

	rating := &models.Rating{
		TestUserID:  user.ID,
		MediaFileID: req.MediaFileID,
		Stars:       req.Stars,
		Comment:     req.Comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		if errors.Is(err, models.ErrMediaNotFound) {
			return nil, models.BadRequestf("media file %d is not part of this test", req.MediaFileID)
		}
		s.logger.Error("failed to upsert rating", zap.Error(err))
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      participant(actor, user),
		Action:     models.ActionSubmitRating,
		EntityType: models.EntityRating,
		EntityID:   &rating.ID,
		Details: map[string]any{
			"test_id":       test.ID,
			"media_file_id": rating.MediaFileID,
			"stars":         rating.Stars,
			"has_comment":   rating.Comment != nil && *rating.Comment != "",
		},
	})

	return rating, nil
}

// ListRatings retrieves the participant's own ratings. It stays available after completion.
func (s *sessionService) ListRatings(ctx context.Context, token string) ([]models.Rating, error) {
	user, err := s.userRepo.GetByToken(ctx, token)
	if errors.Is(err, models.ErrSessionNotFound) {
		return nil, models.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByTestUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to list ratings", zap.Error(err), zap.Int("test_user_id", user.ID))
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// Complete marks the session completed. Calling it again re-stamps completed_at.
func (s *sessionService) Complete(ctx context.Context, actor models.Actor, token string) error {
	user, err := s.userRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.userRepo.MarkCompleted(ctx, user.ID); err != nil {
		s.logger.Error("failed to complete session", zap.Error(err), zap.Int("test_user_id", user.ID))
		return fmt.Errorf("failed to complete test: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      participant(actor, user),
		Action:     models.ActionCompleteTest,
		EntityType: models.EntityTest,
		EntityID:   &user.TestID,
	})

	return nil
}
