package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// TestRepository is the interface that wraps methods for tests table data access
type TestRepository interface {
	// Method CreateWithCategory inserts an open test bound to one category and fills the test from the stored row.
	CreateWithCategory(ctx context.Context, test *models.Test, categoryID int) error
	// Method GetByID retrieves a test by ID.
	//
	// If the test does not exist, models.ErrTestNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Test, error)
	// Method List retrieves all tests newest first.
	List(ctx context.Context) ([]models.Test, error)
	// Method Close sets the test status to closed.
	Close(ctx context.Context, id int) error
	// Method Delete removes a test. Participants and ratings cascade.
	Delete(ctx context.Context, id int) error
}

// TestUserRepository is the interface that wraps methods for test_users table data access
type TestUserRepository interface {
	// Method Create inserts a participant session.
	//
	// A second invitation for the same test and email is returned as an error wrapping models.ErrConflict.
	Create(ctx context.Context, user *models.TestUser) error
	// Method ExistsByTestAndEmail reports whether the email was already invited to the test.
	ExistsByTestAndEmail(ctx context.Context, testID int, email string) (bool, error)
	// Method GetByToken retrieves a participant session by its one-time token.
	//
	// An unknown token is returned as models.ErrSessionNotFound.
	GetByToken(ctx context.Context, token string) (*models.TestUser, error)
	// Method GetByID retrieves a participant session by ID.
	GetByID(ctx context.Context, id int) (*models.TestUser, error)
	// Method ListByTest retrieves the participants of a test newest first.
	ListByTest(ctx context.Context, testID int) ([]models.TestUser, error)
	// Method MarkAccessed stamps accessed_at if it is still empty and reports whether this call stamped it.
	MarkAccessed(ctx context.Context, id int) (bool, error)
	// Method MarkCompleted stamps completed_at with the current time.
	MarkCompleted(ctx context.Context, id int) error
	// Method Delete removes a participant session. Its ratings cascade.
	Delete(ctx context.Context, id int) error
}

// RatingRepository is the interface that wraps methods for ratings table data access
type RatingRepository interface {
	// Method Upsert inserts the rating or overwrites the existing one for the same participant and media file,
	// then fills the rating from the stored row.
	Upsert(ctx context.Context, rating *models.Rating) error
	// Method ListByTestUser retrieves all ratings of a participant.
	ListByTestUser(ctx context.Context, testUserID int) ([]models.Rating, error)
	// Method ListByTest retrieves all ratings given by participants of a test, newest first.
	ListByTest(ctx context.Context, testID int) ([]models.IndividualRating, error)
}

// InvitationQueue hands invitation emails to a background sender
type InvitationQueue interface {
	// Enqueue returns as soon as the invitation is queued. Delivery happens later.
	Enqueue(ctx context.Context, inv models.Invitation) error
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type testService struct {
	repo         TestRepository
	userRepo     TestUserRepository
	ratingRepo   RatingRepository
	mediaRepo    MediaRepository
	categoryRepo CategoryRepository
	invitations  InvitationQueue
	activity     ActivityRecorder
	frontendURL  string
	logger       *zap.Logger
}

// NewTestService creates a new test service
func NewTestService(
	repo TestRepository,
	userRepo TestUserRepository,
	ratingRepo RatingRepository,
	mediaRepo MediaRepository,
	categoryRepo CategoryRepository,
	invitations InvitationQueue,
	activity ActivityRecorder,
	frontendURL string,
	logger *zap.Logger,
) *testService {
	return &testService{
		repo:         repo,
		userRepo:     userRepo,
		ratingRepo:   ratingRepo,
		mediaRepo:    mediaRepo,
		categoryRepo: categoryRepo,
		invitations:  invitations,
		activity:     activity,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		logger:       logger,
	}
}

// Create creates an open test bound to one existing category
func (s *testService) Create(ctx context.Context, actor models.Actor, req *models.CreateTestRequest) (*models.Test, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.BadRequestf("test name is required")
	}
	if req.CategoryID <= 0 {
		return nil, models.BadRequestf("category_id is required")
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return nil, models.BadRequestf("invalid category")
		}
		s.logger.Error("failed to get category", zap.Error(err))
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	test := &models.Test{
		Name:        name,
		Description: req.Description,
		LoopMedia:   true,
	}
	if req.LoopMedia != nil {
		test.LoopMedia = *req.LoopMedia
	}
	if actor.Admin != "" {
		creator := actor.Admin
		test.CreatedBy = &creator
	}

	if err := s.repo.CreateWithCategory(ctx, test, req.CategoryID); err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, err
		}
		s.logger.Error("failed to create test", zap.Error(err))
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionCreateTest,
		EntityType: models.EntityTest,
		EntityID:   &test.ID,
		Details:    map[string]any{"name": test.Name, "category_id": req.CategoryID},
	})

	return test, nil
}

// List retrieves all tests
func (s *testService) List(ctx context.Context) ([]models.Test, error) {
	tests, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tests", zap.Error(err))
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

// AddUser invites a participant: it mints a one-time token, stores the session and queues the invitation email.
// Email problems are logged and never fail the invitation.
func (s *testService) AddUser(ctx context.Context, actor models.Actor, testID int, req *models.AddTestUserRequest) (*models.AddTestUserResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !emailRegex.MatchString(email) {
		return nil, models.BadRequestf("email is invalid")
	}

	test, err := s.repo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByTestAndEmail(ctx, testID, email)
	if err != nil {
		s.logger.Error("failed to check participant", zap.Error(err))
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user already added to this test", models.ErrConflict)
	}

	user := &models.TestUser{
		TestID:       testID,
		Email:        email,
		OneTimeToken: uuid.New().String(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/test/%s", s.frontendURL, user.OneTimeToken)

	inv := models.Invitation{
		Email:           email,
		TestName:        test.Name,
		TestDescription: test.Description,
		Link:            link,
	}
	if err := s.invitations.Enqueue(ctx, inv); err != nil {
		s.logger.Error("failed to queue invitation email", zap.String("email", email), zap.Int("test_id", testID), zap.Error(err))
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionAddTestUser,
		EntityType: models.EntityTestUser,
		EntityID:   &user.ID,
		Details:    map[string]any{"test_id": testID, "email": email},
	})

	return &models.AddTestUserResponse{
		Email: email,
		Link:  link,
	}, nil
}

// ListUsers retrieves the participants of a test
func (s *testService) ListUsers(ctx context.Context, testID int) ([]models.TestUser, error) {
	if _, err := s.repo.GetByID(ctx, testID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByTest(ctx, testID)
	if err != nil {
		s.logger.Error("failed to list participants", zap.Error(err), zap.Int("test_id", testID))
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return users, nil
}

// Close closes a test for good
func (s *testService) Close(ctx context.Context, actor models.Actor, id int) error {
	test, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Close(ctx, id); err != nil {
		s.logger.Error("failed to close test", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to close test: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionCloseTest,
		EntityType: models.EntityTest,
		EntityID:   &id,
		Details:    map[string]any{"name": test.Name},
	})

	return nil
}

// Delete removes a test. Only super admins and the creator of the test may do so.
func (s *testService) Delete(ctx context.Context, actor models.Actor, id int) error {
	test, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isCreator := test.CreatedBy != nil && *test.CreatedBy == actor.Admin
	if !actor.IsSuperAdmin && !isCreator {
		return fmt.Errorf("%w: you can only delete tests you created", models.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionDeleteTest,
		EntityType: models.EntityTest,
		EntityID:   &id,
		Details:    map[string]any{"name": test.Name},
	})

	return nil
}

// DeleteUser removes a participant and their ratings while the test is still open
func (s *testService) DeleteUser(ctx context.Context, actor models.Actor, testID, userID int) error {
	test, err := s.repo.GetByID(ctx, testID)
	if err != nil {
		return err
	}
	if test.IsClosed() {
		return fmt.Errorf("%w: cannot remove participants from a closed test", models.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TestID != testID {
		return models.ErrTestUserNotFound
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionDeleteTestUser,
		EntityType: models.EntityTestUser,
		EntityID:   &userID,
		Details:    map[string]any{"test_id": testID, "email": user.Email},
	})

	return nil
}

// Results aggregates the ratings of a test's participants per media file of the test's category.
// Media files without ratings are reported with zero average and count.
// Aggregates are ordered by average descending, ties by media file id ascending.
func (s *testService) Results(ctx context.Context, testID int) (*models.TestResults, error) {
	test, err := s.repo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}

	media, err := s.mediaRepo.ListByTest(ctx, testID)
	if err != nil {
		s.logger.Error("failed to list test media", zap.Error(err), zap.Int("test_id", testID))
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}

	ratings, err := s.ratingRepo.ListByTest(ctx, testID)
	if err != nil {
		s.logger.Error("failed to list test ratings", zap.Error(err), zap.Int("test_id", testID))
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}

	return &models.TestResults{
		Test:       *test,
		Aggregated: aggregateRatings(media, ratings),
		Individual: ratings,
	}, nil
}

func aggregateRatings(media []models.MediaFile, ratings []models.IndividualRating) []models.AggregatedResult {
	type sum struct {
		total float64
		count int
	}
	sums := make(map[int]*sum, len(media))
	for _, r := range ratings {
		acc, ok := sums[r.Rating.MediaFileID]
		if !ok {
			acc = &sum{}
			sums[r.Rating.MediaFileID] = acc
		}
		acc.total += r.Rating.Stars
		acc.count++
	}

	results := make([]models.AggregatedResult, 0, len(media))
	for _, m := range media {
		result := models.AggregatedResult{MediaFile: m}
		if acc, ok := sums[m.ID]; ok {
			result.AverageStars = acc.total / float64(acc.count)
			result.TotalRatings = acc.count
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AverageStars != results[j].AverageStars {
			return results[i].AverageStars > results[j].AverageStars
		}
		return results[i].MediaFile.ID < results[j].MediaFile.ID
	})

	return results
}
