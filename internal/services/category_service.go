package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// CategoryRepository is the interface that wraps methods for categories table data access
type CategoryRepository interface {
	// Method Create inserts a category and fills its ID and creation time.
	//
	// A duplicate name is returned as an error wrapping models.ErrConflict.
	Create(ctx context.Context, category *models.Category) error
	// Method GetByID retrieves a category by ID.
	//
	// If the category does not exist, models.ErrCategoryNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Category, error)
	// Method GetByIDs retrieves the existing categories among ids, keyed by ID.
	//
	// Unknown ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []int) (map[int]models.Category, error)
	// Method List retrieves all categories ordered by name.
	List(ctx context.Context) ([]models.Category, error)
	// Method Delete removes a category. Its media and test links cascade.
	Delete(ctx context.Context, id int) error
}

type categoryService struct {
	repo     CategoryRepository
	activity ActivityRecorder
	logger   *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(repo CategoryRepository, activity ActivityRecorder, logger *zap.Logger) *categoryService {
	return &categoryService{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// Create creates a category fixed to one media type
func (s *categoryService) Create(ctx context.Context, actor models.Actor, req *models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.BadRequestf("category name is required")
	}
	if !req.MediaType.IsCategoryType() {
		return nil, models.BadRequestf("invalid media type: %s, must be 'audio', 'video', 'image' or 'text'", req.MediaType)
	}

	category := &models.Category{Name: name, MediaType: req.MediaType}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionCreateCategory,
		EntityType: models.EntityCategory,
		EntityID:   &category.ID,
		Details:    map[string]any{"name": category.Name, "media_type": category.MediaType},
	})

	return category, nil
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category
func (s *categoryService) Delete(ctx context.Context, actor models.Actor, id int) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionDeleteCategory,
		EntityType: models.EntityCategory,
		EntityID:   &id,
		Details:    map[string]any{"name": category.Name},
	})

	return nil
}
