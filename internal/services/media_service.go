package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mediarating/backend/internal/models"
	"github.com/mediarating/backend/internal/storage"
	"go.uber.org/zap"
)

// DefaultMimeType is assumed for file parts without a content type
const DefaultMimeType = "application/octet-stream"

// MediaRepository is the interface that wraps methods for media_files table data access
type MediaRepository interface {
	// Method CreateWithCategories inserts a media file and its category links in one transaction.
	//
	// A category that disappeared meanwhile is returned as models.ErrCategoryNotFound.
	CreateWithCategories(ctx context.Context, media *models.MediaFile, categoryIDs []int) error
	// Method GetByID retrieves a media file by ID.
	//
	// If the media file does not exist, models.ErrMediaNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.MediaFile, error)
	// Method List retrieves media files newest first, each with its categories.
	List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error)
	// Method ListByTest retrieves the distinct media files linked to a test through its category, oldest upload first.
	ListByTest(ctx context.Context, testID int) ([]models.MediaFile, error)
	// Method BelongsToTest reports whether the media file is linked to the test's category.
	BelongsToTest(ctx context.Context, testID, mediaID int) (bool, error)
	// Method ReplaceCategories replaces all category links of a media file in one transaction.
	ReplaceCategories(ctx context.Context, mediaID int, categoryIDs []int) error
	// Method Delete removes a media file row. Links and ratings cascade.
	Delete(ctx context.Context, id int) error
}

// BlobStorage is the interface for uploaded file storage
type BlobStorage interface {
	// Save writes the reader under key and returns the number of bytes stored
	Save(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	// Open opens the blob for reading. A missing blob is storage.ErrObjectNotFound.
	// Local blobs are returned as *os.File so they can be served with http.ServeContent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob
	Delete(ctx context.Context, key string) error
}

type mediaService struct {
	repo         MediaRepository
	categoryRepo CategoryRepository
	storage      BlobStorage
	activity     ActivityRecorder
	logger       *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(repo MediaRepository, categoryRepo CategoryRepository, storage BlobStorage, activity ActivityRecorder, logger *zap.Logger) *mediaService {
	return &mediaService{
		repo:         repo,
		categoryRepo: categoryRepo,
		storage:      storage,
		activity:     activity,
		logger:       logger,
	}
}

// ParseCategoryIDs parses the category_ids form value of an upload
func (s *mediaService) ParseCategoryIDs(raw string) ([]int, error) {
	return parseCategoryIDs(raw)
}

// parseCategoryIDs parses a comma separated list of category ids, ignoring blanks and duplicates
func parseCategoryIDs(raw string) ([]int, error) {
	ids := make([]int, 0)
	seen := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, models.BadRequestf("invalid category id: %q", part)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, models.BadRequestf("at least one valid category id is required")
	}
	return ids, nil
}

// ResolveCategories loads every requested category. Any unknown id is a bad request.
func (s *mediaService) ResolveCategories(ctx context.Context, ids []int) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, models.BadRequestf("at least one valid category id is required")
	}

	found, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to get categories", zap.Error(err))
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		category, ok := found[id]
		if !ok {
			return nil, models.BadRequestf("category with id %d does not exist", id)
		}
		categories = append(categories, category)
	}

	return categories, nil
}

// checkMediaType verifies that a file of mediaType may join every category
func checkMediaType(filename string, mediaType models.MediaType, categories []models.Category) error {
	for _, category := range categories {
		if category.MediaType != mediaType {
			return models.BadRequestf("cannot add %s files to the %s-only category %q (id %d), file %q is of type %s",
				mediaType, category.MediaType, category.Name, category.ID, filename, mediaType)
		}
	}
	return nil
}

// Upload stores one file under the given categories. Its media type, derived from mimeType,
// must equal the media type of every category.
func (s *mediaService) Upload(ctx context.Context, actor models.Actor, categories []models.Category, filename, mimeType string, r io.Reader) (*models.MediaFile, error) {
	if filename == "" {
		return nil, models.BadRequestf("file field missing filename")
	}
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	if len(categories) == 0 {
		return nil, models.BadRequestf("category_ids must be provided before file fields")
	}

	mediaType := models.MediaTypeFromMime(mimeType)
	if err := checkMediaType(filename, mediaType, categories); err != nil {
		return nil, err
	}

	key := storage.GenerateFileName(filename)
	size, err := s.storage.Save(ctx, key, mimeType, r)
	if err != nil {
		s.logger.Error("failed to store file", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	categoryIDs := make([]int, len(categories))
	for i, category := range categories {
		categoryIDs[i] = category.ID
	}

	media := &models.MediaFile{
		Filename:    filename,
		StoragePath: key,
		MediaType:   mediaType,
		MimeType:    mimeType,
	}
	if err := s.repo.CreateWithCategories(ctx, media, categoryIDs); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned file", zap.String("key", key), zap.Error(delErr))
		}
		if errors.Is(err, models.ErrCategoryNotFound) {
			return nil, models.BadRequestf("one of the categories no longer exists")
		}
		s.logger.Error("failed to create media file", zap.Error(err))
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	s.logger.Info("media file uploaded",
		zap.Int("id", media.ID),
		zap.String("filename", filename),
		zap.Int64("size", size),
		zap.Ints("category_ids", categoryIDs),
	)
	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionUploadMedia,
		EntityType: models.EntityMedia,
		EntityID:   &media.ID,
		Details:    map[string]any{"filename": filename, "category_ids": categoryIDs},
	})

	return media, nil
}

// List retrieves media files with their categories
func (s *mediaService) List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error) {
	if filter.MediaType != nil && *filter.MediaType != models.MediaTypeOther && !filter.MediaType.IsCategoryType() {
		return nil, models.BadRequestf("invalid media type: %s", *filter.MediaType)
	}

	media, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list media files", zap.Error(err))
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}

	return media, nil
}

// UpdateCategories replaces the categories of a media file. Every category must exist
// and hold the media file's type.
func (s *mediaService) UpdateCategories(ctx context.Context, actor models.Actor, id int, req *models.UpdateMediaCategoriesRequest) error {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(req.CategoryIDs))
	seen := make(map[int]bool)
	for _, categoryID := range req.CategoryIDs {
		if !seen[categoryID] {
			seen[categoryID] = true
			ids = append(ids, categoryID)
		}
	}

	if len(ids) > 0 {
		categories, err := s.ResolveCategories(ctx, ids)
		if err != nil {
			return err
		}
		if err := checkMediaType(media.Filename, media.MediaType, categories); err != nil {
			return err
		}
	}

	if err := s.repo.ReplaceCategories(ctx, id, ids); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return models.BadRequestf("one of the categories no longer exists")
		}
		s.logger.Error("failed to update media categories", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update media categories: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionUpdateMediaCat,
		EntityType: models.EntityMedia,
		EntityID:   &id,
		Details:    map[string]any{"new_category_ids": ids},
	})

	return nil
}

// Delete removes a media file record, then its blob on a best-effort basis
func (s *mediaService) Delete(ctx context.Context, actor models.Actor, id int) error {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, media.StoragePath); err != nil {
		s.logger.Warn("failed to remove media blob", zap.Int("id", id), zap.String("key", media.StoragePath), zap.Error(err))
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionDeleteMedia,
		EntityType: models.EntityMedia,
		EntityID:   &id,
		Details:    map[string]any{"filename": media.Filename},
	})

	return nil
}

// Open returns a media file record and a reader over its blob. The caller closes the reader.
func (s *mediaService) Open(ctx context.Context, id int) (*models.MediaFile, io.ReadCloser, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(ctx, media.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, fmt.Errorf("%w: file not found on disk", models.ErrNotFound)
	}
	if err != nil {
		s.logger.Error("failed to open media blob", zap.Int("id", id), zap.Error(err))
		return nil, nil, fmt.Errorf("failed to open media file: %w", err)
	}

	return media, rc, nil
}
