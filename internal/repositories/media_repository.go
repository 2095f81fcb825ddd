package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mediarating/backend/internal/models"
)

const mediaColumns = `m.id, m.filename, m.storage_path, m.media_type, m.mime_type, m.uploaded_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMediaFile(row rowScanner, m *models.MediaFile) error {
	return row.Scan(&m.ID, &m.Filename, &m.StoragePath, &m.MediaType, &m.MimeType, &m.UploadedAt)
}

// mediaRepository implements MediaRepository
type mediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *sql.DB) *mediaRepository {
	return &mediaRepository{
		db: db,
	}
}

// CreateWithCategories inserts a media file and links it to every given category in one transaction
func (r *mediaRepository) CreateWithCategories(ctx context.Context, media *models.MediaFile, categoryIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO media_files (filename, storage_path, media_type, mime_type) VALUES (?, ?, ?, ?)`,
		media.Filename, media.StoragePath, media.MediaType, media.MimeType,
	)
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	media.ID = int(id)

	if err := insertMediaCategories(ctx, tx, media.ID, categoryIDs); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, `SELECT uploaded_at FROM media_files WHERE id = ?`, media.ID).Scan(&media.UploadedAt); err != nil {
		return fmt.Errorf("failed to read upload time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertMediaCategories(ctx context.Context, tx *sql.Tx, mediaID int, categoryIDs []int) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	values := make([]string, len(categoryIDs))
	args := make([]any, 0, len(categoryIDs)*2)
	for i, categoryID := range categoryIDs {
		values[i] = "(?, ?)"
		args = append(args, mediaID, categoryID)
	}

	query := `INSERT IGNORE INTO media_file_categories (media_file_id, category_id) VALUES ` + strings.Join(values, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return models.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to link media file to categories: %w", err)
	}

	return nil
}

// GetByID retrieves a media file by ID
func (r *mediaRepository) GetByID(ctx context.Context, id int) (*models.MediaFile, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_files m WHERE m.id = ?`

	media := &models.MediaFile{}
	err := scanMediaFile(r.db.QueryRowContext(ctx, query, id), media)
	if err == sql.ErrNoRows {
		return nil, models.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media file by id: %w", err)
	}

	return media, nil
}

// List retrieves media files newest first, each with its categories ordered by name
func (r *mediaRepository) List(ctx context.Context, filter models.MediaFilter) ([]models.MediaFileWithCategories, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.MediaType != nil {
		conditions = append(conditions, "m.media_type = ?")
		args = append(args, *filter.MediaType)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "m.id IN (SELECT media_file_id FROM media_file_categories WHERE category_id = ?)")
		args = append(args, *filter.CategoryID)
	}

	query := `SELECT ` + mediaColumns + ` FROM media_files m`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY m.uploaded_at DESC, m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media files: %w", err)
	}
	defer rows.Close()

	media := make([]models.MediaFileWithCategories, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var m models.MediaFileWithCategories
		if err := scanMediaFile(rows, &m.MediaFile); err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		m.Categories = make([]models.Category, 0)
		media = append(media, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media files: %w", err)
	}

	if len(ids) == 0 {
		return media, nil
	}

	byMedia, err := r.categoriesByMedia(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range media {
		if cats, ok := byMedia[media[i].ID]; ok {
			media[i].Categories = cats
		}
	}

	return media, nil
}

// categoriesByMedia loads the categories of several media files with a single query
func (r *mediaRepository) categoriesByMedia(ctx context.Context, mediaIDs []int) (map[int][]models.Category, error) {
	query := fmt.Sprintf(`
		SELECT mfc.media_file_id, c.id, c.name, c.media_type, c.created_at
		FROM media_file_categories mfc
		INNER JOIN categories c ON c.id = mfc.category_id
		WHERE mfc.media_file_id IN (%s)
		ORDER BY c.name
	`, placeholders(len(mediaIDs)))

	rows, err := r.db.QueryContext(ctx, query, intsToArgs(mediaIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media categories: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]models.Category)
	for rows.Next() {
		var (
			mediaID int
			c       models.Category
		)
		if err := rows.Scan(&mediaID, &c.ID, &c.Name, &c.MediaType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media category: %w", err)
		}
		result[mediaID] = append(result[mediaID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media categories: %w", err)
	}

	return result, nil
}

// ListByTest retrieves the distinct media files linked to a test through its categories, oldest upload first
func (r *mediaRepository) ListByTest(ctx context.Context, testID int) ([]models.MediaFile, error) {
	query := `
		SELECT DISTINCT ` + mediaColumns + `
		FROM media_files m
		INNER JOIN media_file_categories mfc ON mfc.media_file_id = m.id
		INNER JOIN test_categories tc ON tc.category_id = mfc.category_id
		WHERE tc.test_id = ?
		ORDER BY m.uploaded_at, m.id
	`

	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test media files: %w", err)
	}
	defer rows.Close()

	media := make([]models.MediaFile, 0)
	for rows.Next() {
		var m models.MediaFile
		if err := scanMediaFile(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test media files: %w", err)
	}

	return media, nil
}

// BelongsToTest reports whether a media file is linked to the test's category
func (r *mediaRepository) BelongsToTest(ctx context.Context, testID, mediaID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM media_file_categories mfc
			INNER JOIN test_categories tc ON tc.category_id = mfc.category_id
			WHERE tc.test_id = ? AND mfc.media_file_id = ?
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, testID, mediaID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check media membership: %w", err)
	}

	return exists, nil
}

// ReplaceCategories swaps all category links of a media file in one transaction
func (r *mediaRepository) ReplaceCategories(ctx context.Context, mediaID int, categoryIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_file_categories WHERE media_file_id = ?`, mediaID); err != nil {
		return fmt.Errorf("failed to clear media categories: %w", err)
	}

	if err := insertMediaCategories(ctx, tx, mediaID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a media file row. Category links and ratings cascade.
func (r *mediaRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrMediaNotFound
	}

	return nil
}
