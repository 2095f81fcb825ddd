package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediarating/backend/internal/models"
)

// categoryRepository implements CategoryRepository
type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB) *categoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create inserts a new category and fills its ID and creation time
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (name, media_type) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, category.Name, category.MediaType)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: category with this name already exists", models.ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	created, err := r.GetByID(ctx, int(id))
	if err != nil {
		return err
	}
	*category = *created

	return nil
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query := `
		SELECT id, name, media_type, created_at
		FROM categories
		WHERE id = ?
	`

	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.MediaType,
		&category.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return category, nil
}

// GetByIDs retrieves the categories with the given IDs keyed by ID. Missing IDs are absent from the map.
func (r *categoryRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.Category, error) {
	categories := make(map[int]models.Category, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, media_type, created_at
		FROM categories
		WHERE id IN (%s)
	`, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, query, intsToArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MediaType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT id, name, media_type, created_at
		FROM categories
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MediaType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Delete removes a category. Links to media files and tests cascade.
func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrCategoryNotFound
	}

	return nil
}
