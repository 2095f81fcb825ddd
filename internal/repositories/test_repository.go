package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediarating/backend/internal/models"
)

const testColumns = `t.id, t.name, t.description, t.created_at, t.status, t.created_by, t.loop_media,
	(SELECT MIN(tc.category_id) FROM test_categories tc WHERE tc.test_id = t.id)`

func scanTest(row rowScanner, t *models.Test) error {
	var (
		description sql.NullString
		createdBy   sql.NullString
		categoryID  sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Name, &description, &t.CreatedAt, &t.Status, &createdBy, &t.LoopMedia, &categoryID); err != nil {
		return err
	}
	t.Description = nil
	if description.Valid {
		t.Description = &description.String
	}
	t.CreatedBy = nil
	if createdBy.Valid {
		t.CreatedBy = &createdBy.String
	}
	t.CategoryID = nil
	if categoryID.Valid {
		id := int(categoryID.Int64)
		t.CategoryID = &id
	}
	return nil
}

// testRepository implements TestRepository
type testRepository struct {
	db *sql.DB
}

// NewTestRepository creates a new test repository
func NewTestRepository(db *sql.DB) *testRepository {
	return &testRepository{
		db: db,
	}
}

// CreateWithCategory inserts an open test and binds it to exactly one category in one transaction
func (r *testRepository) CreateWithCategory(ctx context.Context, test *models.Test, categoryID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO tests (name, description, status, created_by, loop_media) VALUES (?, ?, ?, ?, ?)`,
		test.Name, test.Description, models.TestStatusOpen, test.CreatedBy, test.LoopMedia,
	)
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO test_categories (test_id, category_id) VALUES (?, ?)`, id, categoryID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: invalid category", models.ErrBadRequest)
		}
		return fmt.Errorf("failed to bind test to category: %w", err)
	}

	created := &models.Test{}
	query := `SELECT ` + testColumns + ` FROM tests t WHERE t.id = ?`
	if err := scanTest(tx.QueryRowContext(ctx, query, id), created); err != nil {
		return fmt.Errorf("failed to read created test: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	*test = *created

	return nil
}

// GetByID retrieves a test by ID
func (r *testRepository) GetByID(ctx context.Context, id int) (*models.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests t WHERE t.id = ?`

	test := &models.Test{}
	err := scanTest(r.db.QueryRowContext(ctx, query, id), test)
	if err == sql.ErrNoRows {
		return nil, models.ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test by id: %w", err)
	}

	return test, nil
}

// List retrieves all tests newest first
func (r *testRepository) List(ctx context.Context) ([]models.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests t ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	tests := make([]models.Test, 0)
	for rows.Next() {
		var t models.Test
		if err := scanTest(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tests: %w", err)
	}

	return tests, nil
}

// Close sets the test status to closed. Closing an already closed test is a no-op.
func (r *testRepository) Close(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE tests SET status = ? WHERE id = ?`, models.TestStatusClosed, id); err != nil {
		return fmt.Errorf("failed to close test: %w", err)
	}

	return nil
}

// Delete removes a test. Category links, participants and their ratings cascade.
func (r *testRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrTestNotFound
	}

	return nil
}
