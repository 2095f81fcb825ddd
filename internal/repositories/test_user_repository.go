package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediarating/backend/internal/models"
)

const testUserColumns = `id, test_id, email, one_time_token, accessed_at, completed_at`

func scanTestUser(row rowScanner, u *models.TestUser) error {
	var accessedAt, completedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.TestID, &u.Email, &u.OneTimeToken, &accessedAt, &completedAt); err != nil {
		return err
	}
	u.AccessedAt = nil
	if accessedAt.Valid {
		u.AccessedAt = &accessedAt.Time
	}
	u.CompletedAt = nil
	if completedAt.Valid {
		u.CompletedAt = &completedAt.Time
	}
	return nil
}

// testUserRepository implements TestUserRepository
type testUserRepository struct {
	db *sql.DB
}

// NewTestUserRepository creates a new test user repository
func NewTestUserRepository(db *sql.DB) *testUserRepository {
	return &testUserRepository{
		db: db,
	}
}

// Create inserts a participant session. A second invitation for the same test and email is a conflict.
func (r *testUserRepository) Create(ctx context.Context, user *models.TestUser) error {
	query := `INSERT INTO test_users (test_id, email, one_time_token) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.TestID, user.Email, user.OneTimeToken)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: user already added to this test", models.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return models.ErrTestNotFound
		}
		return fmt.Errorf("failed to create test user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = int(id)

	return nil
}

// ExistsByTestAndEmail reports whether the email was already invited to the test
func (r *testUserRepository) ExistsByTestAndEmail(ctx context.Context, testID int, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM test_users WHERE test_id = ? AND email = ?)`
	if err := r.db.QueryRowContext(ctx, query, testID, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check test user existence: %w", err)
	}

	return exists, nil
}

// GetByToken retrieves a participant session by its one-time token
func (r *testUserRepository) GetByToken(ctx context.Context, token string) (*models.TestUser, error) {
	query := `SELECT ` + testUserColumns + ` FROM test_users WHERE one_time_token = ? LIMIT 1`

	user := &models.TestUser{}
	err := scanTestUser(r.db.QueryRowContext(ctx, query, token), user)
	if err == sql.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test user by token: %w", err)
	}

	return user, nil
}

// GetByID retrieves a participant session by ID
func (r *testUserRepository) GetByID(ctx context.Context, id int) (*models.TestUser, error) {
	query := `SELECT ` + testUserColumns + ` FROM test_users WHERE id = ?`

	user := &models.TestUser{}
	err := scanTestUser(r.db.QueryRowContext(ctx, query, id), user)
	if err == sql.ErrNoRows {
		return nil, models.ErrTestUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test user by id: %w", err)
	}

	return user, nil
}

// ListByTest retrieves the participants of a test newest first
func (r *testUserRepository) ListByTest(ctx context.Context, testID int) ([]models.TestUser, error) {
	query := `SELECT ` + testUserColumns + ` FROM test_users WHERE test_id = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test users: %w", err)
	}
	defer rows.Close()

	users := make([]models.TestUser, 0)
	for rows.Next() {
		var u models.TestUser
		if err := scanTestUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan test user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test users: %w", err)
	}

	return users, nil
}

// MarkAccessed stamps accessed_at only if it is still NULL.
// It returns true for exactly one caller per session, even under concurrent access.
func (r *testUserRepository) MarkAccessed(ctx context.Context, id int) (bool, error) {
	query := `UPDATE test_users SET accessed_at = NOW(6) WHERE id = ? AND accessed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark test user accessed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// MarkCompleted stamps completed_at with the current time, also when already set
func (r *testUserRepository) MarkCompleted(ctx context.Context, id int) error {
	query := `UPDATE test_users SET completed_at = NOW(6) WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark test user completed: %w", err)
	}

	return nil
}

// Delete removes a participant session. Its ratings cascade.
func (r *testUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM test_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete test user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrTestUserNotFound
	}

	return nil
}
