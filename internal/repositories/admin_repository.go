package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediarating/backend/internal/models"
)

const adminColumns = `id, username, password_hash, is_super_admin, created_at, password_must_change, last_password_change`

func scanAdmin(row rowScanner, a *models.Admin) error {
	var lastChange sql.NullTime
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsSuperAdmin, &a.CreatedAt, &a.PasswordMustChange, &lastChange); err != nil {
		return err
	}
	a.LastPasswordChange = nil
	if lastChange.Valid {
		a.LastPasswordChange = &lastChange.Time
	}
	return nil
}

// adminRepository implements AdminRepository
type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *sql.DB) *adminRepository {
	return &adminRepository{
		db: db,
	}
}

// Create inserts a new admin account
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, is_super_admin, password_must_change)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, admin.Username, admin.PasswordHash, admin.IsSuperAdmin, admin.PasswordMustChange)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: username already exists", models.ErrConflict)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	admin.ID = int(id)

	return nil
}

// GetByUsername retrieves an admin by username
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = ? LIMIT 1`

	admin := &models.Admin{}
	err := scanAdmin(r.db.QueryRowContext(ctx, query, username), admin)
	if err == sql.ErrNoRows {
		return nil, models.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by username: %w", err)
	}

	return admin, nil
}

// GetByID retrieves an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = ?`

	admin := &models.Admin{}
	err := scanAdmin(r.db.QueryRowContext(ctx, query, id), admin)
	if err == sql.ErrNoRows {
		return nil, models.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by id: %w", err)
	}

	return admin, nil
}

// List retrieves all admins newest first
func (r *adminRepository) List(ctx context.Context) ([]models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	admins := make([]models.Admin, 0)
	for rows.Next() {
		var a models.Admin
		if err := scanAdmin(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

// UpdatePassword stores a new hash, clears the must-change flag and stamps the change time
func (r *adminRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = ?, password_must_change = 0, last_password_change = NOW()
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrAdminNotFound
	}

	return nil
}

// Delete removes an admin account
func (r *adminRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrAdminNotFound
	}

	return nil
}

// Bootstrap inserts the admin unless the username is taken. The new admin is a super admin
// exactly when no admin existed before; the check and the insert share one locking transaction.
func (r *adminRepository) Bootstrap(ctx context.Context, admin *models.Admin) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins FOR UPDATE`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}

	existing := &models.Admin{}
	err = scanAdmin(tx.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, admin.Username), existing)
	if err == nil {
		*admin = *existing
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	admin.IsSuperAdmin = count == 0
	result, err := tx.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, is_super_admin, password_must_change) VALUES (?, ?, ?, ?)`,
		admin.Username, admin.PasswordHash, admin.IsSuperAdmin, admin.PasswordMustChange,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get last insert id: %w", err)
	}
	admin.ID = int(id)

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}
