package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminRows = []string{"id", "username", "password_hash", "is_super_admin", "created_at", "password_must_change", "last_password_change"}

func TestAdminRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		execErr       error
		expectedError error
	}{
		{name: "success"},
		{name: "duplicate username", execErr: errDuplicate, expectedError: models.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupMockDB(t)
			defer cleanup()
			repo := NewAdminRepository(db)

			exec := mock.ExpectExec(`INSERT INTO admins \(username, password_hash, is_super_admin, password_must_change\)`).
				WithArgs("bob", "hash", false, true)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(2, 1))
			}

			admin := &models.Admin{Username: "bob", PasswordHash: "hash", PasswordMustChange: true}
			err := repo.Create(context.Background(), admin)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, admin.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_GetByUsername(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM admins WHERE username = \? LIMIT 1`).
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows(adminRows).AddRow(1, "root", "hash", true, now, false, now))
	mock.ExpectQuery(`FROM admins WHERE username = \? LIMIT 1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(adminRows))

	admin, err := repo.GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.True(t, admin.IsSuperAdmin)
	require.NotNil(t, admin.LastPasswordChange)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrAdminNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_UpdatePasswordAndDelete(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(`UPDATE admins SET password_hash = \?, password_must_change = 0, last_password_change = NOW\(\) WHERE id = \?`).
		WithArgs("newhash", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM admins WHERE id = \?`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.UpdatePassword(context.Background(), 1, "newhash"))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), models.ErrAdminNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_Bootstrap(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectCreated bool
		expectSuper   bool
	}{
		{
			name: "first admin becomes super admin",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`FROM admins WHERE username = \?`).
					WithArgs("root").
					WillReturnRows(sqlmock.NewRows(adminRows))
				mock.ExpectExec(`INSERT INTO admins`).
					WithArgs("root", "hash", true, false).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectCreated: true,
			expectSuper:   true,
		},
		{
			name: "later admin is regular",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectQuery(`FROM admins WHERE username = \?`).
					WithArgs("root").
					WillReturnRows(sqlmock.NewRows(adminRows))
				mock.ExpectExec(`INSERT INTO admins`).
					WithArgs("root", "hash", false, false).
					WillReturnResult(sqlmock.NewResult(3, 1))
				mock.ExpectCommit()
			},
			expectCreated: true,
			expectSuper:   false,
		},
		{
			name: "existing username is left alone",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`FROM admins WHERE username = \?`).
					WithArgs("root").
					WillReturnRows(sqlmock.NewRows(adminRows).AddRow(1, "root", "oldhash", true, now, false, nil))
				mock.ExpectRollback()
			},
			expectCreated: false,
			expectSuper:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupMockDB(t)
			defer cleanup()
			repo := NewAdminRepository(db)
			tt.setupMock(mock)

			admin := &models.Admin{Username: "root", PasswordHash: "hash"}
			created, err := repo.Bootstrap(context.Background(), admin)

			require.NoError(t, err)
			assert.Equal(t, tt.expectCreated, created)
			assert.Equal(t, tt.expectSuper, admin.IsSuperAdmin)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
