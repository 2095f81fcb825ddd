package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdminManager struct {
	result    *models.BootstrapResult
	admin     *models.Admin
	admins    []models.Admin
	err       error
	username  string
	password  string
	lastActor models.Actor
}

func (m *mockAdminManager) Bootstrap(ctx context.Context, username, password string) (*models.BootstrapResult, error) {
	m.username = username
	m.password = password
	return m.result, m.err
}

func (m *mockAdminManager) Create(ctx context.Context, actor models.Actor, req *models.CreateAdminRequest) (*models.Admin, error) {
	m.lastActor = actor
	m.username = req.Username
	m.password = req.Password
	return m.admin, m.err
}

func (m *mockAdminManager) List(ctx context.Context, actor models.Actor) ([]models.Admin, error) {
	m.lastActor = actor
	return m.admins, m.err
}

func runCLI(t *testing.T, admins AdminManager, args ...string) (string, error) {
	t.Helper()

	ctx := newCommandContext()
	ctx.admins = admins

	var out bytes.Buffer
	cmd := newRootCommand(ctx)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestAdminBootstrapCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		env            string
		mock           *mockAdminManager
		expectedErr    bool
		expectedOutput string
		expectedUser   string
		expectedPass   string
	}{
		{
			name:           "first admin becomes super admin",
			args:           []string{"admin", "bootstrap", "--username", "root", "--password", "rootpass1"},
			mock:           &mockAdminManager{result: &models.BootstrapResult{Admin: &models.Admin{Username: "root", IsSuperAdmin: true}, Created: true}},
			expectedOutput: `Created super admin "root"`,
			expectedUser:   "root",
			expectedPass:   "rootpass1",
		},
		{
			name:           "existing username",
			args:           []string{"admin", "bootstrap", "-u", "root", "-p", "rootpass1"},
			mock:           &mockAdminManager{result: &models.BootstrapResult{Admin: &models.Admin{Username: "root"}}},
			expectedOutput: `Admin "root" already exists, nothing changed`,
			expectedUser:   "root",
			expectedPass:   "rootpass1",
		},
		{
			name:           "password from environment",
			args:           []string{"admin", "bootstrap"},
			env:            "envpass123",
			mock:           &mockAdminManager{result: &models.BootstrapResult{Admin: &models.Admin{Username: "admin"}, Created: true}},
			expectedOutput: `Created admin "admin"`,
			expectedUser:   "admin",
			expectedPass:   "envpass123",
		},
		{
			name:        "missing password",
			args:        []string{"admin", "bootstrap"},
			mock:        &mockAdminManager{},
			expectedErr: true,
		},
		{
			name:        "service error",
			args:        []string{"admin", "bootstrap", "-p", "short"},
			mock:        &mockAdminManager{err: models.BadRequestf("password must be at least 8 characters")},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(passwordEnv, tt.env)

			out, err := runCLI(t, tt.mock, tt.args...)

			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectedOutput)
			assert.Equal(t, tt.expectedUser, tt.mock.username)
			assert.Equal(t, tt.expectedPass, tt.mock.password)
		})
	}
}

func TestAdminCreateCommand(t *testing.T) {
	t.Setenv(passwordEnv, "")

	mock := &mockAdminManager{admin: &models.Admin{ID: 4, Username: "alice"}}
	out, err := runCLI(t, mock, "admin", "create", "alice", "--password", "alicepass")
	require.NoError(t, err)
	assert.Contains(t, out, `Created admin "alice" (id 4)`)
	assert.True(t, mock.lastActor.IsSuperAdmin)
	assert.Equal(t, "alicepass", mock.password)

	_, err = runCLI(t, &mockAdminManager{err: models.ErrDuplicateEntry}, "admin", "create", "alice", "-p", "alicepass")
	assert.EqualError(t, err, `admin "alice" already exists`)

	_, err = runCLI(t, &mockAdminManager{}, "admin", "create", "-p", "alicepass")
	assert.Error(t, err)
}

func TestAdminListCommand(t *testing.T) {
	changed := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	mock := &mockAdminManager{admins: []models.Admin{
		{ID: 2, Username: "alice", PasswordMustChange: true, CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 1, Username: "root", IsSuperAdmin: true, CreatedAt: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC), LastPasswordChange: &changed},
	}}

	out, err := runCLI(t, mock, "admin", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "2024-05-02 09:30:00")

	out, err = runCLI(t, &mockAdminManager{}, "admin", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No admins yet")

	_, err = runCLI(t, &mockAdminManager{err: errors.New("db down")}, "admin", "list")
	assert.Error(t, err)
}
