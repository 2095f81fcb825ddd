package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum length of admin passwords
const MinPasswordLength = 8

// AdminRepository is the interface that wraps methods for admins table data access
type AdminRepository interface {
	// Method Create inserts a new admin and sets its ID.
	//
	// A duplicate username is returned as an error wrapping models.ErrConflict.
	Create(ctx context.Context, admin *models.Admin) error
	// Method GetByUsername retrieves an admin by username.
	//
	// If the admin does not exist, models.ErrAdminNotFound is returned.
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	// Method GetByID retrieves an admin by ID.
	//
	// Please reference GetByUsername method for more information about error values.
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	// Method List retrieves all admins newest first.
	List(ctx context.Context) ([]models.Admin, error)
	// Method UpdatePassword stores a new password hash, clears the must-change flag and stamps the change time.
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	// Method Delete removes an admin.
	Delete(ctx context.Context, id int) error
	// Method Bootstrap inserts the admin unless the username exists and reports whether it was created.
	//
	// The admin becomes a super admin exactly when no admin existed before.
	Bootstrap(ctx context.Context, admin *models.Admin) (bool, error)
}

// TokenIssuer issues admin bearer tokens
type TokenIssuer interface {
	GenerateToken(subject string, isSuperAdmin bool) (string, error)
}

type adminService struct {
	repo     AdminRepository
	tokens   TokenIssuer
	activity ActivityRecorder
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo AdminRepository, tokens TokenIssuer, activity ActivityRecorder, logger *zap.Logger) *adminService {
	return &adminService{
		repo:     repo,
		tokens:   tokens,
		activity: activity,
		logger:   logger,
	}
}

// Login verifies admin credentials and issues a bearer token
func (s *adminService) Login(ctx context.Context, actor models.Actor, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, models.BadRequestf("username and password are required")
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrAdminNotFound) {
		return nil, models.ErrInvalidCredential
	}
	if err != nil {
		s.logger.Error("failed to get admin", zap.Error(err))
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredential
	}

	token, err := s.tokens.GenerateToken(admin.Username, admin.IsSuperAdmin)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	actor.Admin = admin.Username
	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionLogin,
		EntityType: models.EntityAdmin,
		EntityID:   &admin.ID,
	})

	return &models.LoginResponse{
		Token:              token,
		IsSuperAdmin:       admin.IsSuperAdmin,
		PasswordMustChange: admin.PasswordMustChange,
	}, nil
}

func validateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		return models.BadRequestf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Create adds a regular admin who must change the password on first login
func (s *adminService) Create(ctx context.Context, actor models.Actor, req *models.CreateAdminRequest) (*models.Admin, error) {
	if !actor.IsSuperAdmin {
		return nil, models.ErrSuperAdminOnly
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, models.BadRequestf("username is required")
	}
	if err := validateNewPassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username:           username,
		PasswordHash:       hash,
		PasswordMustChange: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, admin.ID)
	if err != nil {
		s.logger.Error("failed to reload created admin", zap.Error(err), zap.Int("id", admin.ID))
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionCreateAdmin,
		EntityType: models.EntityAdmin,
		EntityID:   &created.ID,
		Details:    map[string]any{"username": created.Username},
	})

	return created, nil
}

// List retrieves all admins
func (s *adminService) List(ctx context.Context, actor models.Actor) ([]models.Admin, error) {
	if !actor.IsSuperAdmin {
		return nil, models.ErrSuperAdminOnly
	}

	admins, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list admins", zap.Error(err))
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	return admins, nil
}

// Delete removes a regular admin. Super admins cannot be deleted.
func (s *adminService) Delete(ctx context.Context, actor models.Actor, id int) error {
	if !actor.IsSuperAdmin {
		return models.ErrSuperAdminOnly
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if admin.IsSuperAdmin {
		return fmt.Errorf("%w: cannot delete a super admin", models.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionDeleteAdmin,
		EntityType: models.EntityAdmin,
		EntityID:   &id,
		Details:    map[string]any{"username": admin.Username},
	})

	return nil
}

// ChangePassword replaces the password of the calling admin after verifying the current one
func (s *adminService) ChangePassword(ctx context.Context, actor models.Actor, req *models.ChangePasswordRequest) error {
	if err := validateNewPassword(req.NewPassword); err != nil {
		return err
	}

	admin, err := s.repo.GetByUsername(ctx, actor.Admin)
	if errors.Is(err, models.ErrAdminNotFound) {
		return models.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", models.ErrUnauthorized)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActivityEntry{
		Actor:      actor,
		Action:     models.ActionChangePassword,
		EntityType: models.EntityAdmin,
		EntityID:   &admin.ID,
	})

	return nil
}

// Bootstrap provisions an admin account if the username is free.
// The first admin ever created becomes the super admin. Running it again changes nothing.
func (s *adminService) Bootstrap(ctx context.Context, username, password string) (*models.BootstrapResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.BadRequestf("username is required")
	}
	if err := validateNewPassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	created, err := s.repo.Bootstrap(ctx, admin)
	if err != nil {
		s.logger.Error("failed to bootstrap admin", zap.Error(err))
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	if created {
		s.logger.Info("admin bootstrapped", zap.String("username", admin.Username), zap.Bool("super_admin", admin.IsSuperAdmin))
	}

	return &models.BootstrapResult{
		Admin:   admin,
		Created: created,
	}, nil
}
