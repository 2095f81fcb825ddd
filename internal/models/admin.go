package models

import "time"

// Admin is an administrator account
type Admin struct {
	ID                 int        `json:"id"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"-"`
	IsSuperAdmin       bool       `json:"is_super_admin"`
	CreatedAt          time.Time  `json:"created_at"`
	PasswordMustChange bool       `json:"password_must_change"`
	LastPasswordChange *time.Time `json:"last_password_change,omitempty"`
}

// Claims is the verified content of an admin bearer token
type Claims struct {
	Subject      string
	IsSuperAdmin bool
	ExpiresAt    time.Time
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token              string `json:"token"`
	IsSuperAdmin       bool   `json:"is_super_admin"`
	PasswordMustChange bool   `json:"password_must_change"`
}

// CreateAdminRequest is the request body for admin creation
type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// BootstrapResult reports what the bootstrap operation did
type BootstrapResult struct {
	Admin   *Admin
	Created bool
}
