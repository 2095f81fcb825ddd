package models

import (
	"errors"
	"fmt"
)

// Error kinds returned by services. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrGone         = errors.New("gone")
)

var (
	ErrCategoryNotFound  = fmt.Errorf("%w: category not found", ErrNotFound)
	ErrMediaNotFound     = fmt.Errorf("%w: media file not found", ErrNotFound)
	ErrTestNotFound      = fmt.Errorf("%w: test not found", ErrNotFound)
	ErrTestUserNotFound  = fmt.Errorf("%w: test user not found", ErrNotFound)
	ErrAdminNotFound     = fmt.Errorf("%w: admin not found", ErrNotFound)
	ErrSessionNotFound   = fmt.Errorf("%w: invalid or expired link", ErrNotFound)
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrInvalidCredential = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrTestClosed        = fmt.Errorf("%w: this test has been closed", ErrForbidden)
	ErrSessionCompleted  = fmt.Errorf("%w: you have already completed this test", ErrGone)
	ErrSuperAdminOnly    = fmt.Errorf("%w: super admin privileges required", ErrForbidden)
	ErrDuplicateEntry    = fmt.Errorf("%w: already exists", ErrConflict)
)

// BadRequestf builds an ErrBadRequest with a formatted message.
func BadRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// PublicMessage strips the error kind prefix so the remaining text is safe to return to clients.
func PublicMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrGone} {
		prefix := kind.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
