package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "bad request", err: models.BadRequestf("stars out of range"), expected: http.StatusBadRequest},
		{name: "invalid token", err: models.ErrInvalidToken, expected: http.StatusUnauthorized},
		{name: "closed test", err: models.ErrTestClosed, expected: http.StatusForbidden},
		{name: "super admin only", err: models.ErrSuperAdminOnly, expected: http.StatusForbidden},
		{name: "unknown session", err: models.ErrSessionNotFound, expected: http.StatusNotFound},
		{name: "duplicate", err: models.ErrDuplicateEntry, expected: http.StatusConflict},
		{name: "completed session", err: models.ErrSessionCompleted, expected: http.StatusGone},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", models.ErrTestNotFound), expected: http.StatusNotFound},
		{name: "storage failure", err: errors.New("connection refused"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFromError(tt.err))
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	h := &BaseHandler{logger: zap.NewNop()}

	t.Run("domain error exposes message", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.respondServiceError(w, models.ErrSessionCompleted, "failed")

		assert.Equal(t, http.StatusGone, w.Code)
		assert.Equal(t, "you have already completed this test", decodeError(t, w))
	})

	t.Run("internal error hides detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.respondServiceError(w, errors.New("dial tcp 10.0.0.5:3306: refused"), "failed to list tests")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to list tests", decodeError(t, w))
	})
}
