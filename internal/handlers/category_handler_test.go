package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mediarating/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCategoryHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		body           any
		svc            *mockCategoryService
		expectedStatus int
	}{
		{
			name:           "list",
			method:         http.MethodGet,
			target:         "/admin/categories",
			svc:            &mockCategoryService{categories: []models.Category{{ID: 1, Name: "Jazz"}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "list failure",
			method:         http.MethodGet,
			target:         "/admin/categories",
			svc:            &mockCategoryService{err: errors.New("db error")},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "create",
			method:         http.MethodPost,
			target:         "/admin/categories",
			body:           models.CreateCategoryRequest{Name: "Jazz", MediaType: models.MediaTypeAudio},
			svc:            &mockCategoryService{category: &models.Category{ID: 1, Name: "Jazz"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "create duplicate",
			method:         http.MethodPost,
			target:         "/admin/categories",
			body:           models.CreateCategoryRequest{Name: "Jazz", MediaType: models.MediaTypeAudio},
			svc:            &mockCategoryService{err: models.ErrDuplicateEntry},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "delete",
			method:         http.MethodDelete,
			target:         "/admin/categories/1",
			svc:            &mockCategoryService{},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "delete unknown",
			method:         http.MethodDelete,
			target:         "/admin/categories/1",
			svc:            &mockCategoryService{err: models.ErrCategoryNotFound},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCategoryHandler(tt.svc, zap.NewNop())

			w := serve(h.RegisterRoutes, asAdmin(jsonRequest(t, tt.method, tt.target, tt.body), "root", true))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
