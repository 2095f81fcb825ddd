package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// CategoryService is the interface that wraps methods for category business logic.
type CategoryService interface {
	// Method Create creates a category fixed to one of the audio, video, image or text media types.
	//
	// A duplicate name returns an error wrapping models.ErrConflict.
	Create(ctx context.Context, actor models.Actor, req *models.CreateCategoryRequest) (*models.Category, error)
	// Method List retrieves all categories ordered by name.
	List(ctx context.Context) ([]models.Category, error)
	// Method Delete removes a category together with its media and test links.
	Delete(ctx context.Context, actor models.Actor, id int) error
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	BaseHandler
	service CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(svc CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all category handler routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/admin/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to list categories")
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/admin/categories
// @Summary Create category
// @Description Create a category bound to one media type
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.Create(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create category")
		return
	}

	h.respondJSON(w, http.StatusCreated, category)
}

// Delete handles DELETE /api/admin/categories/{id}
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		h.respondServiceError(w, err, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
