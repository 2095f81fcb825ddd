package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/middleware"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin account business logic.
type AdminService interface {
	// Method Login verifies the credentials and issues a bearer token.
	//
	// Unknown usernames and wrong passwords both return models.ErrInvalidCredential.
	Login(ctx context.Context, actor models.Actor, req *models.LoginRequest) (*models.LoginResponse, error)
	// Method Create adds a regular admin who must change the password on first login.
	//
	// Only super admins may call it. A duplicate username returns an error wrapping models.ErrConflict.
	Create(ctx context.Context, actor models.Actor, req *models.CreateAdminRequest) (*models.Admin, error)
	// Method List retrieves all admins. Only super admins may call it.
	List(ctx context.Context, actor models.Actor) ([]models.Admin, error)
	// Method Delete removes a regular admin. Super admins cannot be deleted.
	Delete(ctx context.Context, actor models.Actor, id int) error
	// Method ChangePassword replaces the password of the calling admin.
	ChangePassword(ctx context.Context, actor models.Actor, req *models.ChangePasswordRequest) error
}

// AdminHandler handles HTTP requests for admin accounts
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterPublicRoutes registers the login route
func (h *AdminHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/admin/login", h.Login)
}

// RegisterRoutes registers the authenticated admin account routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/change-password", h.ChangePassword)
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(middleware.SuperAdminMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}

// Login handles POST /api/admin/login
// @Summary Admin login
// @Description Authenticate an admin and receive a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to log in")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// ChangePassword handles POST /api/admin/change-password
// @Summary Change password
// @Description Change the password of the authenticated admin
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/change-password [post]
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), actorFromRequest(r), &req); err != nil {
		h.respondServiceError(w, err, "failed to change password")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// List handles GET /api/admin/users
// @Summary List admins
// @Description List all admin accounts. Super admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Admin
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/users [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.List(r.Context(), actorFromRequest(r))
	if err != nil {
		h.respondServiceError(w, err, "failed to list admins")
		return
	}

	h.respondJSON(w, http.StatusOK, admins)
}

// Create handles POST /api/admin/users
// @Summary Create admin
// @Description Create a regular admin who must change the password on first login. Super admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateAdminRequest true "New admin"
// @Success 201 {object} models.Admin
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/users [post]
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	admin, err := h.service.Create(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create admin")
		return
	}

	h.respondJSON(w, http.StatusCreated, admin)
}

// Delete handles DELETE /api/admin/users/{id}
// @Summary Delete admin
// @Description Delete a regular admin. Super admin only.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		h.respondServiceError(w, err, "failed to delete admin")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
