package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// TestService is the interface that wraps methods for survey test business logic.
type TestService interface {
	// Method Create creates an open test bound to one existing category.
	Create(ctx context.Context, actor models.Actor, req *models.CreateTestRequest) (*models.Test, error)
	// Method List retrieves all tests newest first.
	List(ctx context.Context) ([]models.Test, error)
	// Method AddUser invites a participant and returns the one-time link.
	//
	// The invitation email is sent in the background; its failure never fails the call.
	// A second invitation of the same email returns an error wrapping models.ErrConflict.
	AddUser(ctx context.Context, actor models.Actor, testID int, req *models.AddTestUserRequest) (*models.AddTestUserResponse, error)
	// Method ListUsers retrieves the participants of a test.
	ListUsers(ctx context.Context, testID int) ([]models.TestUser, error)
	// Method Close closes a test. Closed tests reject participant activity.
	Close(ctx context.Context, actor models.Actor, id int) error
	// Method Delete removes a test. Only super admins and the creator may delete it.
	Delete(ctx context.Context, actor models.Actor, id int) error
	// Method DeleteUser removes a participant of an open test together with their ratings.
	DeleteUser(ctx context.Context, actor models.Actor, testID, userID int) error
	// Method Results aggregates the ratings of a test.
	Results(ctx context.Context, testID int) (*models.TestResults, error)
}

// TestHandler handles HTTP requests for survey tests
type TestHandler struct {
	BaseHandler
	service TestService
}

// NewTestHandler creates a new test handler
func NewTestHandler(svc TestService, logger *zap.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all test handler routes
func (h *TestHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/tests", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.Delete)
			r.Patch("/close", h.Close)
			r.Get("/results", h.Results)
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.AddUser)
			r.Delete("/users/{userID}", h.DeleteUser)
		})
	})
}

// List handles GET /api/admin/tests
// @Summary List tests
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Test
// @Failure 500 {object} map[string]string
// @Router /admin/tests [get]
func (h *TestHandler) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to list tests")
		return
	}

	h.respondJSON(w, http.StatusOK, tests)
}

// Create handles POST /api/admin/tests
// @Summary Create test
// @Description Create an open test bound to one category. loop_media defaults to true.
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateTestRequest true "Test"
// @Success 201 {object} models.Test
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests [post]
func (h *TestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTestRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	test, err := h.service.Create(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create test")
		return
	}

	h.respondJSON(w, http.StatusCreated, test)
}

// Delete handles DELETE /api/admin/tests/{id}
// @Summary Delete test
// @Description Delete a test with its participants and ratings. Super admins or the creator only.
// @Tags tests
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id} [delete]
func (h *TestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		h.respondServiceError(w, err, "failed to delete test")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Close handles PATCH /api/admin/tests/{id}/close
// @Summary Close test
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id}/close [patch]
func (h *TestHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Close(r.Context(), actorFromRequest(r), id); err != nil {
		h.respondServiceError(w, err, "failed to close test")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "test closed"})
}

// Results handles GET /api/admin/tests/{id}/results
// @Summary Test results
// @Description Aggregated and individual ratings. Aggregates are ordered by average descending, ties by media file id.
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} models.TestResults
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id}/results [get]
func (h *TestHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	results, err := h.service.Results(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get test results")
		return
	}

	h.respondJSON(w, http.StatusOK, results)
}

// ListUsers handles GET /api/admin/tests/{id}/users
// @Summary List participants
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {array} models.TestUser
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id}/users [get]
func (h *TestHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}

	users, err := h.service.ListUsers(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to list participants")
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// AddUser handles POST /api/admin/tests/{id}/users
// @Summary Invite participant
// @Description Create a one-time link for the email and send the invitation in the background
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Param request body models.AddTestUserRequest true "Participant email"
// @Success 201 {object} models.AddTestUserResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id}/users [post]
func (h *TestHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}
	var req models.AddTestUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.AddUser(r.Context(), actorFromRequest(r), id, &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to add participant")
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

// DeleteUser handles DELETE /api/admin/tests/{id}/users/{userID}
// @Summary Remove participant
// @Tags tests
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Param userID path int true "Participant ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tests/{id}/users/{userID} [delete]
func (h *TestHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	testID, ok := h.intParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.intParam(w, r, "userID")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorFromRequest(r), testID, userID); err != nil {
		h.respondServiceError(w, err, "failed to remove participant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
