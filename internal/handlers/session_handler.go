package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// SessionService is the interface that wraps methods for participant sessions.
// Participants authenticate with the one-time token of their link only.
type SessionService interface {
	// Method GetTest returns the test and its media files for the token.
	//
	// Unknown tokens return models.ErrSessionNotFound, completed sessions models.ErrSessionCompleted
	// and closed tests models.ErrTestClosed.
	GetTest(ctx context.Context, actor models.Actor, token string) (*models.TestSession, error)
	// Method SubmitRating stores or overwrites the rating of one media file.
	SubmitRating(ctx context.Context, actor models.Actor, token string, req *models.SubmitRatingRequest) (*models.Rating, error)
	// Method ListRatings retrieves the participant's own ratings.
	ListRatings(ctx context.Context, token string) ([]models.Rating, error)
	// Method Complete marks the session completed.
	Complete(ctx context.Context, actor models.Actor, token string) error
}

// SessionHandler handles HTTP requests of survey participants
type SessionHandler struct {
	BaseHandler
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all participant routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/test/{token}", func(r chi.Router) {
		r.Get("/", h.GetTest)
		r.Get("/ratings", h.ListRatings)
		r.Post("/ratings", h.SubmitRating)
		r.Post("/complete", h.Complete)
	})
}

// GetTest handles GET /api/test/{token}
// @Summary Open survey session
// @Description Resolve a one-time link to its test and the media files to rate
// @Tags sessions
// @Produce json
// @Param token path string true "One-time token"
// @Success 200 {object} models.TestSession
// @Failure 403 {object} map[string]string "Test closed"
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 410 {object} map[string]string "Session completed"
// @Failure 500 {object} map[string]string
// @Router /test/{token} [get]
func (h *SessionHandler) GetTest(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	session, err := h.service.GetTest(r.Context(), actorFromRequest(r), token)
	if err != nil {
		h.respondServiceError(w, err, "failed to open test")
		return
	}

	h.respondJSON(w, http.StatusOK, session)
}

// SubmitRating handles POST /api/test/{token}/ratings
// @Summary Submit rating
// @Description Rate a media file of the test from 0 to 5 stars in half steps. Resubmitting overwrites.
// @Tags sessions
// @Accept json
// @Produce json
// @Param token path string true "One-time token"
// @Param request body models.SubmitRatingRequest true "Rating"
// @Success 200 {object} models.Rating
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Invalid token"
// @Failure 403 {object} map[string]string "Test closed"
// @Failure 500 {object} map[string]string
// @Router /test/{token}/ratings [post]
func (h *SessionHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req models.SubmitRatingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	rating, err := h.service.SubmitRating(r.Context(), actorFromRequest(r), token, &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to submit rating")
		return
	}

	h.respondJSON(w, http.StatusOK, rating)
}

// ListRatings handles GET /api/test/{token}/ratings
// @Summary List own ratings
// @Tags sessions
// @Produce json
// @Param token path string true "One-time token"
// @Success 200 {array} models.Rating
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /test/{token}/ratings [get]
func (h *SessionHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.ListRatings(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.respondServiceError(w, err, "failed to list ratings")
		return
	}

	h.respondJSON(w, http.StatusOK, ratings)
}

// Complete handles POST /api/test/{token}/complete
// @Summary Complete session
// @Tags sessions
// @Produce json
// @Param token path string true "One-time token"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /test/{token}/complete [post]
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Complete(r.Context(), actorFromRequest(r), chi.URLParam(r, "token")); err != nil {
		h.respondServiceError(w, err, "failed to complete test")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "test completed"})
}
